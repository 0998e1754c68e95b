package notifier

import (
	"fmt"
	"strings"

	"RangeTrader/internal/model"
	"RangeTrader/internal/scanner"
)

// FormatSnapshot formats a market view into a quote message.
func FormatSnapshot(view *model.MarketView) string {
	var b strings.Builder
	lv := view.Levels
	b.WriteString(fmt.Sprintf("📈 <b>%s</b> | %s\n\n", view.Symbol, view.FetchedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Last: %.2f | ATR: %.2f\n", lv.LastPrice, lv.ATREstimate))
	b.WriteString(fmt.Sprintf("Opening range: %.2f – %.2f\n", lv.OpeningLow, lv.OpeningHigh))
	b.WriteString(fmt.Sprintf("Fences: %.2f / %.2f\n", lv.LowFence, lv.HighFence))
	b.WriteString(fmt.Sprintf("\nMarket mode: <b>%s</b>\n", view.Mode))
	b.WriteString(suggestedAction(view.Mode))
	return b.String()
}

func suggestedAction(mode model.Mode) string {
	switch mode {
	case model.ModeBreakout:
		return "Suggested action: LONG / BUY"
	case model.ModeBreakdown:
		return "Suggested action: SHORT / SELL"
	default:
		return "Suggested action: HOLD / COLLECT RANGE"
	}
}

// FormatTriggerAlert formats a latch flip during a tracking session.
func FormatTriggerAlert(symbol string, kind model.Mode, price, highFence, lowFence float64) string {
	icon := "🚀"
	fence := highFence
	if kind == model.ModeBreakdown {
		icon = "📉"
		fence = lowFence
	}
	return fmt.Sprintf("%s <b>%s %s</b>\n\nTriggered at %.2f (fence %.2f)\nLatched for this cycle; settlement will use this price.",
		icon, symbol, kind, price, fence)
}

// FormatSettlementReport formats the terminal P&L of a tracking cycle.
func FormatSettlementReport(s *model.TrackedSession, finalPrice float64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧾 <b>%s settled</b> | %s\n\n", s.Symbol, s.SettledAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Mode: <b>%s</b>\n", s.SettlementMode))
	b.WriteString(fmt.Sprintf("Final price: %.2f\n", finalPrice))
	if s.BreakoutTriggered {
		b.WriteString(fmt.Sprintf("Breakout latched at %.2f\n", s.BreakoutPrice))
	}
	if s.BreakdownTriggered {
		b.WriteString(fmt.Sprintf("Breakdown latched at %.2f\n", s.BreakdownPrice))
	}
	b.WriteString(fmt.Sprintf("\nRealized P&L: <b>%+.2f</b>", s.RealizedPL))
	return b.String()
}

// FormatSessionStatus formats a point-in-time snapshot of all sessions.
func FormatSessionStatus(sessions []model.TrackedSession) string {
	if len(sessions) == 0 {
		return "No tracked sessions. Use /track SYMBOL to start one."
	}
	var b strings.Builder
	b.WriteString("📋 <b>Tracked sessions</b>\n\n")
	for _, s := range sessions {
		switch {
		case s.Tracking:
			b.WriteString(fmt.Sprintf("• %s TRACKING | fences %.2f / %.2f", s.Symbol, s.LowFence, s.HighFence))
			if s.BreakoutTriggered {
				b.WriteString(fmt.Sprintf(" | breakout @ %.2f", s.BreakoutPrice))
			}
			if s.BreakdownTriggered {
				b.WriteString(fmt.Sprintf(" | breakdown @ %.2f", s.BreakdownPrice))
			}
		case s.Settled():
			b.WriteString(fmt.Sprintf("• %s SETTLED %s | P&L %+.2f", s.Symbol, s.SettlementMode, s.RealizedPL))
		default:
			b.WriteString(fmt.Sprintf("• %s idle", s.Symbol))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatScanReport formats ranked watchlist picks.
func FormatScanReport(picks []scanner.Pick) string {
	if len(picks) == 0 {
		return "No symbols to suggest right now."
	}
	var b strings.Builder
	b.WriteString("🔍 <b>Stocks to watch</b>\n\n")
	for _, p := range picks {
		b.WriteString(fmt.Sprintf("• %s %.2f | %s | ATR %.2f\n", p.Symbol, p.Price, p.Mode, p.ATR))
	}
	b.WriteString("\nBREAKOUT = bullish run, BREAKDOWN = bearish flush, RANGE_HELD = chop/collect premium.")
	return b.String()
}

// FormatAccount formats brokerage account balances.
func FormatAccount(name string, acct *model.Account) string {
	return fmt.Sprintf("💼 <b>Account (%s)</b>\n\nBuying power: $%.2f\nEquity: $%.2f\nCash: $%.2f",
		name, acct.BuyingPower, acct.Equity, acct.Cash)
}
