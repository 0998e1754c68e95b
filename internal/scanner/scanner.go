package scanner

import (
	"log"
	"sort"

	"RangeTrader/internal/collector"
	"RangeTrader/internal/model"
)

// Pick is one watchlist candidate with its current regime.
type Pick struct {
	Symbol string
	Price  float64
	ATR    float64
	Mode   model.Mode
}

// modePriority orders scan results: the most aggressive plays first.
var modePriority = map[model.Mode]int{
	model.ModeBreakout:  0,
	model.ModeBreakdown: 1,
	model.ModeRangeHeld: 2,
}

// Scanner ranks a watchlist of symbols by breakout/breakdown interest using
// the same fence logic as the tracked sessions.
type Scanner struct {
	Collector *collector.Collector
	Watchlist []string
	MinBars   int // symbols with fewer bars are skipped as too thin
}

// NewScanner creates a Scanner over the given watchlist.
func NewScanner(col *collector.Collector, watchlist []string) *Scanner {
	return &Scanner{Collector: col, Watchlist: watchlist, MinBars: 10}
}

// Scan evaluates every watchlist symbol, skipping those without usable data,
// and sorts breakouts first, then breakdowns, then held ranges. Fetch
// failures are logged and never abort the scan.
func (s *Scanner) Scan() []Pick {
	picks := make([]Pick, 0, len(s.Watchlist))
	for _, sym := range s.Watchlist {
		view, err := s.Collector.Snapshot(sym)
		if err != nil {
			log.Printf("[WARN] scan %s: %v", sym, err)
			continue
		}
		if view.Bars < s.MinBars {
			continue
		}
		picks = append(picks, Pick{
			Symbol: sym,
			Price:  view.Levels.LastPrice,
			ATR:    view.Levels.ATREstimate,
			Mode:   view.Mode,
		})
	}

	sort.SliceStable(picks, func(i, j int) bool {
		return priorityOf(picks[i].Mode) < priorityOf(picks[j].Mode)
	})
	return picks
}

func priorityOf(m model.Mode) int {
	if p, ok := modePriority[m]; ok {
		return p
	}
	return 99
}
