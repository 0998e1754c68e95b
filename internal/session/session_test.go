package session

import (
	"sync"
	"testing"

	"RangeTrader/internal/model"
)

// testLevels matches the scenario fences used across the suite.
func testLevels() *model.RangeLevels {
	return &model.RangeLevels{
		ATREstimate: 2.0,
		OpeningHigh: 101,
		OpeningLow:  99,
		HighFence:   101.5,
		LowFence:    98.5,
		LastPrice:   100,
	}
}

func TestStart_CapturesFences(t *testing.T) {
	s := Start("SPY", testLevels(), false)
	if !s.Tracking {
		t.Fatal("expected session to be tracking")
	}
	if s.HighFence != 101.5 || s.LowFence != 98.5 {
		t.Errorf("fences: expected 101.5/98.5, got %v/%v", s.HighFence, s.LowFence)
	}
	if s.BreakoutTriggered || s.BreakdownTriggered {
		t.Error("fresh session must have no latches set")
	}
}

func TestEvaluate_BreakoutLatchesOnce(t *testing.T) {
	s := Start("SPY", testLevels(), false)

	Evaluate(s, 103.0)
	if !s.BreakoutTriggered || s.BreakoutPrice != 103.0 {
		t.Fatalf("expected breakout latch at 103.0, got triggered=%v price=%v", s.BreakoutTriggered, s.BreakoutPrice)
	}

	// A later, higher breach must not move the latched price.
	Evaluate(s, 104.0)
	if s.BreakoutPrice != 103.0 {
		t.Errorf("latch must keep the first price: expected 103.0, got %v", s.BreakoutPrice)
	}

	// Pull back inside and break out again: still no re-latch.
	Evaluate(s, 100.0)
	Evaluate(s, 105.0)
	if s.BreakoutPrice != 103.0 {
		t.Errorf("re-breakout must not update the latch: expected 103.0, got %v", s.BreakoutPrice)
	}
}

func TestEvaluate_OnFenceDoesNotLatch(t *testing.T) {
	s := Start("SPY", testLevels(), false)
	Evaluate(s, 101.5)
	Evaluate(s, 98.5)
	if s.BreakoutTriggered || s.BreakdownTriggered {
		t.Error("prices exactly on a fence must not latch")
	}
}

func TestEvaluate_IndependentLatches(t *testing.T) {
	s := Start("SPY", testLevels(), false)
	Evaluate(s, 103.0)
	Evaluate(s, 97.0)
	if !s.BreakoutTriggered || !s.BreakdownTriggered {
		t.Fatalf("both latches should set: breakout=%v breakdown=%v", s.BreakoutTriggered, s.BreakdownTriggered)
	}
	if s.BreakoutPrice != 103.0 || s.BreakdownPrice != 97.0 {
		t.Errorf("latched prices: expected 103.0/97.0, got %v/%v", s.BreakoutPrice, s.BreakdownPrice)
	}
}

func TestEvaluate_ExclusiveLatches(t *testing.T) {
	s := Start("SPY", testLevels(), true)
	Evaluate(s, 103.0)
	Evaluate(s, 97.0)
	if !s.BreakoutTriggered {
		t.Fatal("breakout should have latched first")
	}
	if s.BreakdownTriggered {
		t.Error("exclusive mode: breakdown must not latch after breakout")
	}

	// And the mirror case.
	s2 := Start("SPY", testLevels(), true)
	Evaluate(s2, 97.0)
	Evaluate(s2, 103.0)
	if !s2.BreakdownTriggered || s2.BreakoutTriggered {
		t.Errorf("exclusive mode: first side wins, got breakout=%v breakdown=%v", s2.BreakoutTriggered, s2.BreakdownTriggered)
	}
}

func TestEvaluate_NotTrackingIsNoop(t *testing.T) {
	s := Start("SPY", testLevels(), false)
	Settle(s, 100.0, 100, 10)

	Evaluate(s, 105.0)
	if s.BreakoutTriggered {
		t.Error("evaluate on a settled session must be a no-op")
	}
	Evaluate(nil, 105.0) // must not panic
}

func TestSettle_Breakout(t *testing.T) {
	s := Start("SPY", testLevels(), false)
	Evaluate(s, 103.0)
	Evaluate(s, 104.0)

	mode, pl := Settle(s, 106.0, 100, 10)
	if mode != model.ModeBreakout {
		t.Fatalf("expected BREAKOUT, got %s", mode)
	}
	if pl != 30.0 {
		t.Errorf("expected P&L 30.0 from the first latched price, got %v", pl)
	}
	if s.Tracking {
		t.Error("settlement must end the tracking cycle")
	}
	if s.SettlementMode != model.ModeBreakout || s.RealizedPL != 30.0 {
		t.Errorf("settlement record: got %s / %v", s.SettlementMode, s.RealizedPL)
	}
	if !s.BreakoutTriggered || s.BreakoutPrice != 103.0 {
		t.Error("settlement must preserve the latch history")
	}
}

func TestSettle_RangeHeld(t *testing.T) {
	s := Start("SPY", testLevels(), false)
	Evaluate(s, 100.0)
	Evaluate(s, 101.0)

	mode, pl := Settle(s, 100.0, 250, 10)
	if mode != model.ModeRangeHeld {
		t.Fatalf("expected RANGE_HELD, got %s", mode)
	}
	if pl != 250.0 {
		t.Errorf("range-held pays the fixed credit regardless of final price, got %v", pl)
	}
}

func TestSettle_BreakoutWinsOverBreakdown(t *testing.T) {
	s := Start("SPY", testLevels(), false)
	Evaluate(s, 103.0)
	Evaluate(s, 97.0)

	mode, pl := Settle(s, 100.0, 100, 10)
	if mode != model.ModeBreakout {
		t.Fatalf("breakout must win when both latched, got %s", mode)
	}
	if pl != (100.0-103.0)*10 {
		t.Errorf("P&L must come from the breakout price: expected -30.0, got %v", pl)
	}
}

func TestSettle_BreakdownOnly(t *testing.T) {
	s := Start("SPY", testLevels(), false)
	Evaluate(s, 97.0)

	mode, pl := Settle(s, 95.0, 100, 10)
	if mode != model.ModeBreakdown {
		t.Fatalf("expected BREAKDOWN, got %s", mode)
	}
	if pl != 20.0 {
		t.Errorf("expected (97-95)*10 = 20.0, got %v", pl)
	}
}

func TestSettle_NotTracking(t *testing.T) {
	s := Start("SPY", testLevels(), false)
	Settle(s, 100.0, 100, 10)

	// A second settle must not overwrite the record.
	mode, pl := Settle(s, 200.0, 999, 10)
	if mode != model.ModeUnknown || pl != 0 {
		t.Errorf("settle on a settled session: expected UNKNOWN/0, got %s/%v", mode, pl)
	}
	if s.SettlementMode != model.ModeRangeHeld || s.RealizedPL != 100 {
		t.Errorf("original settlement must stand: got %s/%v", s.SettlementMode, s.RealizedPL)
	}

	if mode, pl := Settle(nil, 100, 100, 10); mode != model.ModeUnknown || pl != 0 {
		t.Errorf("settle(nil): expected UNKNOWN/0, got %s/%v", mode, pl)
	}
}

func TestReset_ClearsEverything(t *testing.T) {
	s := Start("SPY", testLevels(), false)
	Evaluate(s, 103.0)
	Settle(s, 106.0, 100, 10)

	Reset(s)
	if s.Tracking || s.BreakoutTriggered || s.BreakdownTriggered {
		t.Error("reset must clear tracking state and latches")
	}
	if s.BreakoutPrice != 0 || s.BreakdownPrice != 0 {
		t.Error("reset must clear latched prices")
	}
	if s.SettlementMode != "" || s.RealizedPL != 0 {
		t.Error("reset must clear the settlement record")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if len(r.All()) != 0 {
		t.Fatal("fresh registry must be empty")
	}

	s1 := r.Track("SPY", testLevels(), false)
	r.Track("QQQ", testLevels(), false)

	if got, ok := r.Get("SPY"); !ok || got != s1 {
		t.Error("Get must return the tracked session")
	}
	if len(r.Active()) != 2 {
		t.Errorf("expected 2 active sessions, got %d", len(r.Active()))
	}

	// Re-tracking replaces the session, latches and all.
	Evaluate(s1, 103.0)
	s1b := r.Track("SPY", testLevels(), false)
	if s1b == s1 {
		t.Error("re-track must create a fresh session")
	}
	if s1b.BreakoutTriggered {
		t.Error("replacement session must start with clean latches")
	}

	Settle(s1b, 100, 100, 10)
	if len(r.Active()) != 1 {
		t.Errorf("settled sessions are not active, expected 1, got %d", len(r.Active()))
	}
	if len(r.All()) != 2 {
		t.Errorf("All includes settled sessions, expected 2, got %d", len(r.All()))
	}

	r.Drop("SPY")
	if _, ok := r.Get("SPY"); ok {
		t.Error("Drop must remove the session")
	}
}

func TestRegistry_EvaluateReportsFlips(t *testing.T) {
	r := NewRegistry()
	s := r.Track("SPY", testLevels(), false)

	out, down := r.Evaluate(s, 103.0)
	if !out || down {
		t.Fatalf("expected breakout flip only, got breakout=%v breakdown=%v", out, down)
	}
	out, down = r.Evaluate(s, 104.0)
	if out || down {
		t.Error("an already-latched side must not report a flip again")
	}
	out, down = r.Evaluate(s, 97.0)
	if out || !down {
		t.Errorf("expected breakdown flip only, got breakout=%v breakdown=%v", out, down)
	}

	if out, down := r.Evaluate(nil, 97.0); out || down {
		t.Error("evaluate(nil) must report no flips")
	}
}

func TestRegistry_ConcurrentEvaluateAndSettle(t *testing.T) {
	r := NewRegistry()
	s := r.Track("SPY", testLevels(), false)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			r.Evaluate(s, 103.0)
		}
	}()
	go func() {
		defer wg.Done()
		r.Settle(s, 100.0, 100, 10)
	}()
	wg.Wait()

	if s.Tracking {
		t.Fatal("session must be settled after the concurrent settle")
	}
	switch s.SettlementMode {
	case model.ModeRangeHeld:
		if s.RealizedPL != 100 {
			t.Errorf("range-held settlement: expected P&L 100, got %v", s.RealizedPL)
		}
	case model.ModeBreakout:
		if s.BreakoutPrice != 103.0 || s.RealizedPL != (100.0-103.0)*10 {
			t.Errorf("breakout settlement: got price %v, P&L %v", s.BreakoutPrice, s.RealizedPL)
		}
	default:
		t.Errorf("unexpected settlement mode %s", s.SettlementMode)
	}
}

func TestRegistry_StatusSnapshots(t *testing.T) {
	r := NewRegistry()
	s := r.Track("SPY", testLevels(), false)

	snaps := r.Status()
	if len(snaps) != 1 || !snaps[0].Tracking {
		t.Fatalf("expected one tracking snapshot, got %+v", snaps)
	}

	// Later mutations must not show through the copy.
	r.Evaluate(s, 103.0)
	if snaps[0].BreakoutTriggered {
		t.Error("status snapshots must be detached from the live session")
	}
}
