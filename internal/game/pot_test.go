package game

import (
	"errors"
	"testing"
)

func TestSplitPotEven(t *testing.T) {
	p := SplitPot(6, []string{"A", "B"})
	if p["A"] != 3 || p["B"] != 3 {
		t.Fatalf("expected 3/3, got %+v", p)
	}
}

func TestSplitPotRemainderToEarliestSeats(t *testing.T) {
	p := SplitPot(5, []string{"A", "B", "C"})
	if p["A"] != 2 || p["B"] != 2 || p["C"] != 1 {
		t.Fatalf("expected 2/2/1, got %+v", p)
	}
	if len(SplitPot(5, nil)) != 0 {
		t.Fatal("no winners should pay nobody")
	}
}

func TestCheckInvariantsCatchesBadPot(t *testing.T) {
	g := &Game{
		Host:          "A",
		Status:        StatusActive,
		Players:       []string{"A", "B"},
		Pot:           3,
		CurrentBet:    1,
		Contributions: map[string]int64{"A": 1},
		Folded:        map[string]bool{},
	}
	if err := CheckInvariants(g); !errors.Is(err, ErrInvariantViolated) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
	g.Pot = 1
	if err := CheckInvariants(g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g.Players = []string{"B", "A"}
	if err := CheckInvariants(g); !errors.Is(err, ErrInvariantViolated) {
		t.Fatalf("expected host seat violation, got %v", err)
	}
}
