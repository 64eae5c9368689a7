package viewmodel

import (
	"testing"

	"chatpoker/internal/game"
)

func TestBuildGameStateSeatData(t *testing.T) {
	g := &game.Game{
		ID:            "C1-100.1",
		Host:          "a1",
		League:        "nlhe",
		Status:        game.StatusActive,
		Players:       []string{"a1", "a2", "a3"},
		Pot:           3,
		CurrentBet:    2,
		Contributions: map[string]int64{"a1": 2, "a2": 1},
		Folded:        map[string]bool{"a3": true},
		TurnIndex:     1,
		Round:         1,
	}

	view := BuildGameState(g)
	if len(view.Seats) != 3 {
		t.Fatalf("expected 3 seats, got %d", len(view.Seats))
	}
	if view.Actor != "a2" || !view.Seats[1].IsActor {
		t.Fatalf("expected a2 to act, got %q", view.Actor)
	}
	if view.Seats[0].ToCall != 0 || view.Seats[1].ToCall != 1 {
		t.Fatalf("unexpected to_call: %+v", view.Seats)
	}
	if !view.Seats[0].IsHost || view.Seats[2].IsActive {
		t.Fatalf("unexpected seat flags: %+v", view.Seats)
	}
	if view.Seats[0].Payout != nil {
		t.Fatal("payout should be hidden before settlement")
	}
}

func TestBuildGameStateSettled(t *testing.T) {
	g := &game.Game{
		ID:            "C1-100.1",
		Host:          "a1",
		Status:        game.StatusComplete,
		Players:       []string{"a1", "a2"},
		Pot:           4,
		CurrentBet:    2,
		Contributions: map[string]int64{"a1": 2, "a2": 2},
		TurnIndex:     -1,
		Winners:       []string{"a2"},
		Payouts:       map[string]int64{"a2": 4},
	}
	view := BuildGameState(g)
	if view.Actor != "" {
		t.Fatalf("completed game has actor %q", view.Actor)
	}
	if view.Seats[1].Payout == nil || *view.Seats[1].Payout != 4 || *view.Seats[0].Payout != 0 {
		t.Fatalf("unexpected payouts: %+v", view.Seats)
	}
}
