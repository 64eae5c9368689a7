package ledger

import (
	"context"
	"testing"

	"chatpoker/internal/game"
	"chatpoker/internal/store"
)

func settledGame() *game.Game {
	return &game.Game{
		ID:            "C1-1700000000.000100",
		Channel:       "C1",
		Host:          "A",
		League:        "nlhe",
		Units:         "chips",
		BuyIn:         10,
		Status:        game.StatusComplete,
		Players:       []string{"A", "B", "C"},
		Pot:           5,
		CurrentBet:    2,
		Contributions: map[string]int64{"A": 2, "B": 2, "C": 1},
		Folded:        map[string]bool{"C": true},
		Winners:       []string{"A", "B"},
		Payouts:       map[string]int64{"A": 3, "B": 2},
		TurnIndex:     -1,
		Seq:           9,
	}
}

func TestEntriesNetToZero(t *testing.T) {
	entries, err := Entries(settledGame())
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected one row per player, got %d", len(entries))
	}
	want := map[string]int64{"A": 1, "B": 0, "C": -1}
	var sum int64
	for _, e := range entries {
		if e.Amount != want[e.Player] {
			t.Fatalf("%s: amount = %d, want %d", e.Player, e.Amount, want[e.Player])
		}
		if e.League != "nlhe" || e.Units != "chips" || e.GameID != "C1-1700000000.000100" {
			t.Fatalf("unexpected entry: %+v", e)
		}
		sum += e.Amount
	}
	if sum != 0 {
		t.Fatalf("entries should sum to zero, got %d", sum)
	}
}

func TestEntriesRequireCompleteGame(t *testing.T) {
	g := settledGame()
	g.Status = game.StatusActive
	if _, err := Entries(g); err == nil {
		t.Fatal("expected error for unfinished game")
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	mem := store.NewMemory()
	g := settledGame()
	l := New(mem)
	for i := 0; i < 2; i++ {
		if err := l.Settle(context.Background(), g); err != nil {
			t.Fatalf("settle %d: %v", i, err)
		}
	}
	entries, err := mem.LedgerEntries(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("ledger entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 rows after repeated settlement, got %d", len(entries))
	}
}
