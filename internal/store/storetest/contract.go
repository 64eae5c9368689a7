// Package storetest holds the behaviour every game store backend must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"chatpoker/internal/game"
	"chatpoker/internal/store"
)

type GameStore interface {
	Load(ctx context.Context, id string) (*game.Game, error)
	LoadRecord(ctx context.Context, id string) (*store.GameRecord, error)
	Create(ctx context.Context, g *game.Game, ch store.Change) error
	Save(ctx context.Context, g *game.Game, prevSeq uint64, ch store.Change) error
	List(ctx context.Context, f store.ListFilter) ([]store.GameRecord, error)
	Events(ctx context.Context, gameID string) ([]store.EventRecord, error)
	RecordSettlement(ctx context.Context, entries []store.LedgerEntry) error
	LedgerEntries(ctx context.Context, gameID string) ([]store.LedgerEntry, error)
}

func SampleGame(id string) *game.Game {
	return &game.Game{
		ID:            id,
		Channel:       "C1",
		Host:          "A",
		League:        "nlhe",
		Units:         "chips",
		BuyIn:         10,
		Status:        game.StatusPending,
		Players:       []string{"A"},
		Contributions: map[string]int64{},
		Folded:        map[string]bool{},
		Acted:         map[string]bool{},
		Seq:           1,
	}
}

// Run exercises create, load, compare-and-save, listing, the event log and
// the settlement ledger against a fresh store from open.
func Run(t *testing.T, open func(t *testing.T) GameStore) {
	t.Run("CreateLoad", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		g := SampleGame("C1-1.0001")
		if err := st.Create(ctx, g, store.Change{Event: "open", Player: "A"}); err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := st.Load(ctx, g.ID)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if got.ID != g.ID || got.Host != "A" || got.Seq != 1 || got.Status != game.StatusPending {
			t.Fatalf("unexpected game: %+v", got)
		}
		if got.Contributions == nil || got.Folded == nil || got.Acted == nil {
			t.Fatal("decoded snapshot has nil maps")
		}
		if err := st.Create(ctx, g, store.Change{Event: "open", Player: "A"}); !errors.Is(err, store.ErrConflict) {
			t.Fatalf("duplicate create: expected ErrConflict, got %v", err)
		}
		if _, err := st.Load(ctx, "C1-missing"); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("missing load: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CompareAndSave", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		g := SampleGame("C1-2.0001")
		if err := st.Create(ctx, g, store.Change{Event: "open", Player: "A"}); err != nil {
			t.Fatalf("create: %v", err)
		}
		next := g.Clone()
		next.Players = append(next.Players, "B")
		next.Seq = 2
		if err := st.Save(ctx, next, 1, store.Change{Event: "join", Player: "B"}); err != nil {
			t.Fatalf("save: %v", err)
		}
		stale := g.Clone()
		stale.Players = append(stale.Players, "C")
		stale.Seq = 2
		if err := st.Save(ctx, stale, 1, store.Change{Event: "join", Player: "C"}); !errors.Is(err, store.ErrConflict) {
			t.Fatalf("stale save: expected ErrConflict, got %v", err)
		}
		got, err := st.Load(ctx, g.ID)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(got.Players) != 2 || got.Players[1] != "B" || got.Seq != 2 {
			t.Fatalf("lost write: %+v", got)
		}
		events, err := st.Events(ctx, g.ID)
		if err != nil {
			t.Fatalf("events: %v", err)
		}
		if len(events) != 2 || events[0].Event != "open" || events[1].Event != "join" || events[1].Seq != 2 || events[1].Player != "B" {
			t.Fatalf("unexpected events: %+v", events)
		}
	})

	t.Run("ListByStatus", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		pending := SampleGame("C1-3.0001")
		active := SampleGame("C1-3.0002")
		active.Status = game.StatusActive
		for _, g := range []*game.Game{pending, active} {
			if err := st.Create(ctx, g, store.Change{Event: "open", Player: "A"}); err != nil {
				t.Fatalf("create %s: %v", g.ID, err)
			}
		}
		items, err := st.List(ctx, store.ListFilter{Status: string(game.StatusActive)})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != 1 || items[0].Game.ID != active.ID {
			t.Fatalf("unexpected active list: %+v", items)
		}
		all, err := st.List(ctx, store.ListFilter{})
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 games, got %d", len(all))
		}
		future := time.Now().Add(time.Hour)
		idle, err := st.List(ctx, store.ListFilter{UpdatedBefore: &future, Limit: 1})
		if err != nil {
			t.Fatalf("list idle: %v", err)
		}
		if len(idle) != 1 {
			t.Fatalf("expected limit to apply, got %d", len(idle))
		}
	})

	t.Run("SettlementIdempotent", func(t *testing.T) {
		st := open(t)
		ctx := context.Background()
		g := SampleGame("C1-4.0001")
		if err := st.Create(ctx, g, store.Change{Event: "open", Player: "A"}); err != nil {
			t.Fatalf("create: %v", err)
		}
		entries := []store.LedgerEntry{
			{GameID: g.ID, Player: "A", League: "nlhe", Units: "chips", Amount: 3},
			{GameID: g.ID, Player: "B", League: "nlhe", Units: "chips", Amount: -3},
		}
		for i := 0; i < 2; i++ {
			if err := st.RecordSettlement(ctx, entries); err != nil {
				t.Fatalf("record settlement: %v", err)
			}
		}
		got, err := st.LedgerEntries(ctx, g.ID)
		if err != nil {
			t.Fatalf("ledger entries: %v", err)
		}
		if len(got) != 2 || got[0].Player != "A" || got[0].Amount != 3 || got[1].Amount != -3 {
			t.Fatalf("unexpected ledger: %+v", got)
		}
	})
}
