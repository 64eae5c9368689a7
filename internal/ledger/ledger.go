package ledger

import (
	"context"
	"fmt"

	"chatpoker/internal/game"
	"chatpoker/internal/store"
)

// Writer persists settlement rows; RecordSettlement must be idempotent per
// (game, player).
type Writer interface {
	RecordSettlement(ctx context.Context, entries []store.LedgerEntry) error
}

type Ledger struct {
	Store Writer
}

func New(w Writer) *Ledger {
	return &Ledger{Store: w}
}

// Entries turns a completed game into one net result per seated player.
// Winnings minus contribution always sums to zero across the table.
func Entries(g *game.Game) ([]store.LedgerEntry, error) {
	if g.Status != game.StatusComplete {
		return nil, fmt.Errorf("settle %s: game is %s", g.ID, g.Status)
	}
	net := game.Net(g)
	out := make([]store.LedgerEntry, 0, len(g.Players))
	for _, p := range g.Players {
		out = append(out, store.LedgerEntry{
			GameID: g.ID,
			Player: p,
			League: g.League,
			Units:  g.Units,
			Amount: net[p],
		})
	}
	return out, nil
}

func (l *Ledger) Settle(ctx context.Context, g *game.Game) error {
	entries, err := Entries(g)
	if err != nil {
		return err
	}
	return l.Store.RecordSettlement(ctx, entries)
}
