package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// RecordSettlement is idempotent per (game, player).
func (s *Store) RecordSettlement(ctx context.Context, entries []LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return unavailable(err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if e.ID == "" {
			e.ID = NewID()
		}
		if _, err := tx.Exec(ctx, `INSERT INTO ledger_entries (id, game_id, player, league, units, amount)
			VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (game_id, player) DO NOTHING`,
			e.ID, e.GameID, e.Player, e.League, e.Units, e.Amount); err != nil {
			return unavailable(err)
		}
	}
	return unavailable(tx.Commit(ctx))
}

func (s *Store) LedgerEntries(ctx context.Context, gameID string) ([]LedgerEntry, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, game_id, player, league, units, amount, created_at
		FROM ledger_entries WHERE game_id = $1 ORDER BY player`, gameID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	out := []LedgerEntry{}
	for rows.Next() {
		var e LedgerEntry
		if err := rows.Scan(&e.ID, &e.GameID, &e.Player, &e.League, &e.Units, &e.Amount, &e.CreatedAt); err != nil {
			return nil, unavailable(err)
		}
		out = append(out, e)
	}
	return out, unavailable(rows.Err())
}
