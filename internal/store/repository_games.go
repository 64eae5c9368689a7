package store

import (
	"context"

	"chatpoker/internal/game"

	"github.com/jackc/pgx/v5"
)

func (s *Store) Load(ctx context.Context, id string) (*game.Game, error) {
	rec, err := s.loadRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Game, nil
}

func (s *Store) LoadRecord(ctx context.Context, id string) (*GameRecord, error) {
	return s.loadRecord(ctx, id)
}

func (s *Store) loadRecord(ctx context.Context, id string) (*GameRecord, error) {
	var (
		raw []byte
		rec GameRecord
	)
	err := s.Pool.QueryRow(ctx, `SELECT snapshot, created_at, updated_at FROM games WHERE id = $1`, id).
		Scan(&raw, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, unavailable(mapNotFound(err))
	}
	g, err := DecodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	rec.Game = g
	return &rec, nil
}

// Create inserts a freshly opened game; ErrConflict if the id is taken.
func (s *Store) Create(ctx context.Context, g *game.Game, ch Change) error {
	raw, err := encodeSnapshot(g)
	if err != nil {
		return err
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return unavailable(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `INSERT INTO games (id, channel, league, status, seq, snapshot)
		VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING`,
		g.ID, g.Channel, g.League, string(g.Status), int64(g.Seq), raw)
	if err != nil {
		return unavailable(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	if err := insertEvent(ctx, tx, g, ch); err != nil {
		return unavailable(err)
	}
	return unavailable(tx.Commit(ctx))
}

// Save replaces the snapshot only if the stored sequence still equals prevSeq.
func (s *Store) Save(ctx context.Context, g *game.Game, prevSeq uint64, ch Change) error {
	raw, err := encodeSnapshot(g)
	if err != nil {
		return err
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return unavailable(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE games SET snapshot = $1, status = $2, seq = $3, updated_at = now()
		WHERE id = $4 AND seq = $5`,
		raw, string(g.Status), int64(g.Seq), g.ID, int64(prevSeq))
	if err != nil {
		return unavailable(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	if err := insertEvent(ctx, tx, g, ch); err != nil {
		return unavailable(err)
	}
	return unavailable(tx.Commit(ctx))
}

func insertEvent(ctx context.Context, tx pgx.Tx, g *game.Game, ch Change) error {
	_, err := tx.Exec(ctx, `INSERT INTO game_events (id, game_id, seq, event, player) VALUES ($1, $2, $3, $4, $5)`,
		NewID(), g.ID, int64(g.Seq), ch.Event, ch.Player)
	return err
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]GameRecord, error) {
	f = f.Normalized()
	rows, err := s.Pool.Query(ctx, `SELECT snapshot, created_at, updated_at FROM games
		WHERE ($1 = '' OR status = $1) AND ($2::timestamptz IS NULL OR updated_at < $2)
		ORDER BY updated_at DESC, id
		LIMIT $3 OFFSET $4`,
		f.Status, f.UpdatedBefore, f.Limit, f.Offset)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	out := []GameRecord{}
	for rows.Next() {
		var (
			raw []byte
			rec GameRecord
		)
		if err := rows.Scan(&raw, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, unavailable(err)
		}
		g, err := DecodeSnapshot(raw)
		if err != nil {
			return nil, err
		}
		rec.Game = g
		out = append(out, rec)
	}
	return out, unavailable(rows.Err())
}

func (s *Store) Events(ctx context.Context, gameID string) ([]EventRecord, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, game_id, seq, event, player, created_at FROM game_events
		WHERE game_id = $1 ORDER BY seq`, gameID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	out := []EventRecord{}
	for rows.Next() {
		var (
			ev  EventRecord
			seq int64
		)
		if err := rows.Scan(&ev.ID, &ev.GameID, &seq, &ev.Event, &ev.Player, &ev.CreatedAt); err != nil {
			return nil, unavailable(err)
		}
		ev.Seq = uint64(seq)
		out = append(out, ev)
	}
	return out, unavailable(rows.Err())
}
