// Package sqlite provides a single-file game store for deployments without
// Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"chatpoker/internal/game"
	"chatpoker/internal/store"
	"chatpoker/internal/store/sqlite/migrations"

	_ "modernc.org/sqlite"
)

const migrationTable = "schema_migrations"

type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serializes writers and keeps compare-and-save atomic.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	if _, err := sqlDB.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		name TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`, migrationTable)); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	for _, file := range files {
		var applied int
		if err := sqlDB.QueryRow(`SELECT COUNT(1) FROM `+migrationTable+` WHERE name = ?`, file).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied > 0 {
			continue
		}
		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		tx, err := sqlDB.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", file, err)
		}
		if _, err := tx.Exec(`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`, file, toMillis(time.Now())); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Load(ctx context.Context, id string) (*game.Game, error) {
	rec, err := s.LoadRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Game, nil
}

func (s *Store) LoadRecord(ctx context.Context, id string) (*store.GameRecord, error) {
	var (
		raw                  []byte
		createdAt, updatedAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `SELECT snapshot, created_at, updated_at FROM games WHERE id = ?`, id).
		Scan(&raw, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return record(raw, createdAt, updatedAt)
}

func (s *Store) Create(ctx context.Context, g *game.Game, ch store.Change) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	now := toMillis(s.now())
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO games (id, channel, league, status, seq, snapshot, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Channel, g.League, string(g.Status), int64(g.Seq), raw, now, now)
	if err != nil {
		return unavailable(err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		if err != nil {
			return unavailable(err)
		}
		return store.ErrConflict
	}
	if err := insertEvent(ctx, tx, g, ch, now); err != nil {
		return unavailable(err)
	}
	return unavailable(tx.Commit())
}

func (s *Store) Save(ctx context.Context, g *game.Game, prevSeq uint64, ch store.Change) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	now := toMillis(s.now())
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE games SET snapshot = ?, status = ?, seq = ?, updated_at = ?
		WHERE id = ? AND seq = ?`,
		raw, string(g.Status), int64(g.Seq), now, g.ID, int64(prevSeq))
	if err != nil {
		return unavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable(err)
	}
	if n == 0 {
		return store.ErrConflict
	}
	if err := insertEvent(ctx, tx, g, ch, now); err != nil {
		return unavailable(err)
	}
	return unavailable(tx.Commit())
}

func insertEvent(ctx context.Context, tx *sql.Tx, g *game.Game, ch store.Change, now int64) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO game_events (id, game_id, seq, event, player, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		store.NewID(), g.ID, int64(g.Seq), ch.Event, ch.Player, now)
	return err
}

func (s *Store) List(ctx context.Context, f store.ListFilter) ([]store.GameRecord, error) {
	f = f.Normalized()
	var before sql.NullInt64
	if f.UpdatedBefore != nil {
		before = sql.NullInt64{Int64: toMillis(*f.UpdatedBefore), Valid: true}
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT snapshot, created_at, updated_at FROM games
		WHERE (? = '' OR status = ?) AND (? IS NULL OR updated_at < ?)
		ORDER BY updated_at DESC, id
		LIMIT ? OFFSET ?`,
		f.Status, f.Status, before, before, f.Limit, f.Offset)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	out := []store.GameRecord{}
	for rows.Next() {
		var (
			raw                  []byte
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&raw, &createdAt, &updatedAt); err != nil {
			return nil, unavailable(err)
		}
		rec, err := record(raw, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, unavailable(rows.Err())
}

func (s *Store) Events(ctx context.Context, gameID string) ([]store.EventRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, game_id, seq, event, player, created_at FROM game_events
		WHERE game_id = ? ORDER BY seq`, gameID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	out := []store.EventRecord{}
	for rows.Next() {
		var (
			ev        store.EventRecord
			seq       int64
			createdAt int64
		)
		if err := rows.Scan(&ev.ID, &ev.GameID, &seq, &ev.Event, &ev.Player, &createdAt); err != nil {
			return nil, unavailable(err)
		}
		ev.Seq = uint64(seq)
		ev.CreatedAt = fromMillis(createdAt)
		out = append(out, ev)
	}
	return out, unavailable(rows.Err())
}

// RecordSettlement is idempotent per (game, player).
func (s *Store) RecordSettlement(ctx context.Context, entries []store.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	now := toMillis(s.now())
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if e.ID == "" {
			e.ID = store.NewID()
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO ledger_entries (id, game_id, player, league, units, amount, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.GameID, e.Player, e.League, e.Units, e.Amount, now); err != nil {
			return unavailable(err)
		}
	}
	return unavailable(tx.Commit())
}

func (s *Store) LedgerEntries(ctx context.Context, gameID string) ([]store.LedgerEntry, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id, game_id, player, league, units, amount, created_at
		FROM ledger_entries WHERE game_id = ? ORDER BY player`, gameID)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	out := []store.LedgerEntry{}
	for rows.Next() {
		var (
			e         store.LedgerEntry
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.GameID, &e.Player, &e.League, &e.Units, &e.Amount, &createdAt); err != nil {
			return nil, unavailable(err)
		}
		e.CreatedAt = fromMillis(createdAt)
		out = append(out, e)
	}
	return out, unavailable(rows.Err())
}

func record(raw []byte, createdAt, updatedAt int64) (*store.GameRecord, error) {
	g, err := store.DecodeSnapshot(raw)
	if err != nil {
		return nil, err
	}
	return &store.GameRecord{Game: g, CreatedAt: fromMillis(createdAt), UpdatedAt: fromMillis(updatedAt)}, nil
}

func unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
}
