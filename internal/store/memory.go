package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"chatpoker/internal/game"
)

type memoryGame struct {
	raw       []byte
	seq       uint64
	status    game.Status
	createdAt time.Time
	updatedAt time.Time
}

// Memory is an in-process store for local runs and tests. Snapshots are kept
// encoded so callers never share maps with the store.
type Memory struct {
	mu     sync.Mutex
	games  map[string]*memoryGame
	events map[string][]EventRecord
	ledger map[string][]LedgerEntry
	Now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		games:  map[string]*memoryGame{},
		events: map[string][]EventRecord{},
		ledger: map[string][]LedgerEntry{},
		Now:    time.Now,
	}
}

func (m *Memory) Load(ctx context.Context, id string) (*game.Game, error) {
	rec, err := m.LoadRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Game, nil
}

func (m *Memory) LoadRecord(ctx context.Context, id string) (*GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err)
	}
	m.mu.Lock()
	mg, ok := m.games[id]
	var snapshot memoryGame
	if ok {
		snapshot = *mg
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return snapshot.record()
}

func (m *Memory) Create(ctx context.Context, g *game.Game, ch Change) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	raw, err := encodeSnapshot(g)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[g.ID]; ok {
		return ErrConflict
	}
	now := m.Now()
	m.games[g.ID] = &memoryGame{raw: raw, seq: g.Seq, status: g.Status, createdAt: now, updatedAt: now}
	m.appendEventLocked(g, ch, now)
	return nil
}

func (m *Memory) Save(ctx context.Context, g *game.Game, prevSeq uint64, ch Change) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	raw, err := encodeSnapshot(g)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	mg := m.games[g.ID]
	if mg == nil || mg.seq != prevSeq {
		return ErrConflict
	}
	now := m.Now()
	mg.raw = raw
	mg.seq = g.Seq
	mg.status = g.Status
	mg.updatedAt = now
	m.appendEventLocked(g, ch, now)
	return nil
}

func (m *Memory) appendEventLocked(g *game.Game, ch Change, now time.Time) {
	m.events[g.ID] = append(m.events[g.ID], EventRecord{
		ID:        NewIDAt(now),
		GameID:    g.ID,
		Seq:       g.Seq,
		Event:     ch.Event,
		Player:    ch.Player,
		CreatedAt: now,
	})
}

func (m *Memory) List(ctx context.Context, f ListFilter) ([]GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err)
	}
	f = f.Normalized()
	m.mu.Lock()
	type entry struct {
		id string
		mg memoryGame
	}
	matched := make([]entry, 0, len(m.games))
	for id, mg := range m.games {
		if f.Status != "" && string(mg.status) != f.Status {
			continue
		}
		if f.UpdatedBefore != nil && !mg.updatedAt.Before(*f.UpdatedBefore) {
			continue
		}
		matched = append(matched, entry{id: id, mg: *mg})
	}
	m.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].mg.updatedAt.Equal(matched[j].mg.updatedAt) {
			return matched[i].id < matched[j].id
		}
		return matched[i].mg.updatedAt.After(matched[j].mg.updatedAt)
	})
	out := []GameRecord{}
	for i := f.Offset; i < len(matched) && len(out) < f.Limit; i++ {
		rec, err := matched[i].mg.record()
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (m *Memory) Events(_ context.Context, gameID string) ([]EventRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]EventRecord{}, m.events[gameID]...), nil
}

func (m *Memory) RecordSettlement(ctx context.Context, entries []LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.Now()
	for _, e := range entries {
		if m.hasLedgerEntryLocked(e.GameID, e.Player) {
			continue
		}
		if e.ID == "" {
			e.ID = NewIDAt(now)
		}
		e.CreatedAt = now
		m.ledger[e.GameID] = append(m.ledger[e.GameID], e)
	}
	return nil
}

func (m *Memory) hasLedgerEntryLocked(gameID, player string) bool {
	for _, e := range m.ledger[gameID] {
		if e.Player == player {
			return true
		}
	}
	return false
}

func (m *Memory) LedgerEntries(_ context.Context, gameID string) ([]LedgerEntry, error) {
	m.mu.Lock()
	out := append([]LedgerEntry{}, m.ledger[gameID]...)
	m.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Player < out[j].Player })
	return out, nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (mg memoryGame) record() (*GameRecord, error) {
	g, err := DecodeSnapshot(mg.raw)
	if err != nil {
		return nil, err
	}
	return &GameRecord{Game: g, CreatedAt: mg.createdAt, UpdatedAt: mg.updatedAt}, nil
}
