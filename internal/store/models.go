package store

import (
	"time"

	"chatpoker/internal/game"
)

// GameRecord is a stored snapshot with its bookkeeping timestamps.
type GameRecord struct {
	Game      *game.Game
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Change describes the event that produced a snapshot; it is appended to the
// game's event log in the same write.
type Change struct {
	Event  string
	Player string
}

type EventRecord struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	Seq       uint64    `json:"seq"`
	Event     string    `json:"event"`
	Player    string    `json:"player"`
	CreatedAt time.Time `json:"created_at"`
}

type ListFilter struct {
	Status string
	// UpdatedBefore selects games idle since the given time.
	UpdatedBefore *time.Time
	Limit         int
	Offset        int
}

type LedgerEntry struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	Player    string    `json:"player"`
	League    string    `json:"league"`
	Units     string    `json:"units"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (f ListFilter) Normalized() ListFilter {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Limit > 500 {
		f.Limit = 500
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
