package session

import (
	"context"
	"errors"
	"time"

	"chatpoker/internal/game"
	"chatpoker/internal/store"
)

// ErrStoreUnavailable is returned once store retries are exhausted. The event
// was not committed.
var ErrStoreUnavailable = errors.New("store_unavailable")

// ErrClosed is returned for events submitted after Close.
var ErrClosed = errors.New("coordinator_closed")

// Store is the persistence the coordinator needs; *store.Store, *store.Memory
// and *sqlite.Store satisfy it.
type Store interface {
	Load(ctx context.Context, id string) (*game.Game, error)
	Create(ctx context.Context, g *game.Game, ch store.Change) error
	Save(ctx context.Context, g *game.Game, prevSeq uint64, ch store.Change) error
	List(ctx context.Context, f store.ListFilter) ([]store.GameRecord, error)
}

// Notifier delivers outbound traffic. Broadcast goes to the game's channel,
// Notify to a single user.
type Notifier interface {
	Broadcast(ctx context.Context, p game.Prompt) error
	Notify(ctx context.Context, n Notice) error
}

// Settler records the net result of a completed game.
type Settler interface {
	Settle(ctx context.Context, g *game.Game) error
}

// Notice is a private message to one player.
type Notice struct {
	GameID  string `json:"game_id"`
	Channel string `json:"channel"`
	User    string `json:"user"`
	Reason  string `json:"reason"`
	Text    string `json:"text"`
}

type Options struct {
	// RetryMax bounds attempts per store operation, including the first.
	RetryMax  int
	RetryBase time.Duration
	// TurnTimeout is how long the janitor lets an actor idle before folding
	// them. Zero disables the janitor sweep.
	TurnTimeout time.Duration
	Now         func() time.Time
}

func (o Options) normalized() Options {
	if o.RetryMax <= 0 {
		o.RetryMax = 3
	}
	if o.RetryBase <= 0 {
		o.RetryBase = 50 * time.Millisecond
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Result is the outcome of one event. Game is the committed snapshot on
// success, otherwise the snapshot the event was evaluated against (nil when
// the game does not exist).
type Result struct {
	Game    *game.Game
	Prompts []game.Prompt
	Err     error
}

type origin int

const (
	originPlayer origin = iota
	originJanitor
)

type job struct {
	ctx    context.Context
	id     string
	ev     game.Event
	origin origin
	done   chan Result
}

// queue holds the events waiting for one game id. A single goroutine drains
// it while running is set.
type queue struct {
	jobs    []*job
	running bool
}
