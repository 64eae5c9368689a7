package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"chatpoker/internal/game"
	"chatpoker/internal/store"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"
)

// Coordinator serializes events per game id. Events for one id are applied
// in submission order; different ids proceed in parallel.
type Coordinator struct {
	store    Store
	engine   *game.Engine
	notifier Notifier
	settler  Settler
	opts     Options

	mu     sync.Mutex
	queues map[string]*queue
	closed bool
	wg     sync.WaitGroup
}

func New(st Store, engine *game.Engine, notifier Notifier, settler Settler, opts Options) *Coordinator {
	return &Coordinator{
		store:    st,
		engine:   engine,
		notifier: notifier,
		settler:  settler,
		opts:     opts.normalized(),
		queues:   map[string]*queue{},
	}
}

// Submit fixes the event's position in the id's queue before returning and
// applies it asynchronously. The channel receives exactly one Result.
// Cancelling ctx after Submit does not withdraw the event.
func (c *Coordinator) Submit(ctx context.Context, id string, ev game.Event) <-chan Result {
	return c.submit(ctx, id, ev, originPlayer)
}

// Apply is the blocking form of Submit. It returns early with ctx's error if
// ctx ends first; the event is still applied.
func (c *Coordinator) Apply(ctx context.Context, id string, ev game.Event) Result {
	done := c.Submit(ctx, id, ev)
	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return Result{Err: ctx.Err()}
	}
}

// Wait blocks until every submitted event has been applied. Nothing may be
// submitted while Wait runs; use Close when producers may still be active.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Close stops accepting events and waits for the queued ones to be applied.
// Later submissions fail with ErrClosed.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Coordinator) submit(ctx context.Context, id string, ev game.Event, from origin) <-chan Result {
	j := &job{
		ctx:    context.WithoutCancel(ctx),
		id:     id,
		ev:     ev,
		origin: from,
		done:   make(chan Result, 1),
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		j.done <- Result{Err: ErrClosed}
		return j.done
	}
	c.wg.Add(1)
	q := c.queues[id]
	if q == nil {
		q = &queue{}
		c.queues[id] = q
	}
	q.jobs = append(q.jobs, j)
	start := !q.running
	q.running = true
	c.mu.Unlock()
	if start {
		go c.drain(id, q)
	}
	return j.done
}

func (c *Coordinator) drain(id string, q *queue) {
	for {
		c.mu.Lock()
		if len(q.jobs) == 0 {
			q.running = false
			delete(c.queues, id)
			c.mu.Unlock()
			return
		}
		j := q.jobs[0]
		q.jobs[0] = nil
		q.jobs = q.jobs[1:]
		c.mu.Unlock()

		j.done <- c.apply(j)
		c.wg.Done()
	}
}

func (c *Coordinator) apply(j *job) Result {
	metricEventsTotal.Add(1)
	ctx := j.ctx
	player := game.PlayerOf(j.ev)
	logger := log.With().Str("game_id", j.id).Str("event", game.Name(j.ev)).Str("player", player).Logger()

	var snapshot *game.Game
	err := c.retry(ctx, func() error {
		g, err := c.store.Load(ctx, j.id)
		if errors.Is(err, store.ErrNotFound) {
			snapshot = nil
			return nil
		}
		snapshot = g
		return err
	})
	if err != nil {
		metricStoreFailures.Add(1)
		logger.Error().Err(err).Msg("session_load_failed")
		err = storeFailure(err)
		c.notify(ctx, j, nil, err)
		return Result{Err: err}
	}

	next, prompts, err := c.engine.Transition(snapshot, j.ev)
	if err != nil {
		metricEventsRejected.Add(1)
		if errors.Is(err, game.ErrGameNotFound) {
			// Reactions land on every message in the channel; only games care.
			if _, join := j.ev.(game.JoinRequest); join {
				return Result{Err: err}
			}
		}
		logger.Info().Str("reason", err.Error()).Msg("session_event_rejected")
		c.notify(ctx, j, snapshot, err)
		return Result{Game: snapshot, Err: err}
	}

	change := store.Change{Event: game.Name(j.ev), Player: player}
	err = c.retry(ctx, func() error {
		if snapshot == nil {
			return c.store.Create(ctx, next, change)
		}
		return c.store.Save(ctx, next, snapshot.Seq, change)
	})
	if err != nil {
		if snapshot == nil && errors.Is(err, store.ErrConflict) {
			metricEventsRejected.Add(1)
			c.notify(ctx, j, snapshot, game.ErrGameExists)
			return Result{Err: game.ErrGameExists}
		}
		metricStoreFailures.Add(1)
		logger.Error().Err(err).Msg("session_persist_failed")
		if errors.Is(err, store.ErrConflict) {
			c.notify(ctx, j, snapshot, ErrStoreUnavailable)
			return Result{Game: snapshot, Err: err}
		}
		err = storeFailure(err)
		c.notify(ctx, j, snapshot, err)
		return Result{Game: snapshot, Err: err}
	}
	logger.Info().Uint64("seq", next.Seq).Str("status", string(next.Status)).Msg("session_event_applied")

	if next.Status == game.StatusComplete {
		metricGamesCompleted.Add(1)
		if c.settler != nil {
			if err := c.retry(ctx, func() error { return c.settler.Settle(ctx, next) }); err != nil {
				logger.Error().Err(err).Msg("session_settlement_failed")
			}
		}
	}
	if c.notifier != nil {
		for _, p := range prompts {
			if err := c.notifier.Broadcast(ctx, p); err != nil {
				logger.Warn().Err(err).Str("prompt", string(p.Kind)).Msg("session_broadcast_failed")
			}
		}
	}
	return Result{Game: next, Prompts: prompts}
}

// storeFailure marks errors that survived retries as ErrStoreUnavailable.
// Anything else, such as an undecodable snapshot, is returned as is.
func storeFailure(err error) error {
	if errors.Is(err, store.ErrUnavailable) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

// retry repeats op while it fails with store.ErrUnavailable, up to RetryMax
// attempts with exponential delay.
func (c *Coordinator) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.RetryBase
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if attempt > 1 {
			metricStoreRetries.Add(1)
		}
		err := op()
		if err != nil && !errors.Is(err, store.ErrUnavailable) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(c.opts.RetryMax)))
	return err
}

func (c *Coordinator) notify(ctx context.Context, j *job, snapshot *game.Game, err error) {
	if c.notifier == nil || j.origin == originJanitor {
		return
	}
	user := game.PlayerOf(j.ev)
	if user == "" {
		return
	}
	channel := ""
	if snapshot != nil {
		channel = snapshot.Channel
	} else if open, ok := j.ev.(game.OpenGame); ok {
		channel = open.Channel
	} else if ch, _, ok := game.SplitID(j.id); ok {
		channel = ch
	}
	n := NoticeFor(err)
	n.GameID = j.id
	n.Channel = channel
	n.User = user
	if err := c.notifier.Notify(ctx, n); err != nil {
		log.Warn().Err(err).Str("game_id", j.id).Str("player", user).Msg("session_notice_failed")
	}
}
