package session

import (
	"context"
	"time"

	"chatpoker/internal/game"
	"chatpoker/internal/store"

	"github.com/rs/zerolog/log"
)

// StartJanitor periodically folds actors who have let their turn idle past
// TurnTimeout. It does nothing when TurnTimeout is zero.
func (c *Coordinator) StartJanitor(ctx context.Context, interval time.Duration) {
	if c.opts.TurnTimeout <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = c.sweepIdleTurns(ctx)
			}
		}
	}()
}

// sweepIdleTurns submits a Fold pinned to each idle game's current seq, so a
// game that moved on since the listing rejects it as stale.
func (c *Coordinator) sweepIdleTurns(ctx context.Context) int {
	cutoff := c.opts.Now().Add(-c.opts.TurnTimeout)
	records, err := c.store.List(ctx, store.ListFilter{
		Status:        string(game.StatusActive),
		UpdatedBefore: &cutoff,
		Limit:         500,
	})
	if err != nil {
		log.Warn().Err(err).Msg("session_janitor_list_failed")
		return 0
	}
	submitted := 0
	for _, rec := range records {
		g := rec.Game
		actor := g.Actor()
		if actor == "" {
			continue
		}
		c.submit(ctx, g.ID, game.Fold{Turn: game.Turn{Player: actor, Seq: g.Seq}}, originJanitor)
		metricJanitorFolds.Add(1)
		log.Info().Str("game_id", g.ID).Str("player", actor).Msg("session_turn_timed_out")
		submitted++
	}
	return submitted
}
