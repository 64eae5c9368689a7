package chatpush

import (
	"context"
	"errors"
	"time"

	"chatpoker/internal/chatpush/platforms"

	"github.com/rs/zerolog/log"
)

var errCircuitOpen = errors.New("circuit_open")

func (m *Manager) worker(ctx context.Context, lane <-chan pushJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case job := <-lane:
			metricPushQueueLen.Set(int64(m.queueLen()))
			m.processJob(ctx, job)
		}
	}
}

func (m *Manager) processJob(ctx context.Context, job pushJob) {
	adapter := m.adapters[job.Target.Platform]
	if adapter == nil {
		metricPushDroppedTotal.Add(1)
		m.markPanelDeliveryDropped(job)
		return
	}

	if err := m.beforeSend(job.key(), m.now()); err != nil {
		metricPushCircuitOpenTotal.Add(1)
		if willRetry := m.retryOrDrop(job, err); !willRetry {
			m.markPanelDeliveryDropped(job)
		}
		return
	}

	if err := m.send(ctx, adapter, job); err != nil {
		metricPushFailedTotal.Add(1)
		m.afterFailure(job.key(), m.now())
		if willRetry := m.retryOrDrop(job, err); !willRetry {
			m.markPanelDeliveryDropped(job)
			log.Warn().
				Err(err).
				Str("platform", job.Target.Platform).
				Int("attempt", job.Attempt).
				Msg("chat_push_dropped")
		}
		return
	}

	metricPushSentTotal.Add(1)
	m.afterSuccess(job.key())
	m.markPanelDeliverySuccess(job)
	if job.PanelTerminal {
		if cleaner, ok := adapter.(platforms.PanelForgetter); ok {
			cleaner.ForgetPanel(job.Target.Endpoint, job.Formatted.PanelKey)
		}
	}
}

func (m *Manager) send(ctx context.Context, adapter platforms.Adapter, job pushJob) error {
	switch job.Kind {
	case jobEphemeral:
		return m.slack.PostEphemeral(ctx, job.Target.Endpoint, job.User, job.Formatted.Content)
	case jobDelete:
		return m.slack.DeleteOriginal(ctx, job.Target.Endpoint)
	default:
		return adapter.Send(ctx, job.Target.Endpoint, job.Target.Secret, toPlatformMessage(job.Formatted))
	}
}

func (m *Manager) retryOrDrop(job pushJob, err error) bool {
	if !retryable(err) || job.Attempt >= m.cfg.RetryMax {
		metricPushRetryDroppedTotal.Add(1)
		return false
	}
	job.Attempt++
	metricPushRetryTotal.Add(1)
	delay := m.cfg.RetryBase * time.Duration(1<<(job.Attempt-1))
	m.retryQ.Enqueue(job, delay)
	return true
}

// retryable reports whether another attempt could change the outcome. Slack
// API errors are final except for rate limiting.
func retryable(err error) bool {
	if errors.Is(err, platforms.ErrSlackNotConfigured) {
		return false
	}
	var slackErr *platforms.SlackError
	if errors.As(err, &slackErr) {
		return slackErr.Code == "ratelimited"
	}
	return true
}

func (m *Manager) beforeSend(key string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.breakerByKey[key]
	if !state.openUntil.IsZero() && now.Before(state.openUntil) {
		return errCircuitOpen
	}
	return nil
}

func (m *Manager) afterFailure(key string, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.breakerByKey[key]
	state.consecutiveFailures++
	if state.consecutiveFailures >= m.cfg.FailureThreshold {
		state.openUntil = now.Add(m.cfg.CircuitOpenDuration)
		state.consecutiveFailures = 0
	}
	m.breakerByKey[key] = state
}

func (m *Manager) afterSuccess(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.breakerByKey, key)
}
