package chatpush

import (
	"context"
	"errors"
	"hash/fnv"
	"os"
	"strings"
	"sync"
	"time"

	"chatpoker/internal/chatpush/platforms"
	"chatpoker/internal/game"
	"chatpoker/internal/session"

	"github.com/rs/zerolog/log"
)

// ErrQueueFull is returned when a prompt could not be queued for delivery.
var ErrQueueFull = errors.New("push_queue_full")

// slackClient is the part of *platforms.SlackAdapter the manager drives.
type slackClient interface {
	platforms.Adapter
	Post(ctx context.Context, channel string, msg platforms.Message) (platforms.Posted, error)
	PostEphemeral(ctx context.Context, channel, user, text string) error
	DeleteOriginal(ctx context.Context, responseURL string) error
}

type breakerState struct {
	consecutiveFailures int
	openUntil           time.Time
}

// Manager delivers prompts to Slack and mirrors them to read-only panels.
// Jobs for one destination always land on the same lane, so a channel sees
// its prompts in the order they were broadcast.
type Manager struct {
	cfg      Config
	router   Router
	slack    slackClient
	adapters map[string]platforms.Adapter

	lanes  []chan pushJob
	retryQ *retryQueue
	done   chan struct{}

	flushMu      sync.Mutex
	mu           sync.Mutex
	started      bool
	panelByKey   map[string]*mirrorPanel
	breakerByKey map[string]breakerState
	now          func() time.Time
}

func NewManager(cfg Config) *Manager {
	client := platforms.NewHTTPClient(cfg.RequestTimeout)
	if cfg.DispatchBuffer <= 0 {
		cfg.DispatchBuffer = 2048
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.PanelUpdateInterval <= 0 {
		cfg.PanelUpdateInterval = time.Second
	}
	if cfg.PanelRecentLines <= 0 {
		cfg.PanelRecentLines = 5
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.CircuitOpenDuration <= 0 {
		cfg.CircuitOpenDuration = 30 * time.Second
	}

	slack := platforms.NewSlackAdapter(client, cfg.SlackToken, cfg.SlackAPIURL)
	m := &Manager{
		cfg:    cfg,
		router: Router{},
		slack:  slack,
		adapters: map[string]platforms.Adapter{
			platformSlack: slack,
			"discord":     platforms.NewDiscordAdapter(client),
			"feishu":      platforms.NewFeishuAdapter(client),
		},
		lanes:        make([]chan pushJob, cfg.Workers),
		done:         make(chan struct{}),
		panelByKey:   map[string]*mirrorPanel{},
		breakerByKey: map[string]breakerState{},
		now:          time.Now,
	}
	perLane := cfg.DispatchBuffer / cfg.Workers
	if perLane < 1 {
		perLane = 1
	}
	for i := range m.lanes {
		m.lanes[i] = make(chan pushJob, perLane)
	}
	m.retryQ = newRetryQueue(m.dispatch, m.done)
	return m
}

func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	m.mu.Unlock()

	for _, lane := range m.lanes {
		go m.worker(ctx, lane)
	}
	if m.cfg.ConfigPath != "" {
		go m.watchConfigLoop(ctx)
	}
	go m.flushPanelsLoop(ctx)
	go func() {
		<-ctx.Done()
		close(m.done)
	}()
	log.Info().
		Int("workers", len(m.lanes)).
		Int("mirrors", len(m.currentTargets())).
		Msg("chat_push_started")
	return nil
}

// Broadcast queues p for the game's channel and updates every matching
// mirror panel. A final prompt flushes panels right away.
func (m *Manager) Broadcast(_ context.Context, p game.Prompt) error {
	if p.Channel != "" {
		job := pushJob{
			Kind:      jobPost,
			Target:    MirrorTarget{Platform: platformSlack, Endpoint: p.Channel},
			Formatted: FormatPrompt(p),
		}
		if !m.dispatch(job) {
			metricPushDroppedTotal.Add(1)
			return ErrQueueFull
		}
	}

	targets := m.router.MatchTargets(m.currentTargets(), p)
	for _, target := range targets {
		m.accumulatePanel(target, p)
	}
	if p.Final && len(targets) > 0 {
		m.flushDirtyPanels()
	}
	return nil
}

// Notify queues a private notice for one user.
func (m *Manager) Notify(_ context.Context, n session.Notice) error {
	if n.Channel == "" || n.User == "" {
		return nil
	}
	job := pushJob{
		Kind:      jobEphemeral,
		Target:    MirrorTarget{Platform: platformSlack, Endpoint: n.Channel},
		Formatted: FormatNotice(n),
		User:      n.User,
	}
	if !m.dispatch(job) {
		metricPushDroppedTotal.Add(1)
		return ErrQueueFull
	}
	return nil
}

// Announce posts text synchronously. The returned timestamp names the game,
// so the call cannot go through the queue.
func (m *Manager) Announce(ctx context.Context, channel, text string) (platforms.Posted, error) {
	posted, err := m.slack.Post(ctx, channel, platforms.Message{Content: text, Description: text})
	if err != nil {
		metricPushFailedTotal.Add(1)
		return platforms.Posted{}, err
	}
	metricPushSentTotal.Add(1)
	if posted.Channel == "" {
		posted.Channel = channel
	}
	return posted, nil
}

// DeleteOriginal queues removal of the message an interaction came from.
func (m *Manager) DeleteOriginal(responseURL string) {
	if strings.TrimSpace(responseURL) == "" {
		return
	}
	job := pushJob{
		Kind:   jobDelete,
		Target: MirrorTarget{Platform: platformSlack, Endpoint: responseURL},
	}
	if !m.dispatch(job) {
		metricPushDroppedTotal.Add(1)
	}
}

func (m *Manager) dispatch(job pushJob) bool {
	select {
	case <-m.done:
		return false
	default:
	}
	lane := m.lanes[laneIndex(job.key(), len(m.lanes))]
	select {
	case lane <- job:
		metricPushQueuedTotal.Add(1)
		metricPushQueueLen.Set(int64(m.queueLen()))
		return true
	default:
		return false
	}
}

func laneIndex(key string, n int) int {
	if n <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}

func (m *Manager) queueLen() int {
	total := 0
	for _, lane := range m.lanes {
		total += len(lane)
	}
	return total
}

func (m *Manager) currentTargets() []MirrorTarget {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MirrorTarget, len(m.cfg.Targets))
	copy(out, m.cfg.Targets)
	return out
}

func (m *Manager) watchConfigLoop(ctx context.Context) {
	interval := m.cfg.ConfigReload
	if interval <= 0 {
		interval = time.Second
	}
	lastRaw := ""
	if raw, err := os.ReadFile(m.cfg.ConfigPath); err == nil {
		lastRaw = strings.TrimSpace(string(raw))
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case <-ticker.C:
			raw, err := os.ReadFile(m.cfg.ConfigPath)
			if err != nil {
				metricPushConfigReloadError.Add(1)
				continue
			}
			nextRaw := strings.TrimSpace(string(raw))
			if nextRaw == lastRaw {
				continue
			}
			targets, err := parseMirrorsJSON(nextRaw)
			if err != nil {
				metricPushConfigReloadError.Add(1)
				log.Warn().Err(err).Str("path", m.cfg.ConfigPath).Msg("chat_push_mirrors_reload_failed")
				continue
			}
			m.mu.Lock()
			m.cfg.Targets = targets
			m.mu.Unlock()
			lastRaw = nextRaw
			metricPushConfigReloadTotal.Add(1)
			log.Info().Int("mirrors", len(targets)).Msg("chat_push_mirrors_reloaded")
		}
	}
}
