package chatpush

import (
	"context"
	"strconv"
	"strings"
	"time"

	"chatpoker/internal/game"
)

// mirrorPanel accumulates the latest state of one game for one mirror
// target. Flushes coalesce bursts of prompts into a single edit.
type mirrorPanel struct {
	key       string
	target    MirrorTarget
	gameID    string
	league    string
	kind      game.PromptKind
	text      string
	actor     string
	pot       int64
	bet       int64
	buttons   []MessageButton
	recent    []string
	updatedAt time.Time
	dirty     bool
	inflight  bool
}

func (m *Manager) accumulatePanel(target MirrorTarget, p game.Prompt) {
	if p.GameID == "" {
		return
	}
	panelKey := targetKey(target) + "|" + p.GameID

	m.mu.Lock()
	defer m.mu.Unlock()

	panel := m.panelByKey[panelKey]
	if panel == nil {
		panel = &mirrorPanel{
			key:    panelKey,
			target: target,
			gameID: p.GameID,
			recent: make([]string, 0, m.cfg.PanelRecentLines),
		}
		m.panelByKey[panelKey] = panel
	}
	panel.target = target
	panel.league = fallback(p.League, panel.league)
	panel.kind = p.Kind
	panel.text = p.Text
	panel.actor = p.Actor
	panel.pot = p.Pot
	panel.bet = p.CurrentBet
	panel.buttons = FormatPrompt(p).Buttons
	panel.updatedAt = m.now()
	panel.recent = append(panel.recent, trimText(p.Text, recentLineLimit))
	if limit := m.cfg.PanelRecentLines; len(panel.recent) > limit {
		panel.recent = panel.recent[len(panel.recent)-limit:]
	}
	if p.Final {
		panel.kind = game.PromptSettlement
	}
	panel.dirty = true
}

func (m *Manager) flushPanelsLoop(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.PanelUpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case <-ticker.C:
			m.flushDirtyPanels()
		}
	}
}

func (m *Manager) flushDirtyPanels() {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()

	type flushItem struct {
		key       string
		target    MirrorTarget
		formatted FormattedMessage
		terminal  bool
		stateAt   time.Time
	}
	var items []flushItem

	m.mu.Lock()
	for key, panel := range m.panelByKey {
		if panel == nil || !panel.dirty || panel.inflight {
			continue
		}
		panel.inflight = true
		items = append(items, flushItem{
			key:       key,
			target:    panel.target,
			formatted: formatPanelMessage(panel),
			terminal:  panel.kind == game.PromptSettlement,
			stateAt:   panel.updatedAt,
		})
	}
	m.mu.Unlock()

	for _, it := range items {
		job := pushJob{
			Kind:          jobPost,
			Target:        it.target,
			Formatted:     it.formatted,
			PanelStateKey: it.key,
			PanelTerminal: it.terminal,
			PanelStateAt:  it.stateAt,
		}
		if !m.dispatch(job) {
			metricPushDroppedTotal.Add(1)
			m.mu.Lock()
			if panel := m.panelByKey[it.key]; panel != nil {
				panel.inflight = false
			}
			m.mu.Unlock()
		}
	}
}

func (m *Manager) markPanelDeliverySuccess(job pushJob) {
	if job.PanelStateKey == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	panel := m.panelByKey[job.PanelStateKey]
	if panel == nil {
		return
	}
	panel.inflight = false
	// A prompt that arrived during the send leaves the panel dirty again.
	if panel.updatedAt.After(job.PanelStateAt) {
		return
	}
	panel.dirty = false
	if job.PanelTerminal {
		delete(m.panelByKey, job.PanelStateKey)
	}
}

func (m *Manager) markPanelDeliveryDropped(job pushJob) {
	if job.PanelStateKey == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if panel := m.panelByKey[job.PanelStateKey]; panel != nil {
		panel.inflight = false
		panel.dirty = true
	}
}

func formatPanelMessage(panel *mirrorPanel) FormattedMessage {
	fields := []MessageField{
		{Name: "💰 Pot", Value: strconv.FormatInt(panel.pot, 10), Inline: true},
		{Name: "📈 Bet", Value: strconv.FormatInt(panel.bet, 10), Inline: true},
		{Name: "🎯 Turn", Value: turnLabel(panel), Inline: true},
	}
	history := "No actions yet"
	if len(panel.recent) > 0 {
		history = strings.Join(panel.recent, "\n")
	}
	fields = append(fields, MessageField{Name: "📜 Recent", Value: history})
	return FormattedMessage{
		PanelKey:    panel.gameID,
		Title:       fallback(panel.league, "poker") + " poker | " + statusBadge(panel.kind),
		Description: panel.text,
		Color:       promptColor(panel.kind),
		Timestamp:   eventTimestamp(panel.updatedAt),
		Footer:      gameFooter(panel.gameID),
		Fields:      fields,
		Buttons:     panel.buttons,
	}
}

func turnLabel(panel *mirrorPanel) string {
	if panel.kind != game.PromptTurn || panel.actor == "" {
		return "-"
	}
	return panel.actor
}
