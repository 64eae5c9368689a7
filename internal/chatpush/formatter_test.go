package chatpush

import (
	"strings"
	"testing"
	"time"

	"chatpoker/internal/chatpush/platforms"
	"chatpoker/internal/game"
	"chatpoker/internal/session"
)

func TestFormatPromptCarriesButtons(t *testing.T) {
	p := game.Prompt{
		GameID: "C1-1.1",
		Kind:   game.PromptLobby,
		Text:   "<@U2> joined nlhe poker.",
		Buttons: []game.Button{
			{Action: game.ActionStart, Label: "Deal", Value: `{"game_id":"C1-1.1","seq":2}`, Style: "primary"},
		},
	}
	msg := FormatPrompt(p)
	if msg.Content != p.Text || msg.Color != platforms.ColorLobby {
		t.Fatalf("unexpected message: %#v", msg)
	}
	if len(msg.Buttons) != 1 {
		t.Fatalf("expected one button, got %d", len(msg.Buttons))
	}
	b := msg.Buttons[0]
	if b.ActionID != string(game.ActionStart) || b.Value != p.Buttons[0].Value || b.Style != "primary" {
		t.Fatalf("unexpected button: %#v", b)
	}
	if msg.PanelKey != "" {
		t.Fatal("channel prompts must not be panel messages")
	}
}

func TestFormatNoticeUsesNoticeColor(t *testing.T) {
	msg := FormatNotice(session.Notice{Text: "It's not your turn."})
	if msg.Content != "It's not your turn." || msg.Color != platforms.ColorNotice {
		t.Fatalf("unexpected notice: %#v", msg)
	}
}

func TestPromptColorByKind(t *testing.T) {
	if promptColor(game.PromptTurn) != platforms.ColorTurn {
		t.Fatal("turn color")
	}
	if promptColor(game.PromptSettlement) != platforms.ColorSettled {
		t.Fatal("settlement color")
	}
	if promptColor("") != platforms.ColorLobby {
		t.Fatal("default color")
	}
}

func TestTrimText(t *testing.T) {
	if got := trimText(strings.Repeat("a", 10), 6); got != "aaa..." {
		t.Fatalf("unexpected trim: %q", got)
	}
	if got := trimText("abc", 10); got != "abc" {
		t.Fatalf("unexpected trim: %q", got)
	}
	if got := trimText("abcdef", 2); got != "ab" {
		t.Fatalf("unexpected trim: %q", got)
	}
}

func TestFormatPanelMessageLayout(t *testing.T) {
	panel := &mirrorPanel{
		key:       "k",
		gameID:    "C1-1700000000.000100",
		league:    "nlhe",
		kind:      game.PromptTurn,
		text:      "Round 1. <@U2>, you're up.",
		actor:     "U2",
		pot:       6,
		bet:       2,
		recent:    []string{"<@U1> joined", "Round 1. <@U2>, you're up."},
		updatedAt: time.Unix(1735689600, 0),
	}
	msg := formatPanelMessage(panel)
	if msg.PanelKey != panel.gameID {
		t.Fatalf("expected panel key %s, got %s", panel.gameID, msg.PanelKey)
	}
	if !strings.Contains(msg.Title, "nlhe") || !strings.Contains(msg.Title, "In play") {
		t.Fatalf("unexpected title: %s", msg.Title)
	}
	if len(msg.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(msg.Fields))
	}
	if msg.Fields[0].Value != "6" || msg.Fields[1].Value != "2" || msg.Fields[2].Value != "U2" {
		t.Fatalf("unexpected top fields: %#v", msg.Fields[:3])
	}
	if !strings.Contains(msg.Fields[3].Value, "<@U1> joined") {
		t.Fatalf("expected recent history, got %q", msg.Fields[3].Value)
	}
	if _, err := time.Parse(time.RFC3339, msg.Timestamp); err != nil {
		t.Fatalf("invalid timestamp: %v", err)
	}
	if !strings.Contains(msg.Footer, panel.gameID) {
		t.Fatalf("expected footer to carry game id, got %q", msg.Footer)
	}

	panel.kind = game.PromptSettlement
	if got := turnLabel(panel); got != "-" {
		t.Fatalf("expected no turn after settlement, got %q", got)
	}
}

func TestAccumulatePanelKeepsRecentWindow(t *testing.T) {
	m := NewManager(Config{PanelRecentLines: 2})
	target := MirrorTarget{Platform: "discord", Endpoint: "https://x", ScopeType: "all", Enabled: true}
	for _, text := range []string{"one", "two", "three"} {
		m.accumulatePanel(target, game.Prompt{GameID: "C1-1.1", Kind: game.PromptTurn, Text: text})
	}
	m.accumulatePanel(target, game.Prompt{Kind: game.PromptTurn, Text: "no game"})

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.panelByKey) != 1 {
		t.Fatalf("expected one panel, got %d", len(m.panelByKey))
	}
	for _, panel := range m.panelByKey {
		if len(panel.recent) != 2 || panel.recent[0] != "two" || panel.recent[1] != "three" {
			t.Fatalf("unexpected recent window: %#v", panel.recent)
		}
		if !panel.dirty {
			t.Fatal("expected panel to be dirty")
		}
	}
}
