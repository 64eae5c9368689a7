package chatpush

import (
	"fmt"
	"strings"
	"time"

	"chatpoker/internal/chatpush/platforms"
	"chatpoker/internal/game"
	"chatpoker/internal/session"
)

const (
	recentLineLimit = 120
	footerPrefix    = "chatpoker"
)

// FormatPrompt renders a prompt for the game's own channel: the prompt text
// plus its buttons, nothing else.
func FormatPrompt(p game.Prompt) FormattedMessage {
	buttons := make([]MessageButton, 0, len(p.Buttons))
	for _, b := range p.Buttons {
		buttons = append(buttons, MessageButton{
			ActionID: string(b.Action),
			Label:    b.Label,
			Value:    b.Value,
			Style:    b.Style,
		})
	}
	return FormattedMessage{
		Content:     p.Text,
		Description: p.Text,
		Color:       promptColor(p.Kind),
		Buttons:     buttons,
	}
}

func FormatNotice(n session.Notice) FormattedMessage {
	return FormattedMessage{
		Content:     n.Text,
		Description: n.Text,
		Color:       platforms.ColorNotice,
	}
}

func promptColor(kind game.PromptKind) int {
	switch kind {
	case game.PromptTurn:
		return platforms.ColorTurn
	case game.PromptSettlement:
		return platforms.ColorSettled
	default:
		return platforms.ColorLobby
	}
}

func statusBadge(kind game.PromptKind) string {
	switch kind {
	case game.PromptTurn:
		return "🟢 In play"
	case game.PromptSettlement:
		return "🏁 Settled"
	default:
		return "🟣 Lobby"
	}
}

func trimText(v string, max int) string {
	if max <= 0 || len(v) <= max {
		return v
	}
	if max <= 3 {
		return v[:max]
	}
	return v[:max-3] + "..."
}

func eventTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func fallback(v, d string) string {
	if strings.TrimSpace(v) == "" {
		return d
	}
	return v
}

func gameFooter(gameID string) string {
	return fmt.Sprintf("%s · game %s", footerPrefix, gameID)
}

func toPlatformMessage(msg FormattedMessage) platforms.Message {
	fields := make([]platforms.Field, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		fields = append(fields, platforms.Field{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	buttons := make([]platforms.Button, 0, len(msg.Buttons))
	for _, b := range msg.Buttons {
		buttons = append(buttons, platforms.Button{ActionID: b.ActionID, Label: b.Label, Value: b.Value, Style: b.Style})
	}
	return platforms.Message{
		PanelKey:    msg.PanelKey,
		Title:       msg.Title,
		Content:     msg.Content,
		Description: msg.Description,
		Color:       msg.Color,
		Timestamp:   msg.Timestamp,
		Footer:      msg.Footer,
		Fields:      fields,
		Buttons:     buttons,
	}
}
