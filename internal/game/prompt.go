package game

import (
	"encoding/json"
	"strings"

	"chatpoker/internal/league"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type PromptKind string

const (
	PromptLobby      PromptKind = "lobby"
	PromptTurn       PromptKind = "turn"
	PromptSettlement PromptKind = "settlement"
)

type Button struct {
	Action ActionKind `json:"action"`
	Label  string     `json:"label"`
	Value  string     `json:"value"`
	Style  string     `json:"style,omitempty"`
}

// Prompt is an outbound message for the game's channel.
type Prompt struct {
	GameID     string     `json:"game_id"`
	Channel    string     `json:"channel"`
	League     string     `json:"league"`
	Kind       PromptKind `json:"kind"`
	Actor      string     `json:"actor,omitempty"`
	Text       string     `json:"text"`
	Pot        int64      `json:"pot"`
	CurrentBet int64      `json:"current_bet"`
	Buttons    []Button   `json:"buttons,omitempty"`
	Final      bool       `json:"final,omitempty"`
}

// Token is the correlation payload carried by every button.
type Token struct {
	GameID string `json:"game_id"`
	Seq    uint64 `json:"seq"`
}

func EncodeToken(t Token) string {
	raw, _ := json.Marshal(t)
	return string(raw)
}

func DecodeToken(v string) (Token, error) {
	var t Token
	if err := json.Unmarshal([]byte(v), &t); err != nil {
		return Token{}, ErrInvalidToken
	}
	if _, _, ok := SplitID(t.GameID); !ok || t.Seq == 0 {
		return Token{}, ErrInvalidToken
	}
	return t, nil
}

var printer = message.NewPrinter(language.English)

func Mention(player string) string {
	return "<@" + player + ">"
}

// Announcement is the text of the message whose timestamp becomes part of the
// game id.
func Announcement(host string, l league.League) string {
	return printer.Sprintf("%s wants to play %s poker 💪. The buy-in is %d %s. Who's in?",
		Mention(host), l.Name, l.BuyIn, l.Units)
}

func lobbyPrompt(g *Game, joined string, minPlayers int) Prompt {
	var b strings.Builder
	b.WriteString(printer.Sprintf("%s joined %s poker. Players (%d): %s.",
		Mention(joined), g.League, len(g.Players), mentions(g.Players)))
	p := Prompt{
		GameID:  g.ID,
		Channel: g.Channel,
		League:  g.League,
		Kind:    PromptLobby,
		Actor:   g.Host,
	}
	if len(g.Players) >= minPlayers {
		b.WriteString(printer.Sprintf(" %s can deal when ready.", Mention(g.Host)))
		p.Buttons = []Button{{Action: ActionStart, Label: "Deal", Value: g.token(), Style: "primary"}}
	} else {
		b.WriteString(printer.Sprintf(" Waiting for %d more.", minPlayers-len(g.Players)))
	}
	p.Text = b.String()
	return p
}

func turnPrompt(g *Game) Prompt {
	actor := g.Actor()
	owed := g.Owed(actor)
	text := printer.Sprintf("Round %d. %s, you're up. Pot: %d %s. Current bet: %d. You owe %d.",
		g.Round, Mention(actor), g.Pot, g.Units, g.CurrentBet, owed)
	if folded := g.FoldedPlayers(); len(folded) > 0 {
		text += " Folded: " + mentions(folded) + "."
	}
	tok := g.token()
	buttons := []Button{{Action: ActionFold, Label: "Fold", Value: tok, Style: "danger"}}
	if owed == 0 {
		buttons = append(buttons, Button{Action: ActionCheck, Label: "Check", Value: tok})
	} else {
		buttons = append(buttons, Button{Action: ActionCall, Label: printer.Sprintf("Call %d", owed), Value: tok})
	}
	buttons = append(buttons,
		Button{Action: ActionRaise, Label: "Raise +1", Value: tok, Style: "primary"},
		Button{Action: ActionDouble, Label: "Raise +2", Value: tok, Style: "primary"},
	)
	return Prompt{
		GameID:     g.ID,
		Channel:    g.Channel,
		League:     g.League,
		Kind:       PromptTurn,
		Actor:      actor,
		Text:       text,
		Pot:        g.Pot,
		CurrentBet: g.CurrentBet,
		Buttons:    buttons,
	}
}

func settlementPrompt(g *Game) Prompt {
	var text string
	if len(g.Winners) == 1 {
		text = printer.Sprintf("%s wins the pot of %d %s in %s poker.",
			Mention(g.Winners[0]), g.Pot, g.Units, g.League)
	} else {
		text = printer.Sprintf("Showdown! %s split the pot of %d %s in %s poker.",
			mentions(g.Winners), g.Pot, g.Units, g.League)
	}
	return Prompt{
		GameID:     g.ID,
		Channel:    g.Channel,
		League:     g.League,
		Kind:       PromptSettlement,
		Actor:      g.Winners[0],
		Text:       text,
		Pot:        g.Pot,
		CurrentBet: g.CurrentBet,
		Final:      true,
	}
}

func (g *Game) token() string {
	return EncodeToken(Token{GameID: g.ID, Seq: g.Seq})
}

func mentions(players []string) string {
	out := make([]string, 0, len(players))
	for _, p := range players {
		out = append(out, Mention(p))
	}
	return strings.Join(out, ", ")
}
