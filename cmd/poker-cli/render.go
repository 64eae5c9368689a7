package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"chatpoker/internal/game"
	"chatpoker/internal/game/viewmodel"
	"chatpoker/internal/league"
	"chatpoker/internal/session"

	"github.com/pterm/pterm"
)

// terminalNotifier prints channel prompts and private notices to the
// terminal in place of Slack.
type terminalNotifier struct{}

func (terminalNotifier) Broadcast(_ context.Context, p game.Prompt) error {
	box := pterm.DefaultBox.WithHorizontalPadding(2).WithTitleTopCenter()
	switch p.Kind {
	case game.PromptSettlement:
		box = box.WithTitle(pterm.LightGreen("|SETTLED|"))
	case game.PromptTurn:
		box = box.WithTitle(pterm.LightYellow("|TURN|"))
	default:
		box = box.WithTitle(pterm.LightCyan("|LOBBY|"))
	}
	text := p.Text
	if len(p.Buttons) > 0 {
		labels := make([]string, 0, len(p.Buttons))
		for _, b := range p.Buttons {
			labels = append(labels, fmt.Sprintf("[%s] %s", b.Action, b.Label))
		}
		text += "\n\n" + strings.Join(labels, "  ")
	}
	box.Println(text)
	return nil
}

func (terminalNotifier) Notify(_ context.Context, n session.Notice) error {
	pterm.Warning.Printfln("%s: %s", n.User, n.Text)
	return nil
}

func renderGame(g *game.Game) {
	view := viewmodel.BuildGameState(g)
	pterm.DefaultSection.Printfln("%s  %s  round %d  pot %d %s  bet %d",
		view.GameID, view.Status, view.Round, view.Pot, view.Units, view.CurrentBet)

	data := pterm.TableData{{"Seat", "Player", "In", "To call", "State", "Payout"}}
	for _, s := range view.Seats {
		state := pterm.LightGreen("active")
		if !s.IsActive {
			state = pterm.LightRed("folded")
		}
		if s.IsActor {
			state = pterm.LightYellow("to act")
		}
		player := s.Player
		if s.IsHost {
			player += " (host)"
		}
		payout := ""
		if s.Payout != nil {
			payout = strconv.FormatInt(*s.Payout, 10)
		}
		data = append(data, []string{
			strconv.Itoa(s.Seat),
			player,
			strconv.FormatInt(s.Contribution, 10),
			strconv.FormatInt(s.ToCall, 10),
			state,
			payout,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}
}

func renderLeagues(leagues []league.League) {
	data := pterm.TableData{{"League", "Synonyms", "Buy-in"}}
	for _, l := range leagues {
		data = append(data, []string{
			l.Name,
			strings.Join(l.Synonyms, ", "),
			fmt.Sprintf("%d %s", l.BuyIn, l.Units),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}
}
