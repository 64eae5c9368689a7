package game

import (
	"sort"
	"strings"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusComplete Status = "complete"
)

// IDDelimiter joins the channel id and message timestamp of the announcement.
const IDDelimiter = "-"

// Game is the snapshot of one poker session. It is treated as a value: the
// engine never mutates a snapshot it was handed.
type Game struct {
	ID            string           `json:"id"`
	Channel       string           `json:"channel"`
	Host          string           `json:"host"`
	League        string           `json:"league"`
	Units         string           `json:"units"`
	BuyIn         int64            `json:"buy_in"`
	Status        Status           `json:"status"`
	Players       []string         `json:"players"`
	Pot           int64            `json:"pot"`
	CurrentBet    int64            `json:"current_bet"`
	Contributions map[string]int64 `json:"contributions"`
	TurnIndex     int              `json:"turn_index"`
	Folded        map[string]bool  `json:"folded"`
	Acted         map[string]bool  `json:"acted"`
	LastRaiser    string           `json:"last_raiser,omitempty"`
	Round         int              `json:"round"`
	Seq           uint64           `json:"seq"`
	Winners       []string         `json:"winners,omitempty"`
	Payouts       map[string]int64 `json:"payouts,omitempty"`
}

func ID(channel, ts string) string {
	return channel + IDDelimiter + ts
}

// SplitID reverses ID. Slack channel ids never contain the delimiter, so the
// first occurrence separates the two parts.
func SplitID(id string) (channel, ts string, ok bool) {
	channel, ts, ok = strings.Cut(id, IDDelimiter)
	if !ok || channel == "" || ts == "" {
		return "", "", false
	}
	return channel, ts, true
}

func (g *Game) Clone() *Game {
	if g == nil {
		return nil
	}
	out := *g
	out.Players = append([]string(nil), g.Players...)
	out.Winners = append([]string(nil), g.Winners...)
	out.Contributions = cloneInts(g.Contributions)
	out.Payouts = cloneInts(g.Payouts)
	out.Folded = cloneSet(g.Folded)
	out.Acted = cloneSet(g.Acted)
	return &out
}

func (g *Game) HasPlayer(player string) bool {
	return g.seatOf(player) >= 0
}

func (g *Game) seatOf(player string) int {
	for i, p := range g.Players {
		if p == player {
			return i
		}
	}
	return -1
}

// Actor is the player whose action is awaited, or "" outside of betting.
func (g *Game) Actor() string {
	if g.Status != StatusActive || g.TurnIndex < 0 || g.TurnIndex >= len(g.Players) {
		return ""
	}
	return g.Players[g.TurnIndex]
}

func (g *Game) Owed(player string) int64 {
	owed := g.CurrentBet - g.Contributions[player]
	if owed < 0 {
		return 0
	}
	return owed
}

// ActivePlayers returns the non-folded players in seat order.
func (g *Game) ActivePlayers() []string {
	out := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		if !g.Folded[p] {
			out = append(out, p)
		}
	}
	return out
}

// FoldedPlayers returns the folded set sorted, for display.
func (g *Game) FoldedPlayers() []string {
	out := make([]string, 0, len(g.Folded))
	for p, folded := range g.Folded {
		if folded {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// nextActive scans cyclically from from+1 and gives up after len(players)
// steps.
func (g *Game) nextActive(from int) int {
	n := len(g.Players)
	for step := 1; step <= n; step++ {
		i := ((from+step)%n + n) % n
		if !g.Folded[g.Players[i]] {
			return i
		}
	}
	return -1
}

func cloneInts(m map[string]int64) map[string]int64 {
	if m == nil {
		return nil
	}
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSet(m map[string]bool) map[string]bool {
	if m == nil {
		return nil
	}
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
