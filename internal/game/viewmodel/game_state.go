package viewmodel

import "chatpoker/internal/game"

type SeatView struct {
	Seat         int    `json:"seat"`
	Player       string `json:"player"`
	Contribution int64  `json:"contribution"`
	ToCall       int64  `json:"to_call"`
	Payout       *int64 `json:"payout,omitempty"`
	IsHost       bool   `json:"is_host"`
	IsActive     bool   `json:"is_active"`
	IsActor      bool   `json:"is_actor"`
}

type GameStateView struct {
	GameID     string     `json:"game_id"`
	Channel    string     `json:"channel"`
	League     string     `json:"league"`
	Units      string     `json:"units"`
	BuyIn      int64      `json:"buy_in"`
	Status     string     `json:"status"`
	Round      int        `json:"round"`
	Pot        int64      `json:"pot"`
	CurrentBet int64      `json:"current_bet"`
	Actor      string     `json:"actor,omitempty"`
	Winners    []string   `json:"winners,omitempty"`
	Seats      []SeatView `json:"seats"`
}

func BuildGameState(g *game.Game) GameStateView {
	actor := g.Actor()
	seats := make([]SeatView, 0, len(g.Players))
	for i, p := range g.Players {
		var payout *int64
		if g.Status == game.StatusComplete {
			v := g.Payouts[p]
			payout = &v
		}
		seats = append(seats, SeatView{
			Seat:         i,
			Player:       p,
			Contribution: g.Contributions[p],
			ToCall:       g.Owed(p),
			Payout:       payout,
			IsHost:       p == g.Host,
			IsActive:     !g.Folded[p],
			IsActor:      p == actor,
		})
	}
	return GameStateView{
		GameID:     g.ID,
		Channel:    g.Channel,
		League:     g.League,
		Units:      g.Units,
		BuyIn:      g.BuyIn,
		Status:     string(g.Status),
		Round:      g.Round,
		Pot:        g.Pot,
		CurrentBet: g.CurrentBet,
		Actor:      actor,
		Winners:    append([]string(nil), g.Winners...),
		Seats:      seats,
	}
}
