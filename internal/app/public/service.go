package public

import (
	"context"
	"errors"

	"chatpoker/internal/game"
	"chatpoker/internal/league"
	"chatpoker/internal/store"
)

// GameReader is the read side of the game store.
type GameReader interface {
	List(ctx context.Context, f store.ListFilter) ([]store.GameRecord, error)
	LoadRecord(ctx context.Context, id string) (*store.GameRecord, error)
	Events(ctx context.Context, gameID string) ([]store.EventRecord, error)
	LedgerEntries(ctx context.Context, gameID string) ([]store.LedgerEntry, error)
}

type LeagueLister interface {
	All() []league.League
}

type Service struct {
	games   GameReader
	leagues LeagueLister
}

func NewService(games GameReader, leagues LeagueLister) *Service {
	return &Service{games: games, leagues: leagues}
}

func (s *Service) Leagues() *LeaguesResponse {
	all := s.leagues.All()
	out := make([]LeagueItem, 0, len(all))
	for _, l := range all {
		synonyms := l.Synonyms
		if synonyms == nil {
			synonyms = []string{}
		}
		out = append(out, LeagueItem{Name: l.Name, BuyIn: l.BuyIn, Units: l.Units, Synonyms: synonyms})
	}
	return &LeaguesResponse{Items: out}
}

func (s *Service) Games(ctx context.Context, status string, limit, offset int) (*GamesResponse, error) {
	switch game.Status(status) {
	case "", game.StatusPending, game.StatusActive, game.StatusComplete:
	default:
		return nil, ErrInvalidRequest
	}
	f := store.ListFilter{Status: status, Limit: limit, Offset: offset}.Normalized()
	items, err := s.games.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]GameItem, 0, len(items))
	for _, rec := range items {
		out = append(out, gameItem(rec))
	}
	return &GamesResponse{Items: out, Limit: f.Limit, Offset: f.Offset}, nil
}

func (s *Service) Game(ctx context.Context, gameID string) (*GameDetailResponse, error) {
	if _, _, ok := game.SplitID(gameID); !ok {
		return nil, ErrInvalidRequest
	}
	rec, err := s.games.LoadRecord(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	events, err := s.games.Events(ctx, gameID)
	if err != nil {
		return nil, err
	}
	entries, err := s.games.LedgerEntries(ctx, gameID)
	if err != nil {
		return nil, err
	}

	resp := &GameDetailResponse{
		Game:    gameItem(*rec),
		State:   gameState(rec.Game),
		Events:  make([]EventItem, 0, len(events)),
		Results: make([]ResultEntry, 0, len(entries)),
	}
	for _, ev := range events {
		resp.Events = append(resp.Events, EventItem{Seq: ev.Seq, Event: ev.Event, Player: ev.Player, CreatedAt: ev.CreatedAt})
	}
	for _, e := range entries {
		resp.Results = append(resp.Results, ResultEntry{Player: e.Player, Amount: e.Amount, Units: e.Units})
	}
	return resp, nil
}

func gameItem(rec store.GameRecord) GameItem {
	g := rec.Game
	_, ts, _ := game.SplitID(g.ID)
	return GameItem{
		GameID:     g.ID,
		Channel:    g.Channel,
		League:     g.League,
		Units:      g.Units,
		Status:     string(g.Status),
		Host:       g.Host,
		Players:    len(g.Players),
		Pot:        g.Pot,
		Round:      g.Round,
		Seq:        g.Seq,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
		MessageRef: ts,
	}
}

func gameState(g *game.Game) GameState {
	players := make([]PlayerState, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, PlayerState{
			Player:      p,
			Contributed: g.Contributions[p],
			Folded:      g.Folded[p],
			Host:        p == g.Host,
			Payout:      g.Payouts[p],
		})
	}
	return GameState{
		Players:    players,
		CurrentBet: g.CurrentBet,
		Actor:      g.Actor(),
		Winners:    append([]string(nil), g.Winners...),
		Round:      g.Round,
	}
}
