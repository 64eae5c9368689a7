package game

import (
	"errors"

	"chatpoker/internal/league"
)

// Resolver is satisfied by *league.Catalog.
type Resolver interface {
	Resolve(token string) (league.League, error)
}

// Engine holds no per-game state; Transition is safe for concurrent use.
type Engine struct {
	leagues Resolver
	rules   Rules
}

func NewEngine(leagues Resolver, rules Rules) *Engine {
	return &Engine{leagues: leagues, rules: rules.normalized()}
}

func (e *Engine) Rules() Rules {
	return e.rules
}

// Transition applies ev to snapshot. On rejection it returns snapshot itself,
// untouched, together with the reason. On success it returns a new snapshot
// with Seq advanced and the prompts to publish.
func (e *Engine) Transition(snapshot *Game, ev Event) (*Game, []Prompt, error) {
	if open, ok := ev.(OpenGame); ok {
		if snapshot != nil {
			return snapshot, nil, ErrGameExists
		}
		g, err := e.open(open)
		if err != nil {
			return nil, nil, err
		}
		return g, nil, nil
	}
	if snapshot == nil {
		return nil, nil, ErrGameNotFound
	}

	next := snapshot.Clone()
	var err error
	switch ev := ev.(type) {
	case JoinRequest:
		err = e.join(next, ev)
	case StartGame:
		err = e.start(next, ev)
	case Fold:
		err = e.fold(next, ev)
	case Check:
		err = e.check(next, ev)
	case Call:
		err = e.call(next, ev)
	case RaiseSingle:
		err = e.raise(next, ev.Turn, 1)
	case RaiseDouble:
		err = e.raise(next, ev.Turn, 2)
	default:
		err = ErrUnknownEvent
	}
	if err != nil {
		return snapshot, nil, err
	}
	next.Seq++
	return next, e.prompts(next, ev), nil
}

func (e *Engine) open(ev OpenGame) (*Game, error) {
	if _, _, ok := SplitID(ev.ID); !ok || ev.Host == "" {
		return nil, ErrUnknownEvent
	}
	l, err := e.leagues.Resolve(ev.League)
	if err != nil {
		if errors.Is(err, league.ErrNotFound) {
			return nil, ErrUnknownLeague
		}
		return nil, err
	}
	return &Game{
		ID:            ev.ID,
		Channel:       ev.Channel,
		Host:          ev.Host,
		League:        l.Name,
		Units:         l.Units,
		BuyIn:         l.BuyIn,
		Status:        StatusPending,
		Players:       []string{ev.Host},
		Contributions: map[string]int64{},
		Folded:        map[string]bool{},
		Acted:         map[string]bool{},
		Seq:           1,
	}, nil
}

func (e *Engine) join(g *Game, ev JoinRequest) error {
	if g.HasPlayer(ev.Player) {
		return ErrAlreadyJoined
	}
	if g.Status != StatusPending {
		return ErrGameNotJoinable
	}
	if e.rules.MaxPlayers > 0 && len(g.Players) >= e.rules.MaxPlayers {
		return ErrGameFull
	}
	g.Players = append(g.Players, ev.Player)
	if e.rules.MaxPlayers > 0 && len(g.Players) == e.rules.MaxPlayers {
		e.begin(g)
	}
	return nil
}

func (e *Engine) start(g *Game, ev StartGame) error {
	if !g.HasPlayer(ev.Player) {
		return ErrPlayerNotInGame
	}
	if g.Status != StatusPending {
		return ErrGameNotJoinable
	}
	if ev.Seq != 0 && ev.Seq != g.Seq {
		return ErrStalePrompt
	}
	if ev.Player != g.Host {
		return ErrNotHost
	}
	if len(g.Players) < e.rules.MinPlayers {
		return ErrNotEnoughPlayers
	}
	e.begin(g)
	return nil
}

func (e *Engine) begin(g *Game) {
	g.Status = StatusActive
	g.Round = 1
	g.TurnIndex = 0
	g.Acted = map[string]bool{}
}

func (e *Engine) fold(g *Game, ev Fold) error {
	if err := validateTurn(g, ev.Turn); err != nil {
		return err
	}
	g.Folded[ev.Player] = true
	delete(g.Acted, ev.Player)
	if active := g.ActivePlayers(); len(active) == 1 {
		e.settle(g, active)
		return nil
	}
	e.advance(g)
	return nil
}

func (e *Engine) check(g *Game, ev Check) error {
	if err := validateTurn(g, ev.Turn); err != nil {
		return err
	}
	if g.Owed(ev.Player) > 0 {
		return ErrMustCallOrFold
	}
	g.Acted[ev.Player] = true
	e.advance(g)
	return nil
}

func (e *Engine) call(g *Game, ev Call) error {
	if err := validateTurn(g, ev.Turn); err != nil {
		return err
	}
	owed := g.Owed(ev.Player)
	if owed == 0 {
		return ErrNothingToCall
	}
	g.commit(ev.Player, owed)
	g.Acted[ev.Player] = true
	e.advance(g)
	return nil
}

func (e *Engine) raise(g *Game, t Turn, units int64) error {
	if err := validateTurn(g, t); err != nil {
		return err
	}
	target := g.CurrentBet + units
	g.commit(t.Player, target-g.Contributions[t.Player])
	g.CurrentBet = target
	g.LastRaiser = t.Player
	g.Acted = map[string]bool{t.Player: true}
	e.advance(g)
	return nil
}

func (g *Game) commit(player string, units int64) {
	g.Contributions[player] += units
	g.Pot += units
}

// advance moves the turn on, closing the betting round when every active
// player has acted since the last raise and matched the current bet.
func (e *Engine) advance(g *Game) {
	if !roundClosed(g) {
		g.TurnIndex = g.nextActive(g.TurnIndex)
		return
	}
	if g.Round >= e.rules.Rounds {
		e.settle(g, g.ActivePlayers())
		return
	}
	g.Round++
	g.Acted = map[string]bool{}
	g.LastRaiser = ""
	g.TurnIndex = g.nextActive(len(g.Players) - 1)
}

func roundClosed(g *Game) bool {
	for _, p := range g.ActivePlayers() {
		if !g.Acted[p] || g.Contributions[p] != g.CurrentBet {
			return false
		}
	}
	return true
}

func (e *Engine) settle(g *Game, winners []string) {
	g.Status = StatusComplete
	g.Winners = append([]string(nil), winners...)
	g.Payouts = SplitPot(g.Pot, g.Winners)
	g.TurnIndex = -1
}

func (e *Engine) prompts(g *Game, ev Event) []Prompt {
	switch g.Status {
	case StatusComplete:
		return []Prompt{settlementPrompt(g)}
	case StatusActive:
		return []Prompt{turnPrompt(g)}
	default:
		if join, ok := ev.(JoinRequest); ok {
			return []Prompt{lobbyPrompt(g, join.Player, e.rules.MinPlayers)}
		}
		return nil
	}
}
