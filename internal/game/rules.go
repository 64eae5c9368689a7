package game

import "errors"

var (
	ErrUnknownLeague     = errors.New("unknown_league")
	ErrGameExists        = errors.New("game_exists")
	ErrGameNotFound      = errors.New("game_not_found")
	ErrGameNotJoinable   = errors.New("game_not_joinable")
	ErrAlreadyJoined     = errors.New("already_joined")
	ErrGameFull          = errors.New("game_full")
	ErrNotHost           = errors.New("not_host")
	ErrNotEnoughPlayers  = errors.New("not_enough_players")
	ErrPlayerNotInGame   = errors.New("player_not_in_game")
	ErrGameNotActive     = errors.New("game_not_active")
	ErrStalePrompt       = errors.New("stale_prompt")
	ErrNotYourTurn       = errors.New("not_your_turn")
	ErrMustCallOrFold    = errors.New("must_call_or_fold")
	ErrNothingToCall     = errors.New("nothing_to_call")
	ErrInvalidToken      = errors.New("invalid_token")
	ErrUnknownEvent      = errors.New("unknown_event")
	ErrInvariantViolated = errors.New("invariant_violated")
)

type Rules struct {
	MinPlayers int
	// MaxPlayers auto-starts the game when reached; zero means no cap.
	MaxPlayers int
	// Rounds is the number of betting rounds before a showdown.
	Rounds int
}

func DefaultRules() Rules {
	return Rules{MinPlayers: 2, Rounds: 4}
}

func (r Rules) normalized() Rules {
	if r.MinPlayers < 2 {
		r.MinPlayers = 2
	}
	if r.MaxPlayers != 0 && r.MaxPlayers < r.MinPlayers {
		r.MaxPlayers = r.MinPlayers
	}
	if r.Rounds < 1 {
		r.Rounds = 1
	}
	return r
}

// validateTurn applies the checks shared by every betting action, in the
// order callers observe them.
func validateTurn(g *Game, t Turn) error {
	if !g.HasPlayer(t.Player) {
		return ErrPlayerNotInGame
	}
	if g.Status != StatusActive {
		return ErrGameNotActive
	}
	if t.Seq != 0 && t.Seq != g.Seq {
		return ErrStalePrompt
	}
	if g.Actor() != t.Player {
		return ErrNotYourTurn
	}
	return nil
}

// Rejection reports whether err is a deterministic engine rejection rather
// than an infrastructure failure.
func Rejection(err error) bool {
	for _, e := range []error{
		ErrUnknownLeague, ErrGameExists, ErrGameNotFound, ErrGameNotJoinable,
		ErrAlreadyJoined, ErrGameFull, ErrNotHost, ErrNotEnoughPlayers,
		ErrPlayerNotInGame, ErrGameNotActive, ErrStalePrompt, ErrNotYourTurn,
		ErrMustCallOrFold, ErrNothingToCall, ErrInvalidToken, ErrUnknownEvent,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
