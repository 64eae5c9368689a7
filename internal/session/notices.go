package session

import (
	"errors"

	"chatpoker/internal/game"
	"chatpoker/internal/store"
)

// NoticeFor maps a rejection or failure to the reason code and text shown
// privately to the player. Channel, user and game id are left to the caller.
func NoticeFor(err error) Notice {
	reason, text := noticeText(err)
	return Notice{Reason: reason, Text: text}
}

func noticeText(err error) (string, string) {
	switch {
	case errors.Is(err, game.ErrUnknownLeague):
		return "unknown_league", "That league doesn't exist."
	case errors.Is(err, game.ErrGameExists):
		return "game_exists", "That game has already been opened."
	case errors.Is(err, game.ErrGameNotFound):
		return "game_not_found", "That game no longer exists."
	case errors.Is(err, game.ErrGameNotJoinable):
		return "game_not_joinable", "That game has already started."
	case errors.Is(err, game.ErrAlreadyJoined):
		return "already_joined", "You're already in this game."
	case errors.Is(err, game.ErrGameFull):
		return "game_full", "That game is full."
	case errors.Is(err, game.ErrNotHost):
		return "not_host", "Only the host can deal."
	case errors.Is(err, game.ErrNotEnoughPlayers):
		return "not_enough_players", "Not enough players to deal yet."
	case errors.Is(err, game.ErrPlayerNotInGame):
		return "player_not_in_game", "You're not in this game."
	case errors.Is(err, game.ErrGameNotActive):
		return "game_not_active", "That game isn't in play."
	case errors.Is(err, game.ErrStalePrompt):
		return "stale_prompt", "That prompt is out of date."
	case errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn", "It's not your turn."
	case errors.Is(err, game.ErrMustCallOrFold):
		return "must_call_or_fold", "You can't check. Call, raise or fold."
	case errors.Is(err, game.ErrNothingToCall):
		return "nothing_to_call", "There's nothing to call. Check instead."
	case errors.Is(err, game.ErrInvalidToken):
		return "invalid_token", "That button isn't valid anymore."
	case errors.Is(err, game.ErrUnknownEvent):
		return "unknown_event", "That action isn't supported."
	case errors.Is(err, store.ErrConflict), errors.Is(err, ErrStoreUnavailable), errors.Is(err, store.ErrUnavailable):
		return "store_unavailable", "Something went wrong saving that. Please try again."
	default:
		return "internal_error", "Something went wrong. Please try again."
	}
}
