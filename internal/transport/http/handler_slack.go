package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"chatpoker/internal/chatpush/platforms"
	"chatpoker/internal/game"
	"chatpoker/internal/league"
	"chatpoker/internal/session"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// Coordinator is satisfied by *session.Coordinator.
type Coordinator interface {
	Submit(ctx context.Context, id string, ev game.Event) <-chan session.Result
}

// ChatOutbound is satisfied by *chatpush.Manager.
type ChatOutbound interface {
	Announce(ctx context.Context, channel, text string) (platforms.Posted, error)
	Notify(ctx context.Context, n session.Notice) error
	DeleteOriginal(responseURL string)
}

// LeagueResolver is satisfied by *league.Catalog.
type LeagueResolver interface {
	Resolve(token string) (league.League, error)
	Names() []string
}

type SlackHandlers struct {
	coord   Coordinator
	chat    ChatOutbound
	leagues LeagueResolver
}

func NewSlackHandlers(coord Coordinator, chat ChatOutbound, leagues LeagueResolver) *SlackHandlers {
	return &SlackHandlers{coord: coord, chat: chat, leagues: leagues}
}

// ephemeral is a reply only the invoking user sees.
func ephemeral(text string) *slack.Msg {
	return &slack.Msg{ResponseType: slack.ResponseTypeEphemeral, Text: text}
}

// Commands handles the slash command that opens a game. Usage problems are
// answered ephemerally in the HTTP response; the announcement is posted to the
// channel and its timestamp names the game.
func (h *SlackHandlers) Commands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricSlackCommandsTotal.Add(1)
		cmd, err := slack.SlashCommandParse(r)
		if err != nil || cmd.UserID == "" || cmd.ChannelID == "" {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		user, channel := cmd.UserID, cmd.ChannelID
		command := fallbackString(cmd.Command, "/poker")

		pieces := strings.Fields(cmd.Text)
		if len(pieces) != 1 {
			writeJSON(w, ephemeral("Which league do you want to play in? Try something like `"+command+" ["+strings.Join(h.leagues.Names(), "|")+"]`"))
			return
		}
		l, err := h.leagues.Resolve(pieces[0])
		if err != nil {
			writeJSON(w, ephemeral("I don't know this '"+pieces[0]+"' you speak of. Try one of these: "+strings.Join(h.leagues.Names(), ", ")))
			return
		}

		posted, err := h.chat.Announce(r.Context(), channel, game.Announcement(user, l))
		if err != nil {
			metricAnnounceErrorsTotal.Add(1)
			log.Error().Err(err).Str("channel", channel).Str("player", user).Msg("slack_announce_failed")
			writeJSON(w, ephemeral("I couldn't post in this channel. Is the app a member?"))
			return
		}
		id := game.ID(posted.Channel, posted.TS)
		h.coord.Submit(r.Context(), id, game.OpenGame{
			ID:      id,
			Channel: posted.Channel,
			Host:    user,
			League:  l.Name,
		})
		metricGamesOpenedTotal.Add(1)
		log.Info().Str("game_id", id).Str("player", user).Str("league", l.Name).Msg("game_opening")
		w.WriteHeader(http.StatusOK)
	}
}

// Events handles the Events API: the url_verification handshake and
// reactions, which join the reacting user to the game the message announced.
// Event types this app does not subscribe to are acknowledged and dropped.
func (h *SlackHandlers) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricSlackEventsTotal.Add(1)
		body, err := io.ReadAll(io.LimitReader(r.Body, slackMaxBodyBytes))
		if err != nil || !json.Valid(body) {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		ev, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
		if err != nil {
			log.Debug().Err(err).Msg("slack_event_ignored")
			w.WriteHeader(http.StatusOK)
			return
		}
		switch ev.Type {
		case slackevents.URLVerification:
			var challenge slackevents.ChallengeResponse
			if err := json.Unmarshal(body, &challenge); err != nil {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			writeJSON(w, map[string]string{"challenge": challenge.Challenge})
			return
		case slackevents.CallbackEvent:
		default:
			w.WriteHeader(http.StatusOK)
			return
		}
		// Slack redelivers events it thinks timed out; the first delivery
		// already queued the join.
		if r.Header.Get("X-Slack-Retry-Num") != "" {
			w.WriteHeader(http.StatusOK)
			return
		}

		if reaction, ok := ev.InnerEvent.Data.(*slackevents.ReactionAddedEvent); ok {
			h.join(r.Context(), reaction)
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (h *SlackHandlers) join(ctx context.Context, ev *slackevents.ReactionAddedEvent) {
	if ev.Item.Type != "message" || ev.User == "" {
		return
	}
	id := game.ID(ev.Item.Channel, ev.Item.Timestamp)
	if _, _, ok := game.SplitID(id); ok {
		h.coord.Submit(ctx, id, game.JoinRequest{Player: ev.User})
	}
}

// Interactions handles button presses. The correlation token in the button
// value names the game and the prompt it belongs to. Accepted presses delete
// the prompt they came from.
func (h *SlackHandlers) Interactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		metricSlackInteractionsTotal.Add(1)
		if err := r.ParseForm(); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var in slack.InteractionCallback
		if err := json.Unmarshal([]byte(r.PostForm.Get("payload")), &in); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		if in.Type != slack.InteractionTypeBlockActions || in.User.ID == "" {
			w.WriteHeader(http.StatusOK)
			return
		}
		for _, action := range in.ActionCallback.BlockActions {
			if action == nil {
				continue
			}
			h.handleAction(r.Context(), &in, action)
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (h *SlackHandlers) handleAction(ctx context.Context, in *slack.InteractionCallback, action *slack.BlockAction) {
	user := in.User.ID
	tok, err := game.DecodeToken(action.Value)
	if err != nil {
		h.reject(ctx, in.Channel.ID, user, "", err)
		return
	}
	ev, err := game.EventFor(game.ActionKind(action.ActionID), game.Turn{Player: user, Seq: tok.Seq})
	if err != nil {
		h.reject(ctx, in.Channel.ID, user, tok.GameID, err)
		return
	}
	done := h.coord.Submit(ctx, tok.GameID, ev)
	responseURL := in.ResponseURL
	go func() {
		res := <-done
		if res.Err == nil {
			h.chat.DeleteOriginal(responseURL)
		}
	}()
}

// reject answers a press the coordinator never saw.
func (h *SlackHandlers) reject(ctx context.Context, channel, user, gameID string, err error) {
	if channel == "" {
		channel, _, _ = game.SplitID(gameID)
	}
	n := session.NoticeFor(err)
	n.GameID = gameID
	n.Channel = channel
	n.User = user
	if notifyErr := h.chat.Notify(ctx, n); notifyErr != nil && !errors.Is(notifyErr, context.Canceled) {
		log.Warn().Err(notifyErr).Str("player", user).Str("reason", n.Reason).Msg("slack_notice_failed")
	}
}

func fallbackString(v, d string) string {
	if strings.TrimSpace(v) == "" {
		return d
	}
	return v
}
