package httptransport

import (
	"context"
	"errors"
	"net/http"

	apppublic "chatpoker/internal/app/public"

	"github.com/go-chi/chi/v5"
)

// Pinger reports whether the game store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PublicHandlers struct {
	publicSvc *apppublic.Service
	store     Pinger
}

func NewPublicHandlers(publicSvc *apppublic.Service, store Pinger) *PublicHandlers {
	return &PublicHandlers{publicSvc: publicSvc, store: store}
}

func (h *PublicHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			writeJSON(w, map[string]any{"ok": false, "db": "down"})
			return
		}
		writeJSON(w, map[string]any{"ok": true, "db": "up"})
	}
}

func (h *PublicHandlers) Leagues() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, h.publicSvc.Leagues())
	}
}

func (h *PublicHandlers) Games() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		resp, err := h.publicSvc.Games(r.Context(), r.URL.Query().Get("status"), limit, offset)
		if err != nil {
			if errors.Is(err, apppublic.ErrInvalidRequest) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		writeJSON(w, resp)
	}
}

func (h *PublicHandlers) Game() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.publicSvc.Game(r.Context(), chi.URLParam(r, "game_id"))
		if err != nil {
			switch {
			case errors.Is(err, apppublic.ErrInvalidRequest):
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			case errors.Is(err, apppublic.ErrGameNotFound):
				WriteHTTPError(w, http.StatusNotFound, "game_not_found")
			default:
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			}
			return
		}
		writeJSON(w, resp)
	}
}
