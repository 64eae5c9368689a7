package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	apppublic "chatpoker/internal/app/public"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Coordinator   Coordinator
	Chat          ChatOutbound
	Leagues       LeagueResolver
	Games         apppublic.GameReader
	LeagueList    apppublic.LeagueLister
	Store         Pinger
	SigningSecret string
	AdminAPIKey   string
}

func NewRouter(d Deps) *chi.Mux {
	publicHandlers := NewPublicHandlers(apppublic.NewService(d.Games, d.LeagueList), d.Store)
	slackHandlers := NewSlackHandlers(d.Coordinator, d.Chat, d.Leagues)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", publicHandlers.Health())

	r.Route("/slack", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Use(SlackSignatureMiddleware(d.SigningSecret))
		r.Use(BodyCaptureMiddleware(4096))
		r.Post("/commands", slackHandlers.Commands())
		r.Post("/events", slackHandlers.Events())
		r.Post("/interactions", slackHandlers.Interactions())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/leagues", publicHandlers.Leagues())
		r.Get("/games", publicHandlers.Games())
		r.Get("/games/{game_id}", publicHandlers.Game())

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(d.AdminAPIKey))
			r.Get("/debug/vars", expvar.Handler().ServeHTTP)
		})
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
