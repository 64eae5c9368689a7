package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatpoker/internal/app/public"
	"chatpoker/internal/chatpush"
	"chatpoker/internal/config"
	"chatpoker/internal/game"
	"chatpoker/internal/league"
	"chatpoker/internal/ledger"
	"chatpoker/internal/logging"
	"chatpoker/internal/session"
	"chatpoker/internal/store"
	"chatpoker/internal/store/sqlite"
	httptransport "chatpoker/internal/transport/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// gameStore is what every storage driver offers the server.
type gameStore interface {
	session.Store
	public.GameReader
	ledger.Writer
	Ping(ctx context.Context) error
}

func main() {
	cfg, err := config.LoadApp()
	logging.Init(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}

	st, closeStore, err := openStore(cfg.Server)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Server.StoreDriver).Msg("store init failed")
	}
	defer closeStore()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	catalog, err := loadLeagues(cfg.Server)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Server.LeaguesPath).Msg("league catalog failed")
	}
	engine := game.NewEngine(catalog, game.Rules{
		MinPlayers: cfg.Server.MinPlayers,
		MaxPlayers: cfg.Server.MaxPlayers,
		Rounds:     cfg.Server.BettingRounds,
	})

	pushCfg, err := chatpush.ConfigFromServer(cfg.Server)
	if err != nil {
		log.Fatal().Err(err).Msg("chat push config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chat := chatpush.NewManager(pushCfg)
	if err := chat.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("chat push start failed")
	}

	coord := session.New(st, engine, chat, ledger.New(st), session.Options{
		RetryMax:    cfg.Server.StoreRetryMax,
		RetryBase:   cfg.Server.StoreRetryBase(),
		TurnTimeout: cfg.Server.TurnTimeout(),
	})
	coord.StartJanitor(ctx, time.Minute)

	r := httptransport.NewRouter(httptransport.Deps{
		Coordinator:   coord,
		Chat:          chat,
		Leagues:       catalog,
		Games:         st,
		LeagueList:    catalog,
		Store:         st,
		SigningSecret: cfg.Server.SlackSigningSecret,
		AdminAPIKey:   cfg.Server.AdminAPIKey,
	})
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Strs("leagues", catalog.Names()).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
	coord.Close()
	log.Info().Msg("server stopped")
}

func openStore(cfg config.ServerConfig) (gameStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		st, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	case config.StoreDriverMemory:
		log.Warn().Msg("memory store selected; games are lost on restart")
		return store.NewMemory(), func() {}, nil
	default:
		st, err := store.New(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	}
}

func loadLeagues(cfg config.ServerConfig) (*league.Catalog, error) {
	opts := league.Options{CaseInsensitive: cfg.LeagueCaseInsensitive}
	if cfg.LeaguesPath == "" {
		return league.Default(opts), nil
	}
	return league.LoadFile(cfg.LeaguesPath, opts)
}
