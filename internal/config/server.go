package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverMemory   = "memory"
)

type ServerConfig struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"chatpoker.db"`

	SlackBotToken      string `env:"SLACK_BOT_TOKEN"`
	SlackSigningSecret string `env:"SLACK_SIGNING_SECRET"`
	SlackAPIURL        string `env:"SLACK_API_URL" envDefault:"https://slack.com/api"`

	LeaguesPath           string `env:"LEAGUES_PATH"`
	LeagueCaseInsensitive bool   `env:"LEAGUE_CASE_INSENSITIVE" envDefault:"true"`
	MinPlayers            int    `env:"MIN_PLAYERS" envDefault:"2"`
	MaxPlayers            int    `env:"MAX_PLAYERS" envDefault:"0"`
	BettingRounds         int    `env:"BETTING_ROUNDS" envDefault:"4"`

	StoreRetryMax      int `env:"STORE_RETRY_MAX" envDefault:"3"`
	StoreRetryBaseMS   int `env:"STORE_RETRY_BASE_MS" envDefault:"50"`
	TurnTimeoutSeconds int `env:"TURN_TIMEOUT_SECONDS" envDefault:"0"`

	PushWorkers        int    `env:"PUSH_WORKERS" envDefault:"4"`
	PushRetryMax       int    `env:"PUSH_RETRY_MAX" envDefault:"3"`
	PushRetryBaseMS    int    `env:"PUSH_RETRY_BASE_MS" envDefault:"500"`
	PushMirrorsJSON    string `env:"PUSH_MIRRORS_JSON"`
	PushMirrorsPath    string `env:"PUSH_MIRRORS_PATH"`
	PushMirrorReloadMS int    `env:"PUSH_MIRRORS_RELOAD_MS" envDefault:"1000"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return cfg, fmt.Errorf("POSTGRES_DSN is required when STORE_DRIVER=%s", StoreDriverPostgres)
		}
	case StoreDriverSQLite:
		if strings.TrimSpace(cfg.SQLitePath) == "" {
			return cfg, fmt.Errorf("SQLITE_PATH is required when STORE_DRIVER=%s", StoreDriverSQLite)
		}
	case StoreDriverMemory:
	default:
		return cfg, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}
