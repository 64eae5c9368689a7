package config

import "testing"

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/poker?sslmode=disable")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.StoreDriver != StoreDriverPostgres {
		t.Fatalf("StoreDriver = %q, want postgres", cfg.StoreDriver)
	}
	if cfg.MinPlayers != 2 || cfg.MaxPlayers != 0 || cfg.BettingRounds != 4 {
		t.Fatalf("unexpected table rules: %+v", cfg)
	}
	if cfg.StoreRetryMax != 3 || cfg.StoreRetryBaseMS != 50 {
		t.Fatalf("unexpected retry settings: %+v", cfg)
	}
	if !cfg.LeagueCaseInsensitive {
		t.Fatal("LeagueCaseInsensitive should default to true")
	}
}

func TestLoadServerRequiresPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	if _, err := LoadServer(); err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}

func TestLoadServerOtherDriversSkipPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	for _, driver := range []string{"sqlite", "Memory"} {
		t.Setenv("STORE_DRIVER", driver)
		if _, err := LoadServer(); err != nil {
			t.Fatalf("driver %s: unexpected error %v", driver, err)
		}
	}
}

func TestLoadServerRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	if _, err := LoadServer(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("MAX_PLAYERS", "6")
	t.Setenv("LEAGUE_CASE_INSENSITIVE", "false")
	t.Setenv("TURN_TIMEOUT_SECONDS", "90")
	t.Setenv("PUSH_MIRRORS_JSON", `[{"platform":"discord"}]`)

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.MaxPlayers != 6 || cfg.TurnTimeoutSeconds != 90 || cfg.LeagueCaseInsensitive {
		t.Fatalf("unexpected parsed config: %+v", cfg)
	}
	if cfg.PushMirrorsJSON == "" {
		t.Fatal("PushMirrorsJSON not parsed")
	}
}

func TestServerConfigDurations(t *testing.T) {
	cfg := ServerConfig{StoreRetryBaseMS: 25, TurnTimeoutSeconds: 120}
	if cfg.StoreRetryBase().Milliseconds() != 25 {
		t.Fatalf("StoreRetryBase = %v", cfg.StoreRetryBase())
	}
	if cfg.TurnTimeout().Seconds() != 120 {
		t.Fatalf("TurnTimeout = %v", cfg.TurnTimeout())
	}
}

func TestLoadAppKeepsLogConfigOnServerError(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	cfg, err := LoadApp()
	if err == nil {
		t.Fatal("expected server config error")
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("log config lost: %+v", cfg.Log)
	}
}
