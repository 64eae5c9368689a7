package config

import "testing"

func TestLoadCLIDefaults(t *testing.T) {
	cfg, err := LoadCLI()
	if err != nil {
		t.Fatalf("LoadCLI() error = %v", err)
	}
	if cfg.Channel != "CLI" {
		t.Fatalf("Channel = %q, want CLI", cfg.Channel)
	}
	if cfg.MinPlayers != 2 || cfg.Rounds != 4 {
		t.Fatalf("unexpected cli config: %+v", cfg)
	}
}

func TestLoadCLIOverrides(t *testing.T) {
	t.Setenv("CLI_CHANNEL", "home")
	t.Setenv("LEAGUES_PATH", "/etc/poker/leagues.yaml")
	t.Setenv("BETTING_ROUNDS", "2")

	cfg, err := LoadCLI()
	if err != nil {
		t.Fatalf("LoadCLI() error = %v", err)
	}
	if cfg.Channel != "home" || cfg.LeaguesPath != "/etc/poker/leagues.yaml" || cfg.Rounds != 2 {
		t.Fatalf("unexpected cli config: %+v", cfg)
	}
}
