package chatpush

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"chatpoker/internal/config"
)

func TestConfigFromServerFiltersTargets(t *testing.T) {
	scfg := config.ServerConfig{
		SlackBotToken:   " xoxb-test ",
		PushWorkers:     2,
		PushRetryMax:    3,
		PushRetryBaseMS: 200,
		PushMirrorsJSON: `[
		  {"platform":"discord","endpoint":"https://a","scope_type":"league","scope_value":"nlhe","enabled":true},
		  {"platform":"feishu","endpoint":"","scope_type":"league","scope_value":"nlhe","enabled":true},
		  {"platform":"discord","endpoint":"https://b","scope_type":"invalid","scope_value":"nlhe","enabled":true},
		  {"platform":"slack","endpoint":"C1","enabled":true},
		  {"platform":"Feishu","endpoint":"https://c","kinds":[" Settlement "],"enabled":true},
		  {"platform":"discord","endpoint":"https://d","enabled":false}
		]`,
	}
	cfg, err := ConfigFromServer(scfg)
	if err != nil {
		t.Fatalf("config parse failed: %v", err)
	}
	if len(cfg.Targets) != 2 {
		t.Fatalf("expected 2 filtered targets, got %d", len(cfg.Targets))
	}
	if cfg.Targets[0].Platform != "discord" || cfg.Targets[0].ScopeValue != "nlhe" {
		t.Fatalf("unexpected first target: %#v", cfg.Targets[0])
	}
	second := cfg.Targets[1]
	if second.Platform != "feishu" || second.ScopeType != "all" || second.Kinds[0] != "settlement" {
		t.Fatalf("expected normalized feishu target, got %#v", second)
	}
	if cfg.SlackToken != "xoxb-test" {
		t.Fatalf("expected trimmed token, got %q", cfg.SlackToken)
	}
	if cfg.Workers != 2 || cfg.RetryMax != 3 || cfg.RetryBase != 200*time.Millisecond {
		t.Fatalf("unexpected worker settings: %+v", cfg)
	}
}

func TestConfigFromServerUsesConfigPathFirst(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mirrors.json")
	fileJSON := `[{"platform":"discord","endpoint":"https://from-file","scope_type":"league","scope_value":"nlhe","enabled":true}]`
	if err := os.WriteFile(path, []byte(fileJSON), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	scfg := config.ServerConfig{
		PushMirrorsPath: path,
		PushMirrorsJSON: `[{"platform":"discord","endpoint":"https://from-env","scope_type":"league","scope_value":"nlhe","enabled":true}]`,
	}
	cfg, err := ConfigFromServer(scfg)
	if err != nil {
		t.Fatalf("config parse failed: %v", err)
	}
	if len(cfg.Targets) != 1 {
		t.Fatalf("expected 1 target, got %d", len(cfg.Targets))
	}
	if cfg.Targets[0].Endpoint != "https://from-file" {
		t.Fatalf("expected endpoint from file, got %s", cfg.Targets[0].Endpoint)
	}
}

func TestConfigFromServerConfigPathReadError(t *testing.T) {
	scfg := config.ServerConfig{
		PushMirrorsPath: filepath.Join(t.TempDir(), "missing.json"),
	}
	if _, err := ConfigFromServer(scfg); err == nil {
		t.Fatal("expected read error for missing config path")
	}
}

func TestConfigFromServerRejectsMalformedJSON(t *testing.T) {
	if _, err := ConfigFromServer(config.ServerConfig{PushMirrorsJSON: "{"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfigFromServerDefaults(t *testing.T) {
	cfg, err := ConfigFromServer(config.ServerConfig{PushRetryMax: -1})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Workers != 4 || cfg.RetryMax != 0 || cfg.RetryBase != 500*time.Millisecond || cfg.ConfigReload != time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
