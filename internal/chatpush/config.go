package chatpush

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"chatpoker/internal/config"
)

func ConfigFromServer(cfg config.ServerConfig) (Config, error) {
	out := Config{
		SlackToken:          strings.TrimSpace(cfg.SlackBotToken),
		SlackAPIURL:         strings.TrimSpace(cfg.SlackAPIURL),
		ConfigPath:          strings.TrimSpace(cfg.PushMirrorsPath),
		ConfigReload:        time.Duration(cfg.PushMirrorReloadMS) * time.Millisecond,
		Workers:             cfg.PushWorkers,
		RetryMax:            cfg.PushRetryMax,
		RetryBase:           time.Duration(cfg.PushRetryBaseMS) * time.Millisecond,
		PanelUpdateInterval: time.Second,
		PanelRecentLines:    5,
		FailureThreshold:    3,
		CircuitOpenDuration: 30 * time.Second,
		RequestTimeout:      5 * time.Second,
		DispatchBuffer:      2048,
	}
	if out.Workers <= 0 {
		out.Workers = 4
	}
	if out.RetryMax < 0 {
		out.RetryMax = 0
	}
	if out.RetryBase <= 0 {
		out.RetryBase = 500 * time.Millisecond
	}
	if out.ConfigReload <= 0 {
		out.ConfigReload = time.Second
	}

	raw, err := loadMirrorsJSON(cfg)
	if err != nil {
		return Config{}, err
	}
	if raw == "" {
		return out, nil
	}
	targets, err := parseMirrorsJSON(raw)
	if err != nil {
		return Config{}, err
	}
	out.Targets = targets
	return out, nil
}

// loadMirrorsJSON prefers the file over the inline variable.
func loadMirrorsJSON(cfg config.ServerConfig) (string, error) {
	path := strings.TrimSpace(cfg.PushMirrorsPath)
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read push mirrors path %q: %w", path, err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return strings.TrimSpace(cfg.PushMirrorsJSON), nil
}

func parseMirrorsJSON(raw string) ([]MirrorTarget, error) {
	var targets []MirrorTarget
	if err := json.Unmarshal([]byte(raw), &targets); err != nil {
		return nil, fmt.Errorf("parse push mirrors: %w", err)
	}
	filtered := make([]MirrorTarget, 0, len(targets))
	for _, target := range targets {
		target.Platform = strings.ToLower(strings.TrimSpace(target.Platform))
		if target.Platform != "discord" && target.Platform != "feishu" {
			continue
		}
		target.ScopeType = strings.ToLower(strings.TrimSpace(target.ScopeType))
		if target.ScopeType == "" {
			target.ScopeType = "all"
		}
		if target.ScopeType != "all" && target.ScopeType != "league" && target.ScopeType != "channel" {
			continue
		}
		target.ScopeValue = strings.TrimSpace(target.ScopeValue)
		target.Endpoint = strings.TrimSpace(target.Endpoint)
		if target.Endpoint == "" || !target.Enabled {
			continue
		}
		for i := range target.Kinds {
			target.Kinds[i] = strings.ToLower(strings.TrimSpace(target.Kinds[i]))
		}
		filtered = append(filtered, target)
	}
	return filtered, nil
}
