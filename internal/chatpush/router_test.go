package chatpush

import (
	"testing"

	"chatpoker/internal/game"
)

func TestRouterMatchTargets(t *testing.T) {
	r := Router{}
	targets := []MirrorTarget{
		{Platform: "discord", Endpoint: "https://x/1", ScopeType: "league", ScopeValue: "NLHE", Enabled: true},
		{Platform: "feishu", Endpoint: "https://x/2", ScopeType: "channel", ScopeValue: "C1", Enabled: true},
		{Platform: "discord", Endpoint: "https://x/3", ScopeType: "all", Enabled: true, Kinds: []string{"lobby"}},
		{Platform: "discord", Endpoint: "https://x/4", ScopeType: "all", Enabled: false},
	}
	turn := game.Prompt{GameID: "C1-1.1", Channel: "C1", League: "nlhe", Kind: game.PromptTurn}
	if matched := r.MatchTargets(targets, turn); len(matched) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(matched))
	}

	settled := turn
	settled.Kind = game.PromptSettlement
	if matched := r.MatchTargets(targets, settled); len(matched) != 3 {
		t.Fatalf("expected settlement to reach 3 targets, got %d", len(matched))
	}

	other := game.Prompt{GameID: "C9-1.1", Channel: "C9", League: "plo", Kind: game.PromptLobby}
	matched := r.MatchTargets(targets, other)
	if len(matched) != 1 || matched[0].Endpoint != "https://x/3" {
		t.Fatalf("expected only the lobby mirror, got %#v", matched)
	}
}

func TestRouterScopeNeedsValue(t *testing.T) {
	targets := []MirrorTarget{{Platform: "discord", Endpoint: "https://x", ScopeType: "channel", Enabled: true}}
	if matched := (Router{}).MatchTargets(targets, game.Prompt{Channel: ""}); len(matched) != 0 {
		t.Fatalf("expected empty scope value to match nothing, got %d", len(matched))
	}
}
