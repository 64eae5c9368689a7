package chatpush

import (
	"strings"

	"chatpoker/internal/game"
)

type Router struct{}

func (r Router) MatchTargets(targets []MirrorTarget, p game.Prompt) []MirrorTarget {
	if len(targets) == 0 {
		return nil
	}
	out := make([]MirrorTarget, 0, len(targets))
	for _, target := range targets {
		if !target.Enabled || !scopeMatches(target, p) || !kindAllowed(target.Kinds, p.Kind) {
			continue
		}
		out = append(out, target)
	}
	return out
}

func scopeMatches(target MirrorTarget, p game.Prompt) bool {
	switch target.ScopeType {
	case "all":
		return true
	case "league":
		return target.ScopeValue != "" && strings.EqualFold(target.ScopeValue, p.League)
	case "channel":
		return target.ScopeValue != "" && target.ScopeValue == p.Channel
	default:
		return false
	}
}

// kindAllowed always lets settlements through so panels reach their final
// state.
func kindAllowed(kinds []string, kind game.PromptKind) bool {
	if len(kinds) == 0 || kind == game.PromptSettlement {
		return true
	}
	for _, k := range kinds {
		if k == string(kind) {
			return true
		}
	}
	return false
}
