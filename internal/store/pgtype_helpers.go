package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"chatpoker/internal/game"

	"github.com/jackc/pgx/v5"
)

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func encodeSnapshot(g *game.Game) ([]byte, error) {
	raw, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode game %s: %w", g.ID, err)
	}
	return raw, nil
}

// DecodeSnapshot restores a stored game and fills any nil maps.
func DecodeSnapshot(raw []byte) (*game.Game, error) {
	var g game.Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode game snapshot: %w", err)
	}
	if g.Contributions == nil {
		g.Contributions = map[string]int64{}
	}
	if g.Folded == nil {
		g.Folded = map[string]bool{}
	}
	if g.Acted == nil {
		g.Acted = map[string]bool{}
	}
	return &g, nil
}
