package game

import "fmt"

// SplitPot divides pot evenly between winners, in seat order; the odd units
// go to the earliest seats.
func SplitPot(pot int64, winners []string) map[string]int64 {
	out := make(map[string]int64, len(winners))
	if len(winners) == 0 {
		return out
	}
	share := pot / int64(len(winners))
	rem := pot % int64(len(winners))
	for i, w := range winners {
		out[w] = share
		if int64(i) < rem {
			out[w]++
		}
	}
	return out
}

// Net is what each player won or lost once the game is settled.
func Net(g *Game) map[string]int64 {
	out := make(map[string]int64, len(g.Players))
	for _, p := range g.Players {
		out[p] = g.Payouts[p] - g.Contributions[p]
	}
	return out
}

func CheckInvariants(g *Game) error {
	if g == nil {
		return fmt.Errorf("%w: nil game", ErrInvariantViolated)
	}
	if g.Status != StatusComplete && len(g.Players) == 0 {
		return fmt.Errorf("%w: no players", ErrInvariantViolated)
	}
	if len(g.Players) > 0 && g.Players[0] != g.Host {
		return fmt.Errorf("%w: host is not seat 0", ErrInvariantViolated)
	}
	seen := map[string]bool{}
	for _, p := range g.Players {
		if seen[p] {
			return fmt.Errorf("%w: duplicate player %s", ErrInvariantViolated, p)
		}
		seen[p] = true
	}
	var sum int64
	for p, c := range g.Contributions {
		sum += c
		if !g.Folded[p] && c > g.CurrentBet {
			return fmt.Errorf("%w: %s contributed %d over bet %d", ErrInvariantViolated, p, c, g.CurrentBet)
		}
	}
	if sum != g.Pot {
		return fmt.Errorf("%w: pot %d != contributions %d", ErrInvariantViolated, g.Pot, sum)
	}
	if g.Status == StatusActive {
		if g.TurnIndex < 0 || g.TurnIndex >= len(g.Players) || g.Folded[g.Players[g.TurnIndex]] {
			return fmt.Errorf("%w: turn index %d", ErrInvariantViolated, g.TurnIndex)
		}
		if len(g.ActivePlayers()) < 2 {
			return fmt.Errorf("%w: active game with one player", ErrInvariantViolated)
		}
	}
	if g.Status == StatusComplete {
		if len(g.Winners) == 0 {
			return fmt.Errorf("%w: complete without winner", ErrInvariantViolated)
		}
		var paid int64
		for _, v := range g.Payouts {
			paid += v
		}
		if paid != g.Pot {
			return fmt.Errorf("%w: payouts %d != pot %d", ErrInvariantViolated, paid, g.Pot)
		}
	}
	return nil
}
