package main

import (
	"errors"
	"fmt"
	"strings"

	"chatpoker/internal/game"
)

var errUsage = errors.New("usage: open <host> <league> | join <player> | <player> <start|fold|check|call|raise|double> | show | leagues | quit")

type commandKind int

const (
	cmdOpen commandKind = iota
	cmdEvent
	cmdShow
	cmdLeagues
	cmdQuit
)

type command struct {
	kind   commandKind
	host   string
	league string
	event  game.Event
}

// parseCommand reads one table line. Turn events carry Seq zero here; the
// table pins them to the current snapshot before submitting.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, errUsage
	}
	switch strings.ToLower(fields[0]) {
	case "open":
		if len(fields) != 3 {
			return command{}, errUsage
		}
		return command{kind: cmdOpen, host: fields[1], league: fields[2]}, nil
	case "join":
		if len(fields) != 2 {
			return command{}, errUsage
		}
		return command{kind: cmdEvent, event: game.JoinRequest{Player: fields[1]}}, nil
	case "show":
		return command{kind: cmdShow}, nil
	case "leagues":
		return command{kind: cmdLeagues}, nil
	case "quit", "exit":
		return command{kind: cmdQuit}, nil
	}
	if len(fields) != 2 {
		return command{}, errUsage
	}
	ev, err := game.EventFor(game.ActionKind(strings.ToLower(fields[1])), game.Turn{Player: fields[0]})
	if err != nil {
		return command{}, fmt.Errorf("%w: %s", err, fields[1])
	}
	return command{kind: cmdEvent, event: ev}, nil
}

// pinTurn stamps a turn event with seq so a press typed against an old view
// is rejected the same way a stale button would be.
func pinTurn(ev game.Event, seq uint64) game.Event {
	switch e := ev.(type) {
	case game.StartGame:
		e.Seq = seq
		return e
	case game.Fold:
		e.Seq = seq
		return e
	case game.Check:
		e.Seq = seq
		return e
	case game.Call:
		e.Seq = seq
		return e
	case game.RaiseSingle:
		e.Seq = seq
		return e
	case game.RaiseDouble:
		e.Seq = seq
		return e
	default:
		return ev
	}
}
