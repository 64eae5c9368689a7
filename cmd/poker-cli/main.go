package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"chatpoker/internal/config"
	"chatpoker/internal/game"
	"chatpoker/internal/league"
	"chatpoker/internal/ledger"
	"chatpoker/internal/logging"
	"chatpoker/internal/session"
	"chatpoker/internal/store"

	"github.com/pterm/pterm"
)

// table plays games on one terminal. Every player types at the same
// keyboard; the most recently opened game is the one being played.
type table struct {
	cfg     config.CLIConfig
	catalog *league.Catalog
	store   *store.Memory
	coord   *session.Coordinator
	gameID  string
	opened  int
	now     func() time.Time
}

func newTable(cfg config.CLIConfig, catalog *league.Catalog) *table {
	mem := store.NewMemory()
	engine := game.NewEngine(catalog, game.Rules{
		MinPlayers: cfg.MinPlayers,
		MaxPlayers: cfg.MaxPlayers,
		Rounds:     cfg.Rounds,
	})
	return &table{
		cfg:     cfg,
		catalog: catalog,
		store:   mem,
		coord:   session.New(mem, engine, terminalNotifier{}, ledger.New(mem), session.Options{}),
		now:     time.Now,
	}
}

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	// The table owns stdout; keep engine logs out of the way unless asked.
	if logCfg.Level == "info" {
		logCfg.Level = "warn"
	}
	logging.Init(logCfg)

	cfg, err := config.LoadCLI()
	if err != nil {
		pterm.Fatal.Printfln("load cli config: %v", err)
	}
	opts := league.Options{CaseInsensitive: true}
	catalog := league.Default(opts)
	if cfg.LeaguesPath != "" {
		if catalog, err = league.LoadFile(cfg.LeaguesPath, opts); err != nil {
			pterm.Fatal.Printfln("load leagues: %v", err)
		}
	}

	pterm.DefaultHeader.WithFullWidth().Println("chatpoker")
	pterm.Info.Println(errUsage.Error())
	t := newTable(cfg, catalog)
	if err := t.run(context.Background(), os.Stdin); err != nil {
		pterm.Fatal.Println(err)
	}
	t.coord.Close()
}

func (t *table) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		pterm.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if cmd.kind == cmdQuit {
			return nil
		}
		t.handle(ctx, cmd)
	}
}

func (t *table) handle(ctx context.Context, cmd command) {
	switch cmd.kind {
	case cmdLeagues:
		renderLeagues(t.catalog.All())
	case cmdShow:
		if g := t.current(ctx); g != nil {
			renderGame(g)
		}
	case cmdOpen:
		t.open(ctx, cmd.host, cmd.league)
	case cmdEvent:
		if t.gameID == "" {
			pterm.Error.Println("no game is open; try: open <host> <league>")
			return
		}
		ev := cmd.event
		if g := t.current(ctx); g != nil {
			ev = pinTurn(ev, g.Seq)
		}
		res := t.coord.Apply(ctx, t.gameID, ev)
		if res.Err == nil && res.Game != nil && res.Game.Status == game.StatusComplete {
			t.printResults(ctx)
		}
	}
}

func (t *table) open(ctx context.Context, host, token string) {
	l, err := t.catalog.Resolve(token)
	if err != nil {
		pterm.Error.Printfln("I don't know this '%s' you speak of. Try one of these: %s",
			token, strings.Join(t.catalog.Names(), ", "))
		return
	}
	t.opened++
	id := game.ID(t.cfg.Channel, fmt.Sprintf("%d.%06d", t.now().Unix(), t.opened))
	res := t.coord.Apply(ctx, id, game.OpenGame{
		ID:      id,
		Channel: t.cfg.Channel,
		Host:    host,
		League:  l.Name,
	})
	if res.Err != nil {
		return
	}
	t.gameID = id
	pterm.Info.Println(game.Announcement(host, l))
}

func (t *table) current(ctx context.Context) *game.Game {
	if t.gameID == "" {
		pterm.Error.Println("no game is open")
		return nil
	}
	g, err := t.store.Load(ctx, t.gameID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			pterm.Error.Println(err)
		}
		return nil
	}
	return g
}

func (t *table) printResults(ctx context.Context) {
	entries, err := t.store.LedgerEntries(ctx, t.gameID)
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	data := pterm.TableData{{"Player", "Net"}}
	for _, e := range entries {
		data = append(data, []string{e.Player, fmt.Sprintf("%+d %s", e.Amount, e.Units)})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}
}
