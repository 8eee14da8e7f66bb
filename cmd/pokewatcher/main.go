package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tatianab/pokewatcher/internal/backup"
	"github.com/tatianab/pokewatcher/internal/config"
	"github.com/tatianab/pokewatcher/internal/engine"
	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/games"
	"github.com/tatianab/pokewatcher/internal/narrator"
	"github.com/tatianab/pokewatcher/internal/replay"
	"github.com/tatianab/pokewatcher/internal/romident"
	"github.com/tatianab/pokewatcher/internal/splits"
	"github.com/tatianab/pokewatcher/internal/tui"
)

// stdinTrace streams notifications from standard input.
const stdinTrace = "-"

func main() {
	configPath := flag.String("config", "pokewatcher.yaml", "Path to the configuration file")
	trace := flag.String("trace", "", "Recorded run to replay, or - to stream notifications from stdin")
	headless := flag.Bool("headless", false, "Log events to stderr instead of showing the dashboard")
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("pokewatcher: ")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *trace != "" {
		cfg.Trace = *trace
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *headless); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, headless bool) error {
	logger := log.Default()
	if !headless {
		f, err := tea.LogToFile(cfg.LogFile, "pokewatcher")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
	}

	if cfg.Trace == "" {
		return fmt.Errorf("no notification source: set trace, or pass -trace -")
	}
	var recorded *replay.Trace
	if cfg.Trace != stdinTrace {
		var err error
		recorded, err = replay.Load(cfg.Trace)
		if err != nil {
			return err
		}
	}

	name, err := gameName(cfg, recorded)
	if err != nil {
		return err
	}
	game, err := games.Lookup(name)
	if err != nil {
		return err
	}
	eng, err := engine.NewEngine(game, logger)
	if err != nil {
		return err
	}
	logger.Printf("watching %s (%s)", game.Name, game.Family)

	store, err := splits.Open(cfg.SplitsDB)
	if err != nil {
		return err
	}
	defer store.Close()
	splits.NewRecorder(store, game.Name, eng.Data(), logger).Subscribe(eng.Bus())
	backup.NewManager(cfg.BackupDir, cfg.Save, eng.Data(), logger).Subscribe(eng.Bus())

	var lines <-chan string
	if cfg.Narrator.Enabled && cfg.GeminiAPIKey != "" {
		gem, err := narrator.NewGemini(ctx, cfg.GeminiAPIKey, cfg.Narrator.Model)
		if err != nil {
			return fmt.Errorf("failed to create narrator: %w", err)
		}
		defer gem.Close()
		n := narrator.New(ctx, gem, name, eng.Data(), logger)
		n.Subscribe(eng.Bus())
		defer n.Close()
		lines = n.Lines()
	}

	if headless {
		logEvents(logger, eng.Bus())
		if lines != nil {
			go func() {
				for line := range lines {
					logger.Printf("narrator: %s", line)
				}
			}()
		}
		if recorded != nil {
			return replay.Run(ctx, eng, recorded.Notifications, cfg.ReplayDelay)
		}
		return replay.Stream(ctx, os.Stdin, eng)
	}

	feed := make(tui.Feed)
	go func() {
		defer close(feed)
		var err error
		if recorded != nil {
			err = replay.Run(ctx, feed, recorded.Notifications, cfg.ReplayDelay)
		} else {
			err = replay.Stream(ctx, os.Stdin, feed)
		}
		if err != nil {
			logger.Printf("feed: %v", err)
		}
	}()

	var opts []tea.ProgramOption
	if recorded == nil {
		// Keys come from the terminal while stdin carries notifications.
		opts = append(opts, tea.WithInputTTY())
	}
	return tui.Run(eng, feed, lines, opts...)
}

// gameName picks the configured game, then the ROM header, then the name
// recorded in the trace.
func gameName(cfg *config.Config, recorded *replay.Trace) (string, error) {
	switch {
	case cfg.Game != "":
		return cfg.Game, nil
	case cfg.ROM != "":
		rom, err := romident.Identify(cfg.ROM)
		if err != nil {
			return "", err
		}
		return rom.Game, nil
	case recorded != nil && recorded.Game != "":
		return recorded.Game, nil
	}
	return "", fmt.Errorf("cannot tell which game is running: set game or rom")
}

// logEvents prints what the dashboard would show. Transitions are already
// logged by the engine.
func logEvents(logger *log.Logger, bus *event.Bus) {
	bus.MapChanged.Watch(func(c event.MapChange) {
		logger.Printf("map %s -> %s", c.Prev, c.Next)
	})
	for name, s := range bus.Signals() {
		s.On(func() { logger.Printf("%s", name) })
	}
}
