package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/tatianab/pokewatcher/internal/engine"
	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/games"
	"github.com/tatianab/pokewatcher/internal/replay"
)

//go:embed traces/*.yaml
var traces embed.FS

func main() {
	name := flag.String("game", "crystal", "Recorded session to play: yellow, crystal or emerald")
	delay := flag.Duration("delay", 0, "Pause between notifications")
	flag.Parse()

	raw, err := traces.ReadFile("traces/" + *name + ".yaml")
	if err != nil {
		log.Fatalf("No recorded session for %q", *name)
	}
	trace, err := replay.Parse(raw)
	if err != nil {
		log.Fatalf("Failed to parse trace: %v", err)
	}

	game, err := games.Lookup(trace.Game)
	if err != nil {
		log.Fatalf("Failed to find game: %v", err)
	}
	eng, err := engine.NewEngine(game, log.New(os.Stdout, "      ", 0))
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	printEvents(eng.Bus())

	fmt.Printf("--- Replaying %d notifications for %s ---\n", len(trace.Notifications), game.Name)
	start := time.Now()
	err = replay.Run(context.Background(), eng, trace.Notifications, *delay)
	fmt.Printf("--- Done in %s ---\n", time.Since(start).Round(time.Millisecond))
	if err != nil {
		fmt.Printf("Session stopped: %v\n", err)
		os.Exit(1)
	}

	snap := eng.Data().Snapshot()
	fmt.Printf("State: %s\n", eng.State().Name())
	fmt.Printf("Player: %s (ID %d), money %d, %d badges\n", snap.Name, snap.ID, snap.Money, snap.Badges)
	fmt.Printf("Location: %s\n", snap.Location)
	for _, mon := range snap.Team {
		fmt.Printf("  %s L%d\n", mon.Species, mon.Level)
	}
}

func printEvents(bus *event.Bus) {
	signals := bus.Signals()
	names := make([]string, 0, len(signals))
	for name := range signals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		signals[name].On(func() { fmt.Printf("EVENT %s\n", name) })
	}
	bus.MapChanged.Watch(func(c event.MapChange) {
		fmt.Printf("EVENT on_map_changed %q -> %q\n", c.Prev, c.Next)
	})
	bus.DataChanged.Watch(func(c event.Change) {
		fmt.Printf("      %s: %v -> %v\n", c.Path, c.Prev, c.Next)
	})
}
