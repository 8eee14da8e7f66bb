package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tatianab/pokewatcher/internal/engine"
	"github.com/tatianab/pokewatcher/internal/games"
	"github.com/tatianab/pokewatcher/internal/replay"
	"github.com/tatianab/pokewatcher/internal/tui"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("usage: pokewatcher trace.yaml")
		os.Exit(1)
	}
	if err := start(os.Args[1]); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func start(path string) error {
	trace, err := replay.Load(path)
	if err != nil {
		return err
	}
	game, err := games.Lookup(trace.Game)
	if err != nil {
		return err
	}
	eng, err := engine.NewEngine(game, nil)
	if err != nil {
		return err
	}

	feed := make(tui.Feed)
	go func() {
		defer close(feed)
		replay.Run(context.Background(), feed, trace.Notifications, 0)
	}()
	return tui.Run(eng, feed, nil)
}
