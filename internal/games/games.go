// Package games binds a reported game name to its state machine.
package games

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tatianab/pokewatcher/internal/fsm"
	"github.com/tatianab/pokewatcher/internal/games/gen1"
	"github.com/tatianab/pokewatcher/internal/games/gen2"
	"github.com/tatianab/pokewatcher/internal/games/gen3"
)

var ErrUnknownGame = errors.New("unknown game")

// Game is a supported game: the table driving it and its starting state.
// Family names the property table and the map table it uses.
type Game struct {
	Name    string
	Family  string
	Table   *fsm.Table
	Initial func() fsm.State
}

type candidate struct {
	keys []string
	game Game
}

// Checked in order: "firered" contains "red" and must win over Red/Blue.
var candidates = []candidate{
	{[]string{"firered", "fire red"}, Game{"firered", "firered", gen3.FireRed.Table(), gen3.FireRed.NewInitial}},
	{[]string{"emerald"}, Game{"emerald", "emerald", gen3.Emerald.Table(), gen3.Emerald.NewInitial}},
	{[]string{"yellow"}, Game{"yellow", "gen1", gen1.Table, gen1.NewInitial}},
	{[]string{"crystal"}, Game{"crystal", "gen2", gen2.Table, gen2.NewInitial}},
	{[]string{"gold", "silver"}, Game{"gold/silver", "gen2", gen2.Table, gen2.NewInitial}},
	{[]string{"red", "blue"}, Game{"red/blue", "gen1", gen1.Table, gen1.NewInitial}},
}

// Lookup finds the game whose name appears in reported, case-insensitively.
func Lookup(reported string) (Game, error) {
	name := strings.ToLower(reported)
	for _, c := range candidates {
		for _, k := range c.keys {
			if strings.Contains(name, k) {
				return c.game, nil
			}
		}
	}
	return Game{}, fmt.Errorf("%w: %q", ErrUnknownGame, reported)
}

// Names lists the supported games.
func Names() []string {
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.game.Name)
	}
	return names
}
