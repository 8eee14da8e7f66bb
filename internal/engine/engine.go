package engine

import (
	"fmt"
	"io"
	"log"

	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/fsm"
	"github.com/tatianab/pokewatcher/internal/games"
	"github.com/tatianab/pokewatcher/internal/models"
	"github.com/tatianab/pokewatcher/internal/properties"
)

// Engine is one watch session: the game data, the state machine and the
// bus they share. Handle must not be called concurrently.
type Engine struct {
	game    games.Game
	bus     *event.Bus
	data    *models.GameData
	props   *properties.Table
	machine *fsm.Machine
	logger  *log.Logger
}

func NewEngine(game games.Game, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	props, err := properties.Load(game.Family)
	if err != nil {
		return nil, err
	}
	if err := props.Require(game.Table.Vocabulary()); err != nil {
		return nil, fmt.Errorf("%s: %w", game.Name, err)
	}

	data := models.NewGameData()
	maps, err := models.LoadMapTable(game.Family)
	if err != nil {
		return nil, err
	}
	data.Maps = maps
	if err := props.ApplyDefaults(data.Composite); err != nil {
		return nil, err
	}

	bus := event.NewBus()
	data.Changed().Watch(bus.DataChanged.Emit)

	machine := fsm.NewMachine(game.Table, game.Initial(), data, bus, logger)
	machine.Attach()

	return &Engine{
		game:    game,
		bus:     bus,
		data:    data,
		props:   props,
		machine: machine,
		logger:  logger,
	}, nil
}

// Handle applies one notification: the decoded value is stored in the game
// data, then routed to the state machine. Unknown variables are dropped. The
// returned error is the state machine error that ended the session, if any.
func (e *Engine) Handle(n properties.Notification) error {
	if err := e.machine.Err(); err != nil {
		return err
	}
	p, ok := e.props.Lookup(n.Name)
	if !ok {
		return nil
	}
	prev, value, err := p.DecodeNotification(n)
	if err != nil {
		return err
	}
	if value == nil {
		return nil
	}

	if p.Path != "" {
		if err := e.data.Set(p.Path, value); err != nil {
			return fmt.Errorf("store %s: %w", n.Name, err)
		}
	}
	if p.Route {
		e.bus.PropertyChanged.Emit(event.Change{Path: n.Name, Prev: prev, Next: value})
	}
	return e.machine.Err()
}

func (e *Engine) State() fsm.State {
	return e.machine.State()
}

func (e *Engine) Data() *models.GameData {
	return e.data
}

func (e *Engine) Bus() *event.Bus {
	return e.bus
}

func (e *Engine) Game() games.Game {
	return e.game
}

// Err returns the error that stopped the session, if any.
func (e *Engine) Err() error {
	return e.machine.Err()
}
