package fsm

import (
	"errors"
	"log"

	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/models"
)

// Machine holds the current state of one game and swaps it on every handled
// variable. It is driven by a single caller; it does no locking.
type Machine struct {
	table  *Table
	state  State
	data   *models.GameData
	bus    *event.Bus
	logger *log.Logger

	err error
	sub event.Subscription
}

// NewMachine creates a machine in initial. A nil logger discards transition logs.
func NewMachine(table *Table, initial State, data *models.GameData, bus *event.Bus, logger *log.Logger) *Machine {
	return &Machine{
		table:  table,
		state:  initial,
		data:   data,
		bus:    bus,
		logger: logger,
	}
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Table() *Table {
	return m.table
}

// Err returns the error that stopped the machine, if any.
func (m *Machine) Err() error {
	return m.err
}

// Dispatch feeds one variable change to the current state.
func (m *Machine) Dispatch(v Var, prev, value any) error {
	h, outcome := m.table.Resolve(m.state, v)
	if outcome != Handled {
		return nil
	}

	current := m.state
	next, err := h(current, Transition{Var: v, Prev: prev, Value: value, Data: m.data, Bus: m.bus})
	if err != nil {
		var sme *StateMachineError
		if errors.As(err, &sme) && sme.Game == "" {
			sme.Game = m.table.Game()
		}
		return err
	}
	if next == nil {
		return &StateMachineError{
			Game:   m.table.Game(),
			State:  current.Name(),
			Var:    v,
			Prev:   prev,
			Value:  value,
			Reason: "handler returned no state",
			cause:  ErrNilState,
		}
	}
	if next != current {
		m.state = next
		if m.logger != nil {
			m.logger.Printf("[%s] %s -> %s (%s)", m.table.Game(), current.Name(), next.Name(), v)
		}
		m.bus.StateChanged.Emit(event.Transition{
			Game: m.table.Game(),
			From: current.Name(),
			To:   next.Name(),
			Var:  string(v),
		})
	}
	return nil
}

// Attach subscribes the machine to bus.PropertyChanged. The first error stops
// further dispatching and is reported by Err.
func (m *Machine) Attach() {
	m.sub = m.bus.PropertyChanged.Watch(func(c event.Change) {
		if m.err != nil {
			return
		}
		m.err = m.Dispatch(Var(c.Path), c.Prev, c.Next)
	})
}

// Detach undoes Attach.
func (m *Machine) Detach() error {
	if m.sub == 0 {
		return nil
	}
	err := m.bus.PropertyChanged.Forget(m.sub)
	m.sub = 0
	return err
}
