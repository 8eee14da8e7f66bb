// Package fsmtest drives a game table in tests without the property layer.
package fsmtest

import (
	"testing"

	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/fsm"
	"github.com/tatianab/pokewatcher/internal/models"
)

// Harness is a machine plus counters for every game event it emits.
type Harness struct {
	t       *testing.T
	Machine *fsm.Machine
	Data    *models.GameData
	Bus     *event.Bus

	Fired map[string]int
	Maps  []event.MapChange
	Moves []event.Transition

	last map[fsm.Var]any
}

// New starts a machine for table in initial. family selects the map table;
// an empty family leaves it empty.
func New(t *testing.T, table *fsm.Table, initial fsm.State, family string) *Harness {
	t.Helper()
	data := models.NewGameData()
	if family != "" {
		maps, err := models.LoadMapTable(family)
		if err != nil {
			t.Fatalf("LoadMapTable(%s) failed: %v", family, err)
		}
		data.Maps = maps
	}
	bus := event.NewBus()
	h := &Harness{
		t:       t,
		Machine: fsm.NewMachine(table, initial, data, bus, nil),
		Data:    data,
		Bus:     bus,
		Fired:   make(map[string]int),
		last:    make(map[fsm.Var]any),
	}
	for name, s := range bus.Signals() {
		s.On(func() { h.Fired[name]++ })
	}
	bus.MapChanged.Watch(func(c event.MapChange) { h.Maps = append(h.Maps, c) })
	bus.StateChanged.Watch(func(tr event.Transition) { h.Moves = append(h.Moves, tr) })
	return h
}

// Feed reports v moving from its last fed value to value and fails the test
// on error.
func (h *Harness) Feed(v fsm.Var, value any) {
	h.t.Helper()
	if err := h.Try(v, value); err != nil {
		h.t.Fatalf("Dispatch %s = %v failed: %v", v, value, err)
	}
}

// Try is Feed returning the dispatch error.
func (h *Harness) Try(v fsm.Var, value any) error {
	prev := h.last[v]
	h.last[v] = value
	return h.Machine.Dispatch(v, prev, value)
}

// Seed records value as the last reported value of v without dispatching.
func (h *Harness) Seed(v fsm.Var, value any) {
	h.last[v] = value
}

// Expect fails unless the machine is in the named state.
func (h *Harness) Expect(state string) {
	h.t.Helper()
	if got := h.Machine.State().Name(); got != state {
		h.t.Fatalf("Expected state %s, got %s", state, got)
	}
}

// Count returns how often the named signal fired.
func (h *Harness) Count(name string) int {
	return h.Fired[name]
}
