// Package fsm is the generic shell shared by every per-game state machine.
//
// A game declares its vocabulary, the closed set of raw variables its graph
// cares about, and registers handlers per (state type, variable). Resolving a
// variable for the current state has three outcomes:
//
//   - Undeclared: the variable is not part of the vocabulary and is dropped.
//   - Inert: declared, but the current state has no handler. This is a no-op
//     that keeps the same state object and touches nothing.
//   - Handled: the handler runs and returns the next state.
//
// Transitions that must never happen are not inferred from a missing handler.
// A state that wants to assert one registers a handler returning a
// *StateMachineError, before mutating anything.
package fsm

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/models"
)

// Var is the raw name of a memory variable, e.g. "wPlayerName".
type Var string

// State is one node of a game's graph. Implementations are pointer types
// whose Name is constant for the type.
type State interface {
	Name() string
}

// Transition is what a handler receives.
type Transition struct {
	Var   Var
	Prev  any
	Value any
	Data  *models.GameData
	Bus   *event.Bus
}

// HandlerFunc computes the next state. It returns s itself when nothing
// changes and never returns a nil state without an error.
type HandlerFunc func(s State, t Transition) (State, error)

// Outcome classifies how a variable resolves for a state.
type Outcome int

const (
	Undeclared Outcome = iota
	Inert
	Handled
)

func (o Outcome) String() string {
	switch o {
	case Inert:
		return "inert"
	case Handled:
		return "handled"
	default:
		return "undeclared"
	}
}

// Table is the dispatch table of one game.
type Table struct {
	game     string
	vocab    map[Var]struct{}
	handlers map[reflect.Type]map[Var]HandlerFunc
}

// NewTable creates a table for game declaring vocab.
func NewTable(game string, vocab ...Var) *Table {
	t := &Table{
		game:     game,
		vocab:    make(map[Var]struct{}, len(vocab)),
		handlers: make(map[reflect.Type]map[Var]HandlerFunc),
	}
	for _, v := range vocab {
		t.vocab[v] = struct{}{}
	}
	return t
}

func (t *Table) Game() string {
	return t.game
}

// Declares reports whether v belongs to the vocabulary.
func (t *Table) Declares(v Var) bool {
	_, ok := t.vocab[v]
	return ok
}

// Vocabulary returns the declared variables, sorted.
func (t *Table) Vocabulary() []Var {
	vars := make([]Var, 0, len(t.vocab))
	for v := range t.vocab {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}

// Register adds h for the type of the prototype state. Registering an
// undeclared variable or the same pair twice panics: tables are built at
// package init and such mistakes must not survive to runtime.
func (t *Table) Register(prototype State, v Var, h HandlerFunc) *Table {
	if !t.Declares(v) {
		panic(fmt.Sprintf("fsm: %s: %s handles undeclared variable %s", t.game, prototype.Name(), v))
	}
	typ := reflect.TypeOf(prototype)
	byVar, ok := t.handlers[typ]
	if !ok {
		byVar = make(map[Var]HandlerFunc)
		t.handlers[typ] = byVar
	}
	if _, dup := byVar[v]; dup {
		panic(fmt.Sprintf("fsm: %s: duplicate handler %s.%s", t.game, prototype.Name(), v))
	}
	byVar[v] = h
	return t
}

// On registers a typed handler, typically a method expression such as
// (*MainMenu).onPlayerID.
func On[S State](t *Table, v Var, fn func(S, Transition) (State, error)) *Table {
	var prototype S
	return t.Register(prototype, v, func(s State, tr Transition) (State, error) {
		return fn(s.(S), tr)
	})
}

// Resolve finds the handler of v for state.
func (t *Table) Resolve(state State, v Var) (HandlerFunc, Outcome) {
	if !t.Declares(v) {
		return nil, Undeclared
	}
	h, ok := t.handlers[reflect.TypeOf(state)][v]
	if !ok {
		return nil, Inert
	}
	return h, Handled
}

// Handles lists the variables state has handlers for, sorted.
func (t *Table) Handles(state State) []Var {
	byVar := t.handlers[reflect.TypeOf(state)]
	vars := make([]Var, 0, len(byVar))
	for v := range byVar {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}
