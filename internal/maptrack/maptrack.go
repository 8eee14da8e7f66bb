// Package maptrack turns two independently reported map coordinates (group
// and number) into one location string.
//
// The coordinates never arrive atomically. Setters only record a value and
// mark the tracker dirty; Commit resolves the pair once per dirty period, so a
// half-updated pair is never published twice.
package maptrack

import (
	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/models"
)

type Tracker struct {
	group      int
	number     int
	seenGroup  bool
	seenNumber bool
	dirty      bool
	// aged is set once a pending update has outlived a clock tick.
	aged bool
}

func (t *Tracker) SetGroup(group int) {
	t.group = group
	t.seenGroup = true
	t.dirty = true
	t.aged = false
}

func (t *Tracker) SetNumber(number int) {
	t.number = number
	t.seenNumber = true
	t.dirty = true
	t.aged = false
}

// Valid reports whether both coordinates have been seen at least once.
func (t *Tracker) Valid() bool {
	return t.seenGroup && t.seenNumber
}

func (t *Tracker) Dirty() bool {
	return t.dirty
}

func (t *Tracker) Coordinates() (group, number int) {
	return t.group, t.number
}

// Commit writes the resolved location into data and emits MapChanged. It
// does nothing when the tracker is clean or not yet valid, and it clears
// the dirty flag without emitting when the location did not change.
func (t *Tracker) Commit(data *models.GameData, bus *event.Bus) bool {
	if !t.dirty || !t.Valid() {
		return false
	}
	t.dirty = false
	t.aged = false

	next := data.Maps.Name(t.group, t.number)
	prev := data.Location.Get()
	if next == prev {
		return false
	}
	data.Location.Set(next)
	bus.MapChanged.Emit(event.MapChange{Prev: prev, Next: next})
	return true
}

// Tick commits an update that has been pending for a whole clock tick. The
// first tick after a setter only ages it, so a tick landing between the
// group and number writes never publishes the half-updated pair.
func (t *Tracker) Tick(data *models.GameData, bus *event.Bus) bool {
	if !t.dirty {
		return false
	}
	if !t.aged {
		t.aged = true
		return false
	}
	return t.Commit(data, bus)
}

// Reset forgets both coordinates, as after a console reset.
func (t *Tracker) Reset() {
	*t = Tracker{}
}
