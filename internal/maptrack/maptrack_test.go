package maptrack

import (
	"testing"

	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/models"
)

func setup(t *testing.T) (*models.GameData, *event.Bus, *[]event.MapChange) {
	t.Helper()
	data := models.NewGameData()
	maps, err := models.LoadMapTable("gen2")
	if err != nil {
		t.Fatalf("LoadMapTable failed: %v", err)
	}
	data.Maps = maps
	bus := event.NewBus()
	var changes []event.MapChange
	bus.MapChanged.Watch(func(c event.MapChange) { changes = append(changes, c) })
	return data, bus, &changes
}

func TestCommitNeedsBothCoordinates(t *testing.T) {
	data, bus, changes := setup(t)
	var tr Tracker

	tr.SetGroup(24)
	if tr.Commit(data, bus) {
		t.Errorf("Expected no commit with only a group")
	}
	if len(*changes) != 0 || data.Location.Get() != "" {
		t.Errorf("Expected no location yet, got %q", data.Location.Get())
	}

	tr.SetNumber(4)
	if !tr.Commit(data, bus) {
		t.Errorf("Expected a commit once both are known")
	}
	if data.Location.Get() != "NEW_BARK/04" {
		t.Errorf("Expected NEW_BARK/04, got %s", data.Location.Get())
	}
	if len(*changes) != 1 || (*changes)[0].Next != "NEW_BARK/04" {
		t.Errorf("Expected one map change, got %+v", *changes)
	}
}

func TestCommitIsIdempotent(t *testing.T) {
	data, bus, changes := setup(t)
	var tr Tracker
	tr.SetGroup(26)
	tr.SetNumber(1)

	tr.Commit(data, bus)
	if tr.Commit(data, bus) {
		t.Errorf("Expected second commit to be a no-op")
	}
	if len(*changes) != 1 {
		t.Errorf("Expected 1 map change, got %d", len(*changes))
	}
	if tr.Dirty() {
		t.Errorf("Expected tracker to be clean")
	}
}

func TestCommitSameLocation(t *testing.T) {
	data, bus, changes := setup(t)
	var tr Tracker
	tr.SetGroup(10)
	tr.SetNumber(2)
	tr.Commit(data, bus)

	tr.SetNumber(2)
	if tr.Commit(data, bus) {
		t.Errorf("Expected no commit when the location is unchanged")
	}
	if len(*changes) != 1 {
		t.Errorf("Expected 1 map change, got %d", len(*changes))
	}
}

func TestReset(t *testing.T) {
	var tr Tracker
	tr.SetGroup(1)
	tr.SetNumber(1)
	tr.Reset()
	if tr.Valid() || tr.Dirty() {
		t.Errorf("Expected an empty tracker after Reset")
	}
}

func TestTickWaitsOneTick(t *testing.T) {
	data, bus, changes := setup(t)
	var tr Tracker
	tr.SetGroup(24)
	tr.SetNumber(1)
	tr.Commit(data, bus)

	tr.SetGroup(26)
	if tr.Tick(data, bus) {
		t.Errorf("Expected the first tick only to age the update")
	}
	tr.SetNumber(3)
	if tr.Tick(data, bus) {
		t.Errorf("Expected a new setter to restart the wait")
	}
	if !tr.Tick(data, bus) {
		t.Errorf("Expected the second tick to commit")
	}
	if len(*changes) != 2 {
		t.Errorf("Expected 2 map changes, got %d", len(*changes))
	}
	if tr.Tick(data, bus) {
		t.Errorf("Expected a clean tracker to ignore ticks")
	}
}
