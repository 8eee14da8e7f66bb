package observable

import (
	"errors"
	"testing"

	"github.com/tatianab/pokewatcher/internal/event"
)

type record struct {
	*Composite
	Name  *Variable[string]
	Level *Variable[int]
}

func newRecord() *record {
	r := &record{
		Composite: NewComposite(),
		Name:      NewVariable(""),
		Level:     NewVariable(0),
	}
	r.Attach("name", r.Name)
	r.Attach("level", r.Level)
	return r
}

func TestVariableSetNotifies(t *testing.T) {
	v := NewVariable(5)
	var changes []event.Change
	v.Changed().Watch(func(c event.Change) { changes = append(changes, c) })

	v.Set(6)
	v.Set(6)
	v.SetSilent(7)

	if len(changes) != 2 {
		t.Fatalf("Expected 2 changes, got %d", len(changes))
	}
	if changes[0].Prev != 5 || changes[0].Next != 6 {
		t.Errorf("Expected 5 -> 6, got %v -> %v", changes[0].Prev, changes[0].Next)
	}
	if changes[1].Prev != 6 || changes[1].Next != 6 {
		t.Errorf("Expected 6 -> 6, got %v -> %v", changes[1].Prev, changes[1].Next)
	}
	if v.Get() != 7 {
		t.Errorf("Expected 7, got %d", v.Get())
	}
}

func TestCompositePropagatesPath(t *testing.T) {
	root := NewComposite()
	mon := newRecord()
	root.Attach("mon", mon)

	var got []event.Change
	root.Changed().Watch(func(c event.Change) { got = append(got, c) })

	mon.Level.Set(12)
	mon.Name.Set("PIKACHU")

	if len(got) != 2 {
		t.Fatalf("Expected 2 changes, got %d", len(got))
	}
	if got[0].Path != "mon.level" || got[0].Next != 12 {
		t.Errorf("Expected mon.level=12, got %s=%v", got[0].Path, got[0].Next)
	}
	if got[1].Path != "mon.name" || got[1].Prev != "" {
		t.Errorf("Expected mon.name from empty, got %s from %v", got[1].Path, got[1].Prev)
	}
}

func TestCompositeLookupAndSet(t *testing.T) {
	root := NewComposite()
	mon := newRecord()
	root.Attach("mon", mon)

	if err := root.Set("mon.level", int64(30)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if mon.Level.Get() != 30 {
		t.Errorf("Expected 30, got %d", mon.Level.Get())
	}

	v, err := root.Get("mon.name")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != "" {
		t.Errorf("Expected empty name, got %v", v)
	}

	if err := root.Set("mon.level", "thirty"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Expected ErrTypeMismatch, got %v", err)
	}
	if err := root.Set("mon.missing", 1); !errors.Is(err, ErrNoSuchPath) {
		t.Errorf("Expected ErrNoSuchPath, got %v", err)
	}
	if err := root.Set("mon", 1); !errors.Is(err, ErrNotLeaf) {
		t.Errorf("Expected ErrNotLeaf, got %v", err)
	}
	if err := root.Set("mon.level.deeper", 1); !errors.Is(err, ErrNoSuchPath) {
		t.Errorf("Expected ErrNoSuchPath, got %v", err)
	}
}

func TestSetSilentDoesNotPropagate(t *testing.T) {
	root := NewComposite()
	mon := newRecord()
	root.Attach("mon", mon)

	calls := 0
	root.Changed().Watch(func(event.Change) { calls++ })
	if err := root.SetSilent("mon.level", 3); err != nil {
		t.Fatalf("SetSilent failed: %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no notifications, got %d", calls)
	}
	if mon.Level.Get() != 3 {
		t.Errorf("Expected 3, got %d", mon.Level.Get())
	}
}

func TestAttachDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic on duplicate child")
		}
	}()
	c := NewComposite()
	c.Attach("x", NewVariable(0))
	c.Attach("x", NewVariable(0))
}
