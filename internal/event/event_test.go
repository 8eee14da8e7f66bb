package event

import (
	"errors"
	"reflect"
	"testing"
)

func TestEmitOrder(t *testing.T) {
	e := New[int]("numbers")
	var got []string
	e.Watch(func(v int) { got = append(got, "a") })
	e.Watch(func(v int) { got = append(got, "b") })
	e.Watch(func(v int) { got = append(got, "c") })

	e.Emit(1)

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestForget(t *testing.T) {
	e := New[int]("numbers")
	var sum int
	s1 := e.Watch(func(v int) { sum += v })
	e.Watch(func(v int) { sum += 10 * v })

	if err := e.Forget(s1); err != nil {
		t.Fatalf("Forget failed: %v", err)
	}
	e.Emit(2)
	if sum != 20 {
		t.Errorf("Expected 20, got %d", sum)
	}

	err := e.Forget(s1)
	if !errors.Is(err, ErrNotSubscribed) {
		t.Errorf("Expected ErrNotSubscribed, got %v", err)
	}
}

func TestEmitUsesSnapshot(t *testing.T) {
	e := New[int]("numbers")
	calls := 0
	var second Subscription
	e.Watch(func(int) {
		calls++
		e.Watch(func(int) { calls += 100 })
		if second != 0 {
			_ = e.Forget(second)
		}
	})
	second = e.Watch(func(int) { calls += 10 })

	e.Emit(0)
	if calls != 11 {
		t.Errorf("Expected 11 calls during first emit, got %d", calls)
	}
}

func TestSignal(t *testing.T) {
	bus := NewBus()
	count := 0
	bus.NewGame.On(func() { count++ })
	bus.NewGame.Fire()
	bus.NewGame.Fire()
	if count != 2 {
		t.Errorf("Expected 2, got %d", count)
	}
	if bus.Continue.Len() != 0 {
		t.Errorf("Expected no subscribers on continue, got %d", bus.Continue.Len())
	}
}

func TestBusSignalNames(t *testing.T) {
	bus := NewBus()
	names := []string{
		"on_new_game", "on_continue", "on_reset", "on_save_game",
		"on_battle_started", "on_battle_ended", "on_champion_victory",
	}
	signals := bus.Signals()
	for _, name := range names {
		if _, ok := signals[name]; !ok {
			t.Errorf("Expected signal %q on bus", name)
		}
	}
	if bus.MapChanged.Name() != "on_map_changed" {
		t.Errorf("Expected on_map_changed, got %s", bus.MapChanged.Name())
	}
}
