package games

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		reported string
		name     string
		family   string
	}{
		{"Pokemon Yellow", "yellow", "gen1"},
		{"POKEMON RED", "red/blue", "gen1"},
		{"pokemon blue", "red/blue", "gen1"},
		{"Pokemon Crystal", "crystal", "gen2"},
		{"Pokemon Gold", "gold/silver", "gen2"},
		{"Pokemon Silver", "gold/silver", "gen2"},
		{"Pokemon Emerald", "emerald", "emerald"},
		{"Pokemon FireRed", "firered", "firered"},
		{"POKEMON FIRE RED", "firered", "firered"},
	}
	for _, tc := range tests {
		g, err := Lookup(tc.reported)
		if err != nil {
			t.Errorf("Lookup(%q) failed: %v", tc.reported, err)
			continue
		}
		if g.Name != tc.name || g.Family != tc.family {
			t.Errorf("Lookup(%q): expected %s/%s, got %s/%s", tc.reported, tc.name, tc.family, g.Name, g.Family)
		}
		if g.Table == nil || g.Initial() == nil {
			t.Errorf("Lookup(%q): expected a table and an initial state", tc.reported)
		}
		if g.Initial().Name() != "Initial" {
			t.Errorf("Lookup(%q): expected Initial, got %s", tc.reported, g.Initial().Name())
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("Tetris")
	if !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Expected ErrUnknownGame, got %v", err)
	}
}

func TestInitialStatesAreFresh(t *testing.T) {
	g, err := Lookup("crystal")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if g.Initial() == g.Initial() {
		t.Errorf("Expected a new state per session")
	}
}
