package event

// Change describes a value replacement somewhere in the data model, or a raw
// property change reported by the memory-watch bridge.
type Change struct {
	Path string
	Prev any
	Next any
}

// MapChange is the payload of Bus.MapChanged.
type MapChange struct {
	Prev string
	Next string
}

// Transition is the payload of Bus.StateChanged.
type Transition struct {
	Game string
	From string
	To   string
	Var  string
}

// Bus holds every event channel of one watch session. Components receive the
// bus explicitly instead of relying on package-level singletons.
type Bus struct {
	// PropertyChanged carries raw routed properties, Path being the variable name.
	PropertyChanged *Event[Change]
	// DataChanged carries every leaf mutation of the game data with its full path.
	DataChanged *Event[Change]
	StateChanged *Event[Transition]
	MapChanged   *Event[MapChange]

	NewGame         Signal
	Continue        Signal
	Reset           Signal
	SaveGame        Signal
	BattleStarted   Signal
	BattleEnded     Signal
	ChampionVictory Signal
}

// NewBus creates a bus with no subscribers.
func NewBus() *Bus {
	return &Bus{
		PropertyChanged: New[Change]("on_property_changed"),
		DataChanged:     New[Change]("on_data_changed"),
		StateChanged:    New[Transition]("on_state_changed"),
		MapChanged:      New[MapChange]("on_map_changed"),

		NewGame:         NewSignal("on_new_game"),
		Continue:        NewSignal("on_continue"),
		Reset:           NewSignal("on_reset"),
		SaveGame:        NewSignal("on_save_game"),
		BattleStarted:   NewSignal("on_battle_started"),
		BattleEnded:     NewSignal("on_battle_ended"),
		ChampionVictory: NewSignal("on_champion_victory"),
	}
}

// Signals returns the payload-free game events keyed by name.
func (b *Bus) Signals() map[string]Signal {
	return map[string]Signal{
		b.NewGame.Name():         b.NewGame,
		b.Continue.Name():        b.Continue,
		b.Reset.Name():           b.Reset,
		b.SaveGame.Name():        b.SaveGame,
		b.BattleStarted.Name():   b.BattleStarted,
		b.BattleEnded.Name():     b.BattleEnded,
		b.ChampionVictory.Name(): b.ChampionVictory,
	}
}
