package models

// MonSnapshot is a plain copy of one party member.
type MonSnapshot struct {
	Species string   `yaml:"species"`
	Dex     int      `yaml:"dex,omitempty"`
	Level   int      `yaml:"level"`
	Moves   []string `yaml:"moves,omitempty"`
}

// Snapshot is a plain, serializable summary of the game data.
type Snapshot struct {
	Name     string        `yaml:"name"`
	ID       int           `yaml:"id"`
	Money    int           `yaml:"money"`
	Badges   int           `yaml:"badges"`
	PlayTime string        `yaml:"play_time"`
	Location string        `yaml:"location"`
	Team     []MonSnapshot `yaml:"team,omitempty"`
}

func (g *GameData) Snapshot() Snapshot {
	s := Snapshot{
		Name:     g.Player.Name.Get(),
		ID:       g.Player.ID.Get(),
		Money:    g.Player.Money.Get(),
		Badges:   g.Player.Badges.Count(),
		PlayTime: g.Time.String(),
		Location: g.Location.Get(),
	}
	for _, mon := range g.Player.Team.Members() {
		m := MonSnapshot{
			Species: mon.Species.Get(),
			Dex:     g.Dex.Number(mon.Species.Get()),
			Level:   mon.Level.Get(),
		}
		for _, move := range mon.Moves {
			if mv := move.Get(); mv != "" {
				m.Moves = append(m.Moves, mv)
			}
		}
		s.Team = append(s.Team, m)
	}
	return s
}
