package models

import (
	"fmt"
	"strconv"

	"github.com/tatianab/pokewatcher/internal/observable"
)

const (
	TeamSize   = 6
	MoveSlots  = 4
	BadgeCount = 8
)

// BattleResult is the normalized outcome of a battle.
type BattleResult int

const (
	ResultNone BattleResult = iota
	ResultWin
	ResultDraw
	ResultLose
)

func (r BattleResult) String() string {
	switch r {
	case ResultWin:
		return "win"
	case ResultDraw:
		return "draw"
	case ResultLose:
		return "lose"
	default:
		return "none"
	}
}

// Stats are the computed stats of a party member. Gen 1 only fills SpAttack.
type Stats struct {
	*observable.Composite
	HP        *observable.Variable[int]
	MaxHP     *observable.Variable[int]
	Attack    *observable.Variable[int]
	Defense   *observable.Variable[int]
	Speed     *observable.Variable[int]
	SpAttack  *observable.Variable[int]
	SpDefense *observable.Variable[int]
}

func newStats() *Stats {
	s := &Stats{
		Composite: observable.NewComposite(),
		HP:        observable.NewVariable(0),
		MaxHP:     observable.NewVariable(0),
		Attack:    observable.NewVariable(0),
		Defense:   observable.NewVariable(0),
		Speed:     observable.NewVariable(0),
		SpAttack:  observable.NewVariable(0),
		SpDefense: observable.NewVariable(0),
	}
	s.Attach("hp", s.HP)
	s.Attach("max_hp", s.MaxHP)
	s.Attach("attack", s.Attack)
	s.Attach("defense", s.Defense)
	s.Attach("speed", s.Speed)
	s.Attach("sp_attack", s.SpAttack)
	s.Attach("sp_defense", s.SpDefense)
	return s
}

// PartyMon is one slot of a team.
type PartyMon struct {
	*observable.Composite
	Species *observable.Variable[string]
	Level   *observable.Variable[int]
	Moves   [MoveSlots]*observable.Variable[string]
	Stats   *Stats
}

func newPartyMon() *PartyMon {
	m := &PartyMon{
		Composite: observable.NewComposite(),
		Species:   observable.NewVariable(""),
		Level:     observable.NewVariable(0),
		Stats:     newStats(),
	}
	moves := observable.NewComposite()
	for i := range m.Moves {
		m.Moves[i] = observable.NewVariable("")
		moves.Attach(strconv.Itoa(i), m.Moves[i])
	}
	m.Attach("species", m.Species)
	m.Attach("level", m.Level)
	m.Attach("moves", moves)
	m.Attach("stats", m.Stats)
	return m
}

// Team holds up to six party members, addressed as "team.0" to "team.5".
type Team struct {
	*observable.Composite
	Size  *observable.Variable[int]
	Slots [TeamSize]*PartyMon
}

func newTeam() *Team {
	t := &Team{
		Composite: observable.NewComposite(),
		Size:      observable.NewVariable(0),
	}
	t.Attach("size", t.Size)
	for i := range t.Slots {
		t.Slots[i] = newPartyMon()
		t.Attach(strconv.Itoa(i), t.Slots[i])
	}
	return t
}

// Members returns the occupied slots.
func (t *Team) Members() []*PartyMon {
	n := t.Size.Get()
	if n > TeamSize {
		n = TeamSize
	}
	if n < 0 {
		n = 0
	}
	return t.Slots[:n]
}

type Badges struct {
	*observable.Composite
	Flags [BadgeCount]*observable.Variable[bool]
}

func newBadges() *Badges {
	b := &Badges{Composite: observable.NewComposite()}
	for i := range b.Flags {
		b.Flags[i] = observable.NewVariable(false)
		b.Attach(strconv.Itoa(i), b.Flags[i])
	}
	return b
}

func (b *Badges) Count() int {
	n := 0
	for _, f := range b.Flags {
		if f.Get() {
			n++
		}
	}
	return n
}

type Player struct {
	*observable.Composite
	Name   *observable.Variable[string]
	ID     *observable.Variable[int]
	Money  *observable.Variable[int]
	Badges *Badges
	Team   *Team
}

func newPlayer() *Player {
	p := &Player{
		Composite: observable.NewComposite(),
		Name:      observable.NewVariable(""),
		ID:        observable.NewVariable(0),
		Money:     observable.NewVariable(0),
		Badges:    newBadges(),
		Team:      newTeam(),
	}
	p.Attach("name", p.Name)
	p.Attach("id", p.ID)
	p.Attach("money", p.Money)
	p.Attach("badges", p.Badges)
	p.Attach("team", p.Team)
	return p
}

// GameTime is the in-game play time.
type GameTime struct {
	*observable.Composite
	Hours   *observable.Variable[int]
	Minutes *observable.Variable[int]
	Seconds *observable.Variable[int]
	Frames  *observable.Variable[int]
}

func newGameTime() *GameTime {
	t := &GameTime{
		Composite: observable.NewComposite(),
		Hours:     observable.NewVariable(0),
		Minutes:   observable.NewVariable(0),
		Seconds:   observable.NewVariable(0),
		Frames:    observable.NewVariable(0),
	}
	t.Attach("hours", t.Hours)
	t.Attach("minutes", t.Minutes)
	t.Attach("seconds", t.Seconds)
	t.Attach("frames", t.Frames)
	return t
}

func (t *GameTime) IsZero() bool {
	return t.Hours.Get() == 0 && t.Minutes.Get() == 0 && t.Seconds.Get() == 0 && t.Frames.Get() == 0
}

func (t *GameTime) String() string {
	return fmt.Sprintf("%d:%02d:%02d.%02d", t.Hours.Get(), t.Minutes.Get(), t.Seconds.Get(), t.Frames.Get())
}

// GameData is the root of the observable tree for one watch session.
type GameData struct {
	*observable.Composite
	Player   *Player
	Time     *GameTime
	Location *observable.Variable[string]
	Battle   *BattleData

	// Static lookup tables, not observable.
	Dex  *Dex
	Maps *MapTable
}

// NewGameData builds an empty tree with the national dex and no map table.
func NewGameData() *GameData {
	g := &GameData{
		Composite: observable.NewComposite(),
		Player:    newPlayer(),
		Time:      newGameTime(),
		Location:  observable.NewVariable(""),
		Battle:    newBattleData(),
		Dex:       NationalDex(),
		Maps:      &MapTable{},
	}
	g.Attach("player", g.Player)
	g.Attach("time", g.Time)
	g.Attach("location", g.Location)
	g.Attach("battle", g.Battle)
	return g
}
