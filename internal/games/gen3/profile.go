package gen3

import (
	"slices"

	"github.com/tatianab/pokewatcher/internal/fsm"
	"github.com/tatianab/pokewatcher/internal/maptrack"
)

// Profile holds the callback names and trainer classes that differ between
// the two games. Everything else is shared.
type Profile struct {
	Game   string
	Family string

	MainMenu    []string
	NewGame     string
	Continue    string
	Intro       []string
	Overworld   string
	BattleStart []string

	ChampionClasses []string
}

func (p *Profile) isMainMenu(v any) bool    { return slices.Contains(p.MainMenu, fsm.String(v)) }
func (p *Profile) isIntro(v any) bool       { return slices.Contains(p.Intro, fsm.String(v)) }
func (p *Profile) isBattleStart(v any) bool { return slices.Contains(p.BattleStart, fsm.String(v)) }
func (p *Profile) isOverworld(v any) bool   { return fsm.String(v) == p.Overworld }

func (p *Profile) isChampion(class string) bool {
	return slices.Contains(p.ChampionClasses, class)
}

// Version is one supported gen3 game: its profile and dispatch table.
type Version struct {
	Profile
	table *fsm.Table
}

func newVersion(p Profile) *Version {
	v := &Version{Profile: p}
	v.table = newTable(p.Game)
	return v
}

func (v *Version) Table() *fsm.Table {
	return v.table
}

// NewInitial returns the state a fresh session starts in.
func (v *Version) NewInitial() fsm.State {
	return &Initial{&session{profile: &v.Profile, maps: &maptrack.Tracker{}}}
}

var Emerald = newVersion(Profile{
	Game:            "emerald",
	Family:          "emerald",
	MainMenu:        []string{"CB2_InitMainMenu", "CB2_MainMenu"},
	NewGame:         "CB2_NewGame",
	Continue:        "CB2_ContinueSavedGame",
	Intro:           []string{"MainCB2_Intro", "CB2_InitCopyrightScreenAfterBootup"},
	Overworld:       "CB1_Overworld",
	BattleStart:     []string{"CB2_InitBattle", "BattleMainCB2"},
	ChampionClasses: []string{"CHAMPION"},
})

var FireRed = newVersion(Profile{
	Game:            "firered",
	Family:          "firered",
	MainMenu:        []string{"CB2_InitMainMenu", "CB2_MainMenu"},
	NewGame:         "CB2_NewGame",
	Continue:        "CB2_ContinueSavedGame",
	Intro:           []string{"CB2_InitCopyrightScreenAfterBootup", "CB2_CopyrightScreen"},
	Overworld:       "CB1_Overworld",
	BattleStart:     []string{"CB2_InitBattle", "BattleMainCB2"},
	ChampionClasses: []string{"CHAMPION"},
})
