package models

import "github.com/tatianab/pokewatcher/internal/observable"

// BattleMon is the active mon on one side of a battle. Stat stages start at
// zero; the property tables give them a default so they read as zero before
// the bridge reports them.
type BattleMon struct {
	*observable.Composite
	Species       *observable.Variable[string]
	Level         *observable.Variable[int]
	HP            *observable.Variable[int]
	AttackStage   *observable.Variable[int]
	DefenseStage  *observable.Variable[int]
	SpeedStage    *observable.Variable[int]
	SpecialStage  *observable.Variable[int]
	AccuracyStage *observable.Variable[int]
	EvasionStage  *observable.Variable[int]
}

func newBattleMon() *BattleMon {
	m := &BattleMon{
		Composite:     observable.NewComposite(),
		Species:       observable.NewVariable(""),
		Level:         observable.NewVariable(0),
		HP:            observable.NewVariable(0),
		AttackStage:   observable.NewVariable(0),
		DefenseStage:  observable.NewVariable(0),
		SpeedStage:    observable.NewVariable(0),
		SpecialStage:  observable.NewVariable(0),
		AccuracyStage: observable.NewVariable(0),
		EvasionStage:  observable.NewVariable(0),
	}
	m.Attach("species", m.Species)
	m.Attach("level", m.Level)
	m.Attach("hp", m.HP)
	m.Attach("attack_stage", m.AttackStage)
	m.Attach("defense_stage", m.DefenseStage)
	m.Attach("speed_stage", m.SpeedStage)
	m.Attach("special_stage", m.SpecialStage)
	m.Attach("accuracy_stage", m.AccuracyStage)
	m.Attach("evasion_stage", m.EvasionStage)
	return m
}

// Trainer describes the opponent of a trainer battle. Class is empty in wild
// battles.
type Trainer struct {
	*observable.Composite
	Class *observable.Variable[string]
	ID    *observable.Variable[int]
	Name  *observable.Variable[string]
	Team  *Team
}

func newTrainer() *Trainer {
	t := &Trainer{
		Composite: observable.NewComposite(),
		Class:     observable.NewVariable(""),
		ID:        observable.NewVariable(0),
		Name:      observable.NewVariable(""),
		Team:      newTeam(),
	}
	t.Attach("class", t.Class)
	t.Attach("id", t.ID)
	t.Attach("name", t.Name)
	t.Attach("team", t.Team)
	return t
}

type BattleData struct {
	*observable.Composite
	Ongoing *observable.Variable[bool]
	Result  *observable.Variable[BattleResult]
	VsWild  *observable.Variable[bool]
	Player  *BattleMon
	Enemy   *BattleMon
	Trainer *Trainer
}

func newBattleData() *BattleData {
	b := &BattleData{
		Composite: observable.NewComposite(),
		Ongoing:   observable.NewVariable(false),
		Result:    observable.NewVariable(ResultNone),
		VsWild:    observable.NewVariable(false),
		Player:    newBattleMon(),
		Enemy:     newBattleMon(),
		Trainer:   newTrainer(),
	}
	b.Attach("ongoing", b.Ongoing)
	b.Attach("result", b.Result)
	b.Attach("is_vs_wild", b.VsWild)
	b.Attach("player", b.Player)
	b.Attach("enemy", b.Enemy)
	b.Attach("trainer", b.Trainer)
	return b
}

// SetWildBattle starts a battle against a wild mon.
func (b *BattleData) SetWildBattle() {
	b.start(true)
}

// SetTrainerBattle starts a battle against the trainer already stored in
// Trainer.
func (b *BattleData) SetTrainerBattle() {
	b.start(false)
}

func (b *BattleData) start(wild bool) {
	b.Result.Set(ResultNone)
	b.VsWild.Set(wild)
	b.Ongoing.Set(true)
}

func (b *BattleData) IsTrainerBattle() bool {
	return b.Ongoing.Get() && !b.VsWild.Get()
}

func (b *BattleData) SetVictory() {
	b.Result.Set(ResultWin)
}

func (b *BattleData) SetDefeat() {
	b.Result.Set(ResultLose)
}

func (b *BattleData) SetDraw() {
	b.Result.Set(ResultDraw)
}

// End marks the battle as finished, keeping its result.
func (b *BattleData) End() {
	b.Ongoing.Set(false)
}

// Finish records the result and ends the battle in one step.
func (b *BattleData) Finish(r BattleResult) {
	b.Result.Set(r)
	b.End()
}
