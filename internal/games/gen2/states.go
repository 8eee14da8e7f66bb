package gen2

import (
	"slices"

	"github.com/tatianab/pokewatcher/internal/fsm"
	"github.com/tatianab/pokewatcher/internal/maptrack"
	"github.com/tatianab/pokewatcher/internal/models"
)

// session is shared by every state of one run so the map coordinates survive
// state changes.
type session struct {
	maps *maptrack.Tracker
}

func (s *session) shared() *session { return s }

func (s *session) recordGroup(t fsm.Transition) {
	s.maps.SetGroup(fsm.Int(t.Value))
}

func (s *session) recordNumber(t fsm.Transition) {
	s.maps.SetNumber(fsm.Int(t.Value))
}

type Initial struct{ *session }

func (*Initial) Name() string { return "Initial" }

func (s *Initial) onPlayerName(t fsm.Transition) (fsm.State, error) {
	if fsm.String(t.Value) != "" {
		return &MainMenu{s.session}, nil
	}
	return s, nil
}

type MainMenu struct{ *session }

func (*MainMenu) Name() string { return "MainMenu" }

func (s *MainMenu) onPlayerName(t fsm.Transition) (fsm.State, error) {
	if fsm.String(t.Value) == "" {
		return &Initial{s.session}, nil
	}
	return s, nil
}

func (s *MainMenu) onSaveFileExists(t fsm.Transition) (fsm.State, error) {
	if fsm.Bool(t.Value) {
		return &ContinueDetection{session: s.session}, nil
	}
	return s, nil
}

func (s *MainMenu) onPlayerID(t fsm.Transition) (fsm.State, error) {
	if fsm.Int(t.Prev) == 0 && fsm.Int(t.Value) != 0 {
		t.Bus.NewGame.Fire()
		return &Overworld{s.session}, nil
	}
	return s, nil
}

// ContinueDetection waits for the saved map and a ticking clock before it
// believes the player chose CONTINUE.
type ContinueDetection struct {
	*session
	sawMap  bool
	sawTime bool
}

func (*ContinueDetection) Name() string { return "ContinueDetection" }

func (s *ContinueDetection) onPlayerName(t fsm.Transition) (fsm.State, error) {
	if fsm.String(t.Value) == "" {
		return &Initial{s.session}, nil
	}
	return s, nil
}

func (s *ContinueDetection) onSaveFileExists(t fsm.Transition) (fsm.State, error) {
	if !fsm.Bool(t.Value) {
		return &MainMenu{s.session}, nil
	}
	return s, nil
}

func (s *ContinueDetection) onPlayerID(t fsm.Transition) (fsm.State, error) {
	prev, id := fsm.Int(t.Prev), fsm.Int(t.Value)
	// A saved ID only ever loads over zero. Any other change is a new one.
	if prev != 0 && id != 0 && prev != id {
		t.Bus.NewGame.Fire()
		return &Overworld{s.session}, nil
	}
	return s, nil
}

func (s *ContinueDetection) onMapGroup(t fsm.Transition) (fsm.State, error) {
	s.recordGroup(t)
	return s.corroborate(t)
}

func (s *ContinueDetection) onMapNumber(t fsm.Transition) (fsm.State, error) {
	s.recordNumber(t)
	return s.corroborate(t)
}

func (s *ContinueDetection) onGameTime(t fsm.Transition) (fsm.State, error) {
	if fsm.Reported(t.Prev) && fsm.Int(t.Value) != fsm.Int(t.Prev) {
		s.sawTime = true
	}
	return s.corroborate(t)
}

func (s *ContinueDetection) corroborate(t fsm.Transition) (fsm.State, error) {
	s.sawMap = s.sawMap || s.maps.Valid()
	if !s.sawMap || !s.sawTime {
		return s, nil
	}
	t.Bus.Continue.Fire()
	s.maps.Commit(t.Data, t.Bus)
	return &Overworld{s.session}, nil
}

type Overworld struct{ *session }

func (*Overworld) Name() string { return "Overworld" }

func (s *Overworld) onMapGroup(t fsm.Transition) (fsm.State, error) {
	s.recordGroup(t)
	return s, nil
}

func (s *Overworld) onMapNumber(t fsm.Transition) (fsm.State, error) {
	s.recordNumber(t)
	s.maps.Commit(t.Data, t.Bus)
	return s, nil
}

func (s *Overworld) onGameTime(t fsm.Transition) (fsm.State, error) {
	s.maps.Tick(t.Data, t.Bus)
	return s, nil
}

func (s *Overworld) onBattleMode(t fsm.Transition) (fsm.State, error) {
	switch fsm.Int(t.Value) {
	case BattleModeWild:
		s.maps.Commit(t.Data, t.Bus)
		t.Data.Battle.SetWildBattle()
	case BattleModeTrainer:
		s.maps.Commit(t.Data, t.Bus)
		t.Data.Battle.SetTrainerBattle()
	default:
		return s, nil
	}
	t.Bus.BattleStarted.Fire()
	// The game clears wBattleResult to WIN at the start of every battle and
	// only writes LOSE or DRAW, so a win usually arrives as no change at all.
	return &Battle{session: s.session, result: ResultWin}, nil
}

func (s *Overworld) onSaveChecksum(t fsm.Transition) (fsm.State, error) {
	if fsm.Reported(t.Prev) && fsm.Int(t.Prev) != fsm.Int(t.Value) {
		t.Bus.SaveGame.Fire()
	}
	return s, nil
}

// Battle records wBattleResult as it is written and acts on it once
// wBattleEnded is raised.
type Battle struct {
	*session
	result int
}

func (*Battle) Name() string { return "Battle" }

func (s *Battle) onBattleResult(t fsm.Transition) (fsm.State, error) {
	s.result = fsm.Int(t.Value) & resultMask
	return s, nil
}

func (s *Battle) onBattleEnded(t fsm.Transition) (fsm.State, error) {
	if !fsm.Bool(t.Value) {
		return s, nil
	}
	b := t.Data.Battle
	switch s.result {
	case ResultWin:
		b.SetVictory()
		t.Bus.BattleEnded.Fire()
		if !b.VsWild.Get() && slices.Contains(ChampionClasses, b.Trainer.Class.Get()) {
			t.Bus.ChampionVictory.Fire()
		}
		return &VictorySequence{s.session}, nil
	case ResultLose:
		b.Finish(models.ResultLose)
	default:
		b.Finish(models.ResultDraw)
	}
	t.Bus.BattleEnded.Fire()
	return &Overworld{s.session}, nil
}

func (s *Battle) onBattleMode(t fsm.Transition) (fsm.State, error) {
	if fsm.Int(t.Value) != BattleModeNone {
		return s, fsm.Inconsistent(s, t, "battle mode changed mid-battle")
	}
	// Left without wBattleEnded, e.g. after running away.
	t.Data.Battle.Finish(models.ResultDraw)
	t.Bus.BattleEnded.Fire()
	return &Overworld{s.session}, nil
}

type VictorySequence struct{ *session }

func (*VictorySequence) Name() string { return "VictorySequence" }

func (s *VictorySequence) onBattleMode(t fsm.Transition) (fsm.State, error) {
	if fsm.Int(t.Value) != BattleModeNone {
		return s, fsm.Inconsistent(s, t, "battle resumed after victory")
	}
	t.Data.Battle.End()
	return &Overworld{s.session}, nil
}

// recordMapGroup and recordMapNumber keep the tracker current in states that
// never commit.
func recordMapGroup(s fsm.State, t fsm.Transition) (fsm.State, error) {
	sessionOf(s).recordGroup(t)
	return s, nil
}

func recordMapNumber(s fsm.State, t fsm.Transition) (fsm.State, error) {
	sessionOf(s).recordNumber(t)
	return s, nil
}

func resetOnIdentityLoss(s fsm.State, t fsm.Transition) (fsm.State, error) {
	lost := false
	switch t.Var {
	case VarPlayerName:
		lost = fsm.String(t.Value) == ""
	case VarPlayerID:
		lost = fsm.Int(t.Value) == 0
	}
	if !lost {
		return s, nil
	}
	if t.Data.Battle.Ongoing.Get() {
		t.Data.Battle.End()
	}
	sess := sessionOf(s)
	sess.maps.Reset()
	t.Bus.Reset.Fire()
	return &Initial{sess}, nil
}

func sessionOf(s fsm.State) *session {
	return s.(interface{ shared() *session }).shared()
}
