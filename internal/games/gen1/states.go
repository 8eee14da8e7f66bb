package gen1

import (
	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/fsm"
	"github.com/tatianab/pokewatcher/internal/models"
)

// Initial waits on the title screen for a player name to appear.
type Initial struct{}

func (*Initial) Name() string { return "Initial" }

func (s *Initial) onPlayerName(t fsm.Transition) (fsm.State, error) {
	if fsm.String(t.Value) != "" {
		return &MainMenu{}, nil
	}
	return s, nil
}

// MainMenu has a player name but does not know yet whether a save exists.
type MainMenu struct{}

func (*MainMenu) Name() string { return "MainMenu" }

func (s *MainMenu) onPlayerName(t fsm.Transition) (fsm.State, error) {
	if fsm.String(t.Value) == "" {
		return &Initial{}, nil
	}
	return s, nil
}

func (s *MainMenu) onSaveFileStatus(t fsm.Transition) (fsm.State, error) {
	if fsm.Int(t.Value) == SaveFilePresent {
		return &ContinueDetection{}, nil
	}
	return s, nil
}

func (s *MainMenu) onPlayerID(t fsm.Transition) (fsm.State, error) {
	if fsm.Int(t.Prev) == 0 && fsm.Int(t.Value) != 0 {
		return startNewGame(t), nil
	}
	return s, nil
}

// ContinueDetection sits on a main menu backed by a save file and collects
// evidence for CONTINUE.
type ContinueDetection struct {
	menuItem       int
	continueChosen bool
	newGameChosen  bool
}

func (*ContinueDetection) Name() string { return "ContinueDetection" }

func (s *ContinueDetection) onPlayerName(t fsm.Transition) (fsm.State, error) {
	if fsm.String(t.Value) == "" {
		return &Initial{}, nil
	}
	return s, nil
}

func (s *ContinueDetection) onSaveFileStatus(t fsm.Transition) (fsm.State, error) {
	if fsm.Int(t.Value) != SaveFilePresent {
		return &MainMenu{}, nil
	}
	return s, nil
}

func (s *ContinueDetection) onCurrentMenuItem(t fsm.Transition) (fsm.State, error) {
	s.menuItem = fsm.Int(t.Value)
	return s, nil
}

func (s *ContinueDetection) onJoyInput(t fsm.Transition) (fsm.State, error) {
	pressed := fsm.Int(t.Value) &^ fsm.Int(t.Prev)
	if pressed&JoyA == 0 {
		return s, nil
	}
	switch s.menuItem {
	case MenuContinue:
		s.continueChosen = true
	case MenuNewGame:
		s.newGameChosen = true
	}
	return s, nil
}

func (s *ContinueDetection) onPlayerID(t fsm.Transition) (fsm.State, error) {
	id := fsm.Int(t.Value)
	if id == 0 {
		return s, nil
	}
	if s.newGameChosen || fsm.Int(t.Prev) != 0 {
		return startNewGame(t), nil
	}
	return s, nil
}

func (s *ContinueDetection) onCurMap(t fsm.Transition) (fsm.State, error) {
	if !s.continueChosen {
		return s, nil
	}
	next := continueGame(t)
	setLocation(t)
	return next, nil
}

func (s *ContinueDetection) onPlayTimeFrames(t fsm.Transition) (fsm.State, error) {
	if !s.continueChosen || !fsm.Reported(t.Prev) {
		return s, nil
	}
	return continueGame(t), nil
}

// InOverworld is regular play outside of battle.
type InOverworld struct{}

func (*InOverworld) Name() string { return "InOverworld" }

func (s *InOverworld) onIsInBattle(t fsm.Transition) (fsm.State, error) {
	switch battleType(t.Value) {
	case BattleTypeWild:
		t.Data.Battle.SetWildBattle()
	case BattleTypeTrainer:
		t.Data.Battle.SetTrainerBattle()
	default:
		return s, nil
	}
	t.Bus.BattleStarted.Fire()
	return &InBattle{}, nil
}

func (s *InOverworld) onCurMap(t fsm.Transition) (fsm.State, error) {
	setLocation(t)
	return s, nil
}

func (s *InOverworld) onSaveChecksum(t fsm.Transition) (fsm.State, error) {
	if fsm.Reported(t.Prev) && fsm.Int(t.Prev) != fsm.Int(t.Value) {
		t.Bus.SaveGame.Fire()
	}
	return s, nil
}

// InBattle lasts until the victory jingle or until the battle flag clears.
type InBattle struct{}

func (*InBattle) Name() string { return "InBattle" }

func (s *InBattle) onLowHealthAlarmDisabled(t fsm.Transition) (fsm.State, error) {
	if !fsm.Bool(t.Value) || fsm.Bool(t.Prev) {
		return s, nil
	}
	b := t.Data.Battle
	b.SetVictory()
	t.Bus.BattleEnded.Fire()
	if !b.VsWild.Get() && b.Trainer.Class.Get() == ChampionClass {
		t.Bus.ChampionVictory.Fire()
	}
	return &VictorySequence{}, nil
}

func (s *InBattle) onIsInBattle(t fsm.Transition) (fsm.State, error) {
	switch battleType(t.Value) {
	case BattleTypeNone:
		// Ran away, caught the mon or the battle was cut short.
		t.Data.Battle.Finish(models.ResultDraw)
	case BattleTypeLost:
		t.Data.Battle.Finish(models.ResultLose)
	default:
		return s, fsm.Inconsistent(s, t, "battle type changed mid-battle")
	}
	t.Bus.BattleEnded.Fire()
	return &InOverworld{}, nil
}

// VictorySequence runs from the victory jingle until the battle flag clears.
type VictorySequence struct{}

func (*VictorySequence) Name() string { return "VictorySequence" }

func (s *VictorySequence) onIsInBattle(t fsm.Transition) (fsm.State, error) {
	if battleType(t.Value) != BattleTypeNone {
		return s, fsm.Inconsistent(s, t, "battle resumed after the victory jingle")
	}
	t.Data.Battle.End()
	return &InOverworld{}, nil
}

func startNewGame(t fsm.Transition) fsm.State {
	t.Bus.NewGame.Fire()
	return &InOverworld{}
}

func continueGame(t fsm.Transition) fsm.State {
	t.Bus.Continue.Fire()
	return &InOverworld{}
}

func setLocation(t fsm.Transition) {
	name := fsm.String(t.Value)
	prev := t.Data.Location.Get()
	if name == "" || name == prev {
		return
	}
	t.Data.Location.Set(name)
	t.Bus.MapChanged.Emit(event.MapChange{Prev: prev, Next: name})
}

// resetOnIdentityLoss sends any in-game state back to Initial when the player
// name empties or the ID drops to zero.
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
	t.Bus.Reset.Fire()
	return &Initial{}, nil
}
