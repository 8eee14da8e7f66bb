package gen3

import (
	"github.com/tatianab/pokewatcher/internal/fsm"
	"github.com/tatianab/pokewatcher/internal/maptrack"
	"github.com/tatianab/pokewatcher/internal/models"
)

// session is shared by every state of one run.
type session struct {
	profile *Profile
	maps    *maptrack.Tracker
	flags   int
}

func (s *session) shared() *session { return s }

func sessionOf(s fsm.State) *session {
	return s.(interface{ shared() *session }).shared()
}

// latch is the reset detector: a null callback1 arms it, anything else
// disarms it, and an intro callback2 while armed is a console reset.
type latch struct {
	maybeReset bool
}

func (l *latch) track(callback1 any) {
	l.maybeReset = isNull(callback1)
}

type Initial struct{ *session }

func (*Initial) Name() string { return "Initial" }

func (s *Initial) onCallback2(t fsm.Transition) (fsm.State, error) {
	if !s.profile.isMainMenu(t.Value) {
		return s, nil
	}
	// The save block is loaded before the menu is drawn.
	if t.Data.Player.Name.Get() != "" {
		return &ContinueDetection{session: s.session}, nil
	}
	return &MainMenu{s.session}, nil
}

type MainMenu struct{ *session }

func (*MainMenu) Name() string { return "MainMenu" }

func (s *MainMenu) onCallback2(t fsm.Transition) (fsm.State, error) {
	switch {
	case fsm.String(t.Value) == s.profile.NewGame:
		t.Bus.NewGame.Fire()
		return &Overworld{session: s.session}, nil
	case s.profile.isIntro(t.Value):
		return &Initial{s.session}, nil
	}
	return s, nil
}

func (s *MainMenu) onPlayerName(t fsm.Transition) (fsm.State, error) {
	if fsm.String(t.Value) != "" {
		return &ContinueDetection{session: s.session}, nil
	}
	return s, nil
}

// ContinueDetection is the main menu of a game with a save. CONTINUE is
// believed once the continue callback ran and the overworld tick started.
type ContinueDetection struct {
	*session
	chosen bool
}

func (*ContinueDetection) Name() string { return "ContinueDetection" }

func (s *ContinueDetection) onCallback2(t fsm.Transition) (fsm.State, error) {
	switch {
	case fsm.String(t.Value) == s.profile.Continue:
		s.chosen = true
	case fsm.String(t.Value) == s.profile.NewGame:
		t.Bus.NewGame.Fire()
		return &Overworld{session: s.session}, nil
	case s.profile.isIntro(t.Value):
		return &Initial{s.session}, nil
	}
	return s, nil
}

func (s *ContinueDetection) onCallback1(t fsm.Transition) (fsm.State, error) {
	if !s.chosen || !s.profile.isOverworld(t.Value) {
		return s, nil
	}
	t.Bus.Continue.Fire()
	s.maps.Commit(t.Data, t.Bus)
	return &Overworld{session: s.session}, nil
}

type Overworld struct {
	*session
	latch
}

func (*Overworld) Name() string { return "Overworld" }

func (s *Overworld) onCallback1(t fsm.Transition) (fsm.State, error) {
	s.track(t.Value)
	if s.profile.isOverworld(t.Value) {
		s.maps.Commit(t.Data, t.Bus)
	}
	return s, nil
}

func (s *Overworld) onCallback2(t fsm.Transition) (fsm.State, error) {
	switch {
	case s.maybeReset && s.profile.isIntro(t.Value):
		return reset(s.session, t), nil
	case s.profile.isBattleStart(t.Value):
		s.maps.Commit(t.Data, t.Bus)
		if s.flags&BattleTypeTrainer != 0 {
			t.Data.Battle.SetTrainerBattle()
		} else {
			t.Data.Battle.SetWildBattle()
		}
		t.Bus.BattleStarted.Fire()
		return &Battle{session: s.session}, nil
	}
	return s, nil
}

func (s *Overworld) onMapNumber(t fsm.Transition) (fsm.State, error) {
	s.maps.SetNumber(fsm.Int(t.Value))
	s.maps.Commit(t.Data, t.Bus)
	return s, nil
}

func (s *Overworld) onSaveCounter(t fsm.Transition) (fsm.State, error) {
	if fsm.Reported(t.Prev) && fsm.Int(t.Prev) != fsm.Int(t.Value) {
		t.Bus.SaveGame.Fire()
	}
	return s, nil
}

type Battle struct {
	*session
	latch
}

func (*Battle) Name() string { return "Battle" }

func (s *Battle) onOutcome(t fsm.Transition) (fsm.State, error) {
	result, ok := NormalizeOutcome(fsm.Int(t.Value))
	if !ok {
		return s, nil
	}
	b := t.Data.Battle
	if result == models.ResultWin {
		b.SetVictory()
		t.Bus.BattleEnded.Fire()
		if !b.VsWild.Get() && s.profile.isChampion(b.Trainer.Class.Get()) {
			t.Bus.ChampionVictory.Fire()
		}
		return &VictorySequence{session: s.session}, nil
	}
	b.Finish(result)
	t.Bus.BattleEnded.Fire()
	return &Overworld{session: s.session}, nil
}

func (s *Battle) onCallback1(t fsm.Transition) (fsm.State, error) {
	s.track(t.Value)
	if !s.profile.isOverworld(t.Value) {
		return s, nil
	}
	// Back in the overworld without an outcome.
	t.Data.Battle.Finish(models.ResultDraw)
	t.Bus.BattleEnded.Fire()
	return &Overworld{session: s.session}, nil
}

func (s *Battle) onCallback2(t fsm.Transition) (fsm.State, error) {
	if s.maybeReset && s.profile.isIntro(t.Value) {
		return reset(s.session, t), nil
	}
	return s, nil
}

type VictorySequence struct {
	*session
	latch
}

func (*VictorySequence) Name() string { return "VictorySequence" }

func (s *VictorySequence) onCallback1(t fsm.Transition) (fsm.State, error) {
	s.track(t.Value)
	if !s.profile.isOverworld(t.Value) {
		return s, nil
	}
	t.Data.Battle.End()
	return &Overworld{session: s.session}, nil
}

func (s *VictorySequence) onCallback2(t fsm.Transition) (fsm.State, error) {
	if s.maybeReset && s.profile.isIntro(t.Value) {
		return reset(s.session, t), nil
	}
	return s, nil
}

func (s *VictorySequence) onOutcome(t fsm.Transition) (fsm.State, error) {
	result, ok := NormalizeOutcome(fsm.Int(t.Value))
	if ok && result != models.ResultWin {
		return s, fsm.Inconsistent(s, t, "outcome changed after victory")
	}
	return s, nil
}

func recordBattleFlags(s fsm.State, t fsm.Transition) (fsm.State, error) {
	sessionOf(s).flags = fsm.Int(t.Value)
	return s, nil
}

func recordMapGroup(s fsm.State, t fsm.Transition) (fsm.State, error) {
	sessionOf(s).maps.SetGroup(fsm.Int(t.Value))
	return s, nil
}

func recordMapNumber(s fsm.State, t fsm.Transition) (fsm.State, error) {
	sessionOf(s).maps.SetNumber(fsm.Int(t.Value))
	return s, nil
}

func resetOnIdentityLoss(s fsm.State, t fsm.Transition) (fsm.State, error) {
	lost := false
	switch t.Var {
	case VarPlayerName:
		lost = fsm.String(t.Value) == ""
	case VarTrainerID:
		lost = fsm.Int(t.Value) == 0
	}
	if !lost {
		return s, nil
	}
	return reset(sessionOf(s), t), nil
}

func reset(sess *session, t fsm.Transition) fsm.State {
	if t.Data.Battle.Ongoing.Get() {
		t.Data.Battle.End()
	}
	sess.maps.Reset()
	sess.flags = 0
	t.Bus.Reset.Fire()
	return &Initial{sess}
}
