package gen3

import "github.com/tatianab/pokewatcher/internal/fsm"

func newTable(game string) *fsm.Table {
	t := fsm.NewTable(game, Vocabulary...)

	fsm.On(t, VarCallback2, (*Initial).onCallback2)

	fsm.On(t, VarCallback2, (*MainMenu).onCallback2)
	fsm.On(t, VarPlayerName, (*MainMenu).onPlayerName)

	fsm.On(t, VarCallback2, (*ContinueDetection).onCallback2)
	fsm.On(t, VarCallback1, (*ContinueDetection).onCallback1)

	fsm.On(t, VarCallback1, (*Overworld).onCallback1)
	fsm.On(t, VarCallback2, (*Overworld).onCallback2)
	fsm.On(t, VarMapNumber, (*Overworld).onMapNumber)
	fsm.On(t, VarSaveCounter, (*Overworld).onSaveCounter)

	fsm.On(t, VarOutcome, (*Battle).onOutcome)
	fsm.On(t, VarCallback1, (*Battle).onCallback1)
	fsm.On(t, VarCallback2, (*Battle).onCallback2)

	fsm.On(t, VarCallback1, (*VictorySequence).onCallback1)
	fsm.On(t, VarCallback2, (*VictorySequence).onCallback2)
	fsm.On(t, VarOutcome, (*VictorySequence).onOutcome)

	all := []fsm.State{&Initial{}, &MainMenu{}, &ContinueDetection{}, &Overworld{}, &Battle{}, &VictorySequence{}}
	for _, s := range all {
		t.Register(s, VarBattleFlags, recordBattleFlags)
		t.Register(s, VarMapGroup, recordMapGroup)
		if _, ok := s.(*Overworld); !ok {
			t.Register(s, VarMapNumber, recordMapNumber)
		}
	}
	for _, s := range []fsm.State{&Overworld{}, &Battle{}, &VictorySequence{}} {
		t.Register(s, VarPlayerName, resetOnIdentityLoss)
		t.Register(s, VarTrainerID, resetOnIdentityLoss)
	}
	return t
}
