package gen2

import (
	"github.com/tatianab/pokewatcher/internal/fsm"
	"github.com/tatianab/pokewatcher/internal/maptrack"
)

const Game = "crystal"

// Table is the dispatch table shared by every Crystal, Gold and Silver session.
var Table = newTable()

// NewInitial returns the state a fresh session starts in, with its own map
// tracker.
func NewInitial() fsm.State {
	return &Initial{&session{maps: &maptrack.Tracker{}}}
}

func newTable() *fsm.Table {
	t := fsm.NewTable(Game, Vocabulary...)

	fsm.On(t, VarPlayerName, (*Initial).onPlayerName)

	fsm.On(t, VarPlayerName, (*MainMenu).onPlayerName)
	fsm.On(t, VarSaveFileExists, (*MainMenu).onSaveFileExists)
	fsm.On(t, VarPlayerID, (*MainMenu).onPlayerID)

	fsm.On(t, VarPlayerName, (*ContinueDetection).onPlayerName)
	fsm.On(t, VarSaveFileExists, (*ContinueDetection).onSaveFileExists)
	fsm.On(t, VarPlayerID, (*ContinueDetection).onPlayerID)
	fsm.On(t, VarMapGroup, (*ContinueDetection).onMapGroup)
	fsm.On(t, VarMapNumber, (*ContinueDetection).onMapNumber)
	fsm.On(t, VarGameTime, (*ContinueDetection).onGameTime)

	fsm.On(t, VarMapGroup, (*Overworld).onMapGroup)
	fsm.On(t, VarMapNumber, (*Overworld).onMapNumber)
	fsm.On(t, VarGameTime, (*Overworld).onGameTime)
	fsm.On(t, VarBattleMode, (*Overworld).onBattleMode)
	fsm.On(t, VarSaveChecksum, (*Overworld).onSaveChecksum)

	fsm.On(t, VarBattleResult, (*Battle).onBattleResult)
	fsm.On(t, VarBattleEnded, (*Battle).onBattleEnded)
	fsm.On(t, VarBattleMode, (*Battle).onBattleMode)

	fsm.On(t, VarBattleMode, (*VictorySequence).onBattleMode)

	for _, s := range []fsm.State{&Initial{}, &MainMenu{}, &Battle{}, &VictorySequence{}} {
		t.Register(s, VarMapGroup, recordMapGroup)
		t.Register(s, VarMapNumber, recordMapNumber)
	}
	for _, s := range []fsm.State{&Overworld{}, &Battle{}, &VictorySequence{}} {
		t.Register(s, VarPlayerName, resetOnIdentityLoss)
		t.Register(s, VarPlayerID, resetOnIdentityLoss)
	}
	return t
}
