package gen1

import "github.com/tatianab/pokewatcher/internal/fsm"

// Game is the name the table reports in logs and errors.
const Game = "yellow"

// Table is the dispatch table shared by every Yellow, Red and Blue session.
var Table = newTable()

// NewInitial returns the state a fresh session starts in.
func NewInitial() fsm.State {
	return &Initial{}
}

func newTable() *fsm.Table {
	t := fsm.NewTable(Game, Vocabulary...)

	fsm.On(t, VarPlayerName, (*Initial).onPlayerName)

	fsm.On(t, VarPlayerName, (*MainMenu).onPlayerName)
	fsm.On(t, VarSaveFileStatus, (*MainMenu).onSaveFileStatus)
	fsm.On(t, VarPlayerID, (*MainMenu).onPlayerID)

	fsm.On(t, VarPlayerName, (*ContinueDetection).onPlayerName)
	fsm.On(t, VarSaveFileStatus, (*ContinueDetection).onSaveFileStatus)
	fsm.On(t, VarCurrentMenuItem, (*ContinueDetection).onCurrentMenuItem)
	fsm.On(t, VarJoyInput, (*ContinueDetection).onJoyInput)
	fsm.On(t, VarPlayerID, (*ContinueDetection).onPlayerID)
	fsm.On(t, VarCurMap, (*ContinueDetection).onCurMap)
	fsm.On(t, VarPlayTimeFrames, (*ContinueDetection).onPlayTimeFrames)

	fsm.On(t, VarIsInBattle, (*InOverworld).onIsInBattle)
	fsm.On(t, VarCurMap, (*InOverworld).onCurMap)
	fsm.On(t, VarSaveChecksum, (*InOverworld).onSaveChecksum)

	fsm.On(t, VarLowHealthAlarmDisabled, (*InBattle).onLowHealthAlarmDisabled)
	fsm.On(t, VarIsInBattle, (*InBattle).onIsInBattle)

	fsm.On(t, VarIsInBattle, (*VictorySequence).onIsInBattle)

	for _, s := range []fsm.State{&InOverworld{}, &InBattle{}, &VictorySequence{}} {
		t.Register(s, VarPlayerName, resetOnIdentityLoss)
		t.Register(s, VarPlayerID, resetOnIdentityLoss)
	}
	return t
}
