// Package gen1 is the state machine for Pokémon Yellow, Red and Blue.
//
// Coordinates and map loads look the same whether the player picked NEW GAME
// or CONTINUE, so the continue path is corroborated by the main menu cursor
// and the joypad: A pressed on the CONTINUE entry, then the map or the play
// time moving. A freshly generated player ID commits to a new game at once.
package gen1

import "github.com/tatianab/pokewatcher/internal/fsm"

const (
	VarPlayerName             fsm.Var = "wPlayerName"
	VarPlayerID               fsm.Var = "wPlayerID"
	VarSaveFileStatus         fsm.Var = "wSaveFileStatus"
	VarCurrentMenuItem        fsm.Var = "wCurrentMenuItem"
	VarJoyInput               fsm.Var = "hJoyInput"
	VarCurMap                 fsm.Var = "wCurMap"
	VarPlayTimeFrames         fsm.Var = "wPlayTimeFrames"
	VarIsInBattle             fsm.Var = "wIsInBattle"
	VarLowHealthAlarmDisabled fsm.Var = "wLowHealthAlarmDisabled"
	VarSaveChecksum           fsm.Var = "sMainDataCheckSum"
)

// Vocabulary is the closed set of variables the graph reacts to.
var Vocabulary = []fsm.Var{
	VarPlayerName,
	VarPlayerID,
	VarSaveFileStatus,
	VarCurrentMenuItem,
	VarJoyInput,
	VarCurMap,
	VarPlayTimeFrames,
	VarIsInBattle,
	VarLowHealthAlarmDisabled,
	VarSaveChecksum,
}

// wIsInBattle values. A lost battle is stored as -1, which the bridge may
// report unsigned.
const (
	BattleTypeNone    = 0
	BattleTypeWild    = 1
	BattleTypeTrainer = 2
	BattleTypeLost    = -1
)

// wSaveFileStatus values.
const (
	SaveFileNone    = 1
	SaveFilePresent = 2
)

// Main menu entries when a save exists.
const (
	MenuContinue = 0
	MenuNewGame  = 1
	MenuOption   = 2
)

// JoyA is the A button in hJoyInput.
const JoyA = 1 << 0

// ChampionClass is the trainer class of the final rival battle.
const ChampionClass = "RIVAL3"

func battleType(v any) int {
	n := fsm.Int(v)
	if n == 0xFF {
		return BattleTypeLost
	}
	return n
}
