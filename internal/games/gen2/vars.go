// Package gen2 is the state machine for Pokémon Crystal, Gold and Silver.
//
// The location is reported as two numbers, a map group and a map number,
// which the game writes one after the other. They are collected by a
// maptrack.Tracker and committed only once the pair can be trusted: when the
// number lands, on the next play time tick, or right before a battle.
package gen2

import "github.com/tatianab/pokewatcher/internal/fsm"

const (
	VarPlayerName     fsm.Var = "wPlayerName"
	VarPlayerID       fsm.Var = "wPlayerID"
	VarSaveFileExists fsm.Var = "wSaveFileExists"
	VarMapGroup       fsm.Var = "wMapGroup"
	VarMapNumber      fsm.Var = "wMapNumber"
	VarGameTime       fsm.Var = "wGameTimeSeconds"
	VarBattleMode     fsm.Var = "wBattleMode"
	VarBattleResult   fsm.Var = "wBattleResult"
	VarBattleEnded    fsm.Var = "wBattleEnded"
	VarSaveChecksum   fsm.Var = "sChecksum"
)

// Vocabulary is the closed set of variables the graph reacts to.
var Vocabulary = []fsm.Var{
	VarPlayerName,
	VarPlayerID,
	VarSaveFileExists,
	VarMapGroup,
	VarMapNumber,
	VarGameTime,
	VarBattleMode,
	VarBattleResult,
	VarBattleEnded,
	VarSaveChecksum,
}

// wBattleMode values.
const (
	BattleModeNone    = 0
	BattleModeWild    = 1
	BattleModeTrainer = 2
)

// wBattleResult values, low nibble only. The high bits carry unrelated flags.
const (
	ResultWin  = 0
	ResultLose = 1
	ResultDraw = 2

	resultMask = 0x0F
)

// ChampionClasses are the trainer classes whose defeat ends the game. The
// rival's late class RIVAL2 is left out: those battles are optional rematches.
var ChampionClasses = []string{"CHAMPION", "RED"}
