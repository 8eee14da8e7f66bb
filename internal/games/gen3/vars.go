// Package gen3 is the state machine for Pokémon Emerald and FireRed.
//
// Neither game keeps an "in battle" flag the bridge can rely on. The phase
// of the game is read from the two main loop callbacks instead: callback2
// names the screen being run (intro, main menu, battle setup) and callback1
// is the overworld tick. A console reset is the one path that clears
// callback1 and then runs the intro again, so it is detected with a latch
// armed by the former and fired by the latter.
package gen3

import (
	"strings"

	"github.com/tatianab/pokewatcher/internal/fsm"
	"github.com/tatianab/pokewatcher/internal/models"
)

const (
	VarCallback1   fsm.Var = "gMain.callback1"
	VarCallback2   fsm.Var = "gMain.callback2"
	VarPlayerName  fsm.Var = "gSaveBlock2.playerName"
	VarTrainerID   fsm.Var = "gSaveBlock2.playerTrainerId"
	VarOutcome     fsm.Var = "gBattleOutcome"
	VarBattleFlags fsm.Var = "gBattleTypeFlags"
	VarSaveCounter fsm.Var = "gSaveCounter"
	VarMapGroup    fsm.Var = "gSaveBlock1.location.mapGroup"
	VarMapNumber   fsm.Var = "gSaveBlock1.location.mapNum"
)

// Vocabulary is the closed set of variables the graph reacts to.
var Vocabulary = []fsm.Var{
	VarCallback1,
	VarCallback2,
	VarPlayerName,
	VarTrainerID,
	VarOutcome,
	VarBattleFlags,
	VarSaveCounter,
	VarMapGroup,
	VarMapNumber,
}

// gBattleOutcome values.
const (
	OutcomeNone             = 0
	OutcomeWon              = 1
	OutcomeLost             = 2
	OutcomeDrew             = 3
	OutcomeRan              = 4
	OutcomePlayerTeleported = 5
	OutcomeMonFled          = 6
	OutcomeCaught           = 7
	OutcomeNoSafariBalls    = 8
	OutcomeForfeited        = 9
	OutcomeMonTeleported    = 10

	// OutcomeLinkRan is OR'ed into the outcome of link battles.
	OutcomeLinkRan = 0x80
)

// BattleTypeTrainer is the trainer bit of gBattleTypeFlags.
const BattleTypeTrainer = 1 << 3

// NormalizeOutcome folds a gBattleOutcome value into a battle result. ok is
// false while the battle has no outcome yet. Catching a mon counts as a win;
// every outcome that is neither a win nor a loss is a draw.
func NormalizeOutcome(outcome int) (r models.BattleResult, ok bool) {
	switch outcome &^ OutcomeLinkRan {
	case OutcomeNone:
		return models.ResultNone, false
	case OutcomeWon, OutcomeCaught:
		return models.ResultWin, true
	case OutcomeLost:
		return models.ResultLose, true
	default:
		return models.ResultDraw, true
	}
}

// isNull reports whether a callback value is the null pointer, however the
// bridge chose to spell it.
func isNull(v any) bool {
	if n, ok := v.(int); ok {
		return n == 0
	}
	switch strings.ToUpper(fsm.String(v)) {
	case "", "0", "NULL", "0X0", "0X00000000":
		return true
	}
	return false
}
