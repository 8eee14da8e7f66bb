package gen2

import (
	"errors"
	"testing"

	"github.com/tatianab/pokewatcher/internal/fsm"
	"github.com/tatianab/pokewatcher/internal/fsm/fsmtest"
	"github.com/tatianab/pokewatcher/internal/models"
)

func newHarness(t *testing.T) *fsmtest.Harness {
	return fsmtest.New(t, Table, NewInitial(), "gen2")
}

func inOverworld(t *testing.T) *fsmtest.Harness {
	h := newHarness(t)
	h.Feed(VarPlayerName, "GOLD")
	h.Feed(VarPlayerID, 54321)
	h.Expect("Overworld")
	return h
}

func TestNewGame(t *testing.T) {
	h := newHarness(t)
	h.Feed(VarPlayerName, "GOLD")
	h.Expect("MainMenu")
	h.Feed(VarPlayerID, 54321)
	h.Expect("Overworld")
	if n := h.Count("on_new_game"); n != 1 {
		t.Errorf("Expected 1 on_new_game, got %d", n)
	}
}

func TestMapTwoPhaseCommit(t *testing.T) {
	h := inOverworld(t)

	h.Feed(VarMapGroup, 24)
	if len(h.Maps) != 0 {
		t.Fatalf("Expected no map change with only a group, got %+v", h.Maps)
	}
	if h.Data.Location.Get() != "" {
		t.Errorf("Expected no location yet, got %q", h.Data.Location.Get())
	}

	h.Feed(VarMapNumber, 4)
	if len(h.Maps) != 1 {
		t.Fatalf("Expected exactly 1 map change, got %d", len(h.Maps))
	}
	if h.Data.Location.Get() != "NEW_BARK/04" {
		t.Errorf("Expected NEW_BARK/04, got %s", h.Data.Location.Get())
	}

	h.Feed(VarGameTime, 10)
	if len(h.Maps) != 1 {
		t.Errorf("Expected the clock not to re-commit, got %d changes", len(h.Maps))
	}
}

func TestGroupOnlyChangeCommitsOnTick(t *testing.T) {
	h := inOverworld(t)
	h.Feed(VarMapGroup, 24)
	h.Feed(VarMapNumber, 1)

	h.Feed(VarMapGroup, 26)
	if len(h.Maps) != 1 {
		t.Fatalf("Expected the group alone not to commit, got %d changes", len(h.Maps))
	}
	h.Feed(VarGameTime, 1)
	if len(h.Maps) != 1 {
		t.Fatalf("Expected the first tick only to age the update, got %d changes", len(h.Maps))
	}
	h.Feed(VarGameTime, 2)
	if len(h.Maps) != 2 || h.Data.Location.Get() != "CHERRYGROVE/01" {
		t.Errorf("Expected CHERRYGROVE/01 after the second tick, got %q (%d changes)", h.Data.Location.Get(), len(h.Maps))
	}
}

func TestTickBetweenGroupAndNumber(t *testing.T) {
	h := inOverworld(t)
	h.Feed(VarMapGroup, 24)
	h.Feed(VarMapNumber, 1)

	h.Feed(VarMapGroup, 26)
	h.Feed(VarGameTime, 1)
	h.Feed(VarMapNumber, 3)
	if len(h.Maps) != 2 {
		t.Fatalf("Expected exactly one more map change, got %+v", h.Maps)
	}
	if h.Maps[1].Prev != "NEW_BARK/01" || h.Maps[1].Next != h.Data.Location.Get() {
		t.Errorf("Expected a single move from NEW_BARK/01, got %+v", h.Maps[1])
	}
	h.Feed(VarGameTime, 2)
	h.Feed(VarGameTime, 3)
	if len(h.Maps) != 2 {
		t.Errorf("Expected later ticks not to commit again, got %d changes", len(h.Maps))
	}
}

func TestContinue(t *testing.T) {
	h := newHarness(t)
	h.Feed(VarPlayerName, "GOLD")
	h.Feed(VarSaveFileExists, true)
	h.Expect("ContinueDetection")

	h.Feed(VarPlayerID, 54321)
	h.Feed(VarMapGroup, 24)
	h.Feed(VarMapNumber, 4)
	h.Feed(VarGameTime, 100)
	h.Expect("ContinueDetection")
	if len(h.Maps) != 0 {
		t.Errorf("Expected no map change before continue, got %d", len(h.Maps))
	}

	h.Feed(VarGameTime, 101)
	h.Expect("Overworld")
	if n := h.Count("on_continue"); n != 1 {
		t.Errorf("Expected 1 on_continue, got %d", n)
	}
	if h.Count("on_new_game") != 0 {
		t.Errorf("Expected no new game")
	}
	if h.Data.Location.Get() != "NEW_BARK/04" || len(h.Maps) != 1 {
		t.Errorf("Expected one commit to NEW_BARK/04, got %q (%d changes)", h.Data.Location.Get(), len(h.Maps))
	}
}

func TestNewGameOverSave(t *testing.T) {
	h := newHarness(t)
	h.Feed(VarPlayerName, "GOLD")
	h.Feed(VarSaveFileExists, true)
	h.Seed(VarPlayerID, 11111)
	h.Feed(VarPlayerID, 22222)
	h.Expect("Overworld")
	if h.Count("on_new_game") != 1 || h.Count("on_continue") != 0 {
		t.Errorf("Expected a new game only, got %v", h.Fired)
	}
}

func TestBattleStartIsNotAVictory(t *testing.T) {
	h := inOverworld(t)
	h.Feed(VarBattleMode, BattleModeWild)
	h.Expect("Battle")
	b := h.Data.Battle
	if !b.Ongoing.Get() || !b.VsWild.Get() {
		t.Errorf("Expected an ongoing wild battle")
	}
	if b.Result.Get() != models.ResultNone {
		t.Errorf("Expected no result at battle start, got %s", b.Result.Get())
	}
}

func TestBattleStartCommitsPendingMap(t *testing.T) {
	h := inOverworld(t)
	h.Feed(VarMapNumber, 3)
	h.Feed(VarMapGroup, 10)
	h.Feed(VarBattleMode, BattleModeTrainer)
	if len(h.Maps) != 1 {
		t.Errorf("Expected the pending location to be committed, got %d changes", len(h.Maps))
	}
}

func TestTrainerVictory(t *testing.T) {
	h := inOverworld(t)
	h.Data.Battle.Trainer.Class.Set("CHAMPION")
	h.Feed(VarBattleMode, BattleModeTrainer)

	// The result stays at WIN, so the bridge never reports it.
	h.Feed(VarBattleEnded, true)
	h.Expect("VictorySequence")
	if h.Data.Battle.Result.Get() != models.ResultWin {
		t.Errorf("Expected win, got %s", h.Data.Battle.Result.Get())
	}
	if h.Count("on_battle_ended") != 1 || h.Count("on_champion_victory") != 1 {
		t.Errorf("Expected battle end and champion victory, got %v", h.Fired)
	}

	h.Feed(VarBattleMode, BattleModeNone)
	h.Expect("Overworld")
	if h.Data.Battle.Ongoing.Get() {
		t.Errorf("Expected the battle to be over")
	}
}

func TestChampionClasses(t *testing.T) {
	tests := []struct {
		class    string
		champion int
	}{
		{"CHAMPION", 1},
		{"RED", 1},
		{"RIVAL2", 0},
		{"RIVAL1", 0},
	}
	for _, tc := range tests {
		t.Run(tc.class, func(t *testing.T) {
			h := inOverworld(t)
			h.Data.Battle.Trainer.Class.Set(tc.class)
			h.Feed(VarBattleMode, BattleModeTrainer)
			h.Feed(VarBattleEnded, true)
			h.Feed(VarBattleMode, BattleModeNone)
			h.Expect("Overworld")
			if h.Data.Battle.Result.Get() != models.ResultWin {
				t.Errorf("Expected win, got %s", h.Data.Battle.Result.Get())
			}
			if n := h.Count("on_champion_victory"); n != tc.champion {
				t.Errorf("Expected %d on_champion_victory, got %d", tc.champion, n)
			}
		})
	}
}

func TestResultFlagsAreMasked(t *testing.T) {
	h := inOverworld(t)
	h.Feed(VarBattleMode, BattleModeWild)
	h.Feed(VarBattleResult, 0x40|ResultWin)
	h.Feed(VarBattleEnded, true)
	h.Expect("VictorySequence")
	if h.Data.Battle.Result.Get() != models.ResultWin {
		t.Errorf("Expected win, got %s", h.Data.Battle.Result.Get())
	}
}

func TestLostThenRetriedBattleStartsAsWin(t *testing.T) {
	h := inOverworld(t)
	h.Feed(VarBattleMode, BattleModeWild)
	h.Feed(VarBattleResult, ResultLose)
	h.Feed(VarBattleEnded, true)
	h.Expect("Overworld")
	h.Feed(VarBattleEnded, false)
	h.Feed(VarBattleMode, BattleModeNone)

	h.Feed(VarBattleMode, BattleModeTrainer)
	h.Feed(VarBattleEnded, true)
	h.Expect("VictorySequence")
}

func TestBattleEndings(t *testing.T) {
	tests := []struct {
		name   string
		feed   func(h *fsmtest.Harness)
		result models.BattleResult
	}{
		{"lose", func(h *fsmtest.Harness) {
			h.Feed(VarBattleResult, ResultLose)
			h.Feed(VarBattleEnded, true)
		}, models.ResultLose},
		{"draw", func(h *fsmtest.Harness) {
			h.Feed(VarBattleResult, ResultDraw)
			h.Feed(VarBattleEnded, true)
		}, models.ResultDraw},
		{"ran", func(h *fsmtest.Harness) {
			h.Feed(VarBattleMode, BattleModeNone)
		}, models.ResultDraw},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := inOverworld(t)
			h.Feed(VarBattleMode, BattleModeWild)
			tc.feed(h)
			h.Expect("Overworld")
			if got := h.Data.Battle.Result.Get(); got != tc.result {
				t.Errorf("Expected %s, got %s", tc.result, got)
			}
			if n := h.Count("on_battle_ended"); n != 1 {
				t.Errorf("Expected 1 on_battle_ended, got %d", n)
			}
		})
	}
}

func TestInconsistentBattleMode(t *testing.T) {
	h := inOverworld(t)
	h.Feed(VarBattleMode, BattleModeWild)
	if err := h.Try(VarBattleMode, BattleModeTrainer); !errors.Is(err, fsm.ErrInconsistent) {
		t.Errorf("Expected ErrInconsistent in Battle, got %v", err)
	}

	h = inOverworld(t)
	h.Feed(VarBattleMode, BattleModeWild)
	h.Feed(VarBattleResult, ResultWin)
	h.Feed(VarBattleEnded, true)
	err := h.Try(VarBattleMode, BattleModeTrainer)
	if !errors.Is(err, fsm.ErrInconsistent) {
		t.Fatalf("Expected ErrInconsistent in VictorySequence, got %v", err)
	}
	h.Expect("VictorySequence")
	if !h.Data.Battle.Ongoing.Get() || h.Data.Battle.Result.Get() != models.ResultWin {
		t.Errorf("Expected battle data to be untouched")
	}
}

func TestResetDominance(t *testing.T) {
	reach := map[string]func(h *fsmtest.Harness){
		"Overworld": func(h *fsmtest.Harness) {},
		"Battle": func(h *fsmtest.Harness) {
			h.Feed(VarBattleMode, BattleModeTrainer)
		},
		"VictorySequence": func(h *fsmtest.Harness) {
			h.Feed(VarBattleMode, BattleModeTrainer)
			h.Feed(VarBattleResult, ResultWin)
			h.Feed(VarBattleEnded, true)
		},
	}
	for state, setup := range reach {
		for _, v := range []fsm.Var{VarPlayerName, VarPlayerID} {
			t.Run(state+"/"+string(v), func(t *testing.T) {
				h := inOverworld(t)
				setup(h)
				h.Expect(state)

				var zero any = 0
				if v == VarPlayerName {
					zero = ""
				}
				h.Feed(v, zero)
				h.Expect("Initial")
				if n := h.Count("on_reset"); n != 1 {
					t.Errorf("Expected exactly 1 on_reset, got %d", n)
				}
			})
		}
	}
}

func TestResetForgetsCoordinates(t *testing.T) {
	h := inOverworld(t)
	h.Feed(VarMapGroup, 24)
	h.Feed(VarPlayerName, "")
	h.Expect("Initial")

	h.Feed(VarPlayerName, "GOLD")
	h.Feed(VarPlayerID, 0)
	h.Feed(VarPlayerID, 1)
	h.Expect("Overworld")
	h.Feed(VarGameTime, 5)
	if len(h.Maps) != 0 {
		t.Errorf("Expected no commit from a coordinate seen before the reset, got %+v", h.Maps)
	}
}

func TestSaveGame(t *testing.T) {
	h := inOverworld(t)
	h.Feed(VarSaveChecksum, 0x1234)
	h.Feed(VarSaveChecksum, 0x4321)
	if n := h.Count("on_save_game"); n != 1 {
		t.Errorf("Expected 1 on_save_game, got %d", n)
	}
}
