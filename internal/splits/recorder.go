package splits

import (
	"io"
	"log"
	"time"

	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/models"
)

type pendingBattle struct {
	location string
	wild     bool
	trainer  string
	opponent string
	started  time.Time
}

// Recorder turns session events into rows: a run per new game or continue,
// a battle per start/end pair.
type Recorder struct {
	store  *Store
	game   string
	data   *models.GameData
	logger *log.Logger
	now    func() time.Time

	run     int64
	pending *pendingBattle
}

func NewRecorder(store *Store, game string, data *models.GameData, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Recorder{
		store:  store,
		game:   game,
		data:   data,
		logger: logger,
		now:    time.Now,
	}
}

// Subscribe hooks the recorder to bus.
func (r *Recorder) Subscribe(bus *event.Bus) {
	bus.NewGame.On(func() { r.startRun("new_game") })
	bus.Continue.On(func() { r.startRun("continue") })
	bus.Reset.On(r.reset)
	bus.BattleStarted.On(r.battleStarted)
	bus.BattleEnded.On(r.battleEnded)
	bus.ChampionVictory.On(r.championVictory)
}

// Run returns the open run, 0 if none.
func (r *Recorder) Run() int64 {
	return r.run
}

func (r *Recorder) startRun(kind string) {
	r.pending = nil
	id, err := r.store.StartRun(r.game, r.data.Player.Name.Get(), kind, r.now())
	if err != nil {
		r.logger.Printf("splits: %v", err)
		r.run = 0
		return
	}
	r.run = id
}

func (r *Recorder) reset() {
	if r.pending != nil {
		r.logger.Printf("splits: reset during a battle at %s, discarding it", r.pending.location)
	}
	r.pending = nil
	r.run = 0
}

func (r *Recorder) battleStarted() {
	if r.pending != nil {
		r.logger.Printf("splits: battle at %s never ended, discarding it", r.pending.location)
	}
	b := r.data.Battle
	r.pending = &pendingBattle{
		location: r.data.Location.Get(),
		wild:     b.VsWild.Get(),
		trainer:  b.Trainer.Class.Get(),
		opponent: b.Enemy.Species.Get(),
		started:  r.now(),
	}
	if r.pending.wild {
		r.pending.trainer = ""
	}
}

func (r *Recorder) battleEnded() {
	p := r.pending
	r.pending = nil
	if p == nil {
		r.logger.Printf("splits: battle ended without a start, skipping it")
		return
	}
	if r.run == 0 {
		r.logger.Printf("splits: battle at %s outside a run, skipping it", p.location)
		return
	}
	err := r.store.RecordBattle(r.run, Battle{
		Location:  p.location,
		Wild:      p.wild,
		Trainer:   p.trainer,
		Opponent:  p.opponent,
		Result:    r.data.Battle.Result.Get().String(),
		PlayTime:  r.data.Time.String(),
		StartedAt: p.started,
		EndedAt:   r.now(),
	})
	if err != nil {
		r.logger.Printf("splits: %v", err)
	}
}

func (r *Recorder) championVictory() {
	if r.run == 0 {
		r.logger.Printf("splits: champion victory outside a run")
		return
	}
	if err := r.store.MarkChampion(r.run, r.now()); err != nil {
		r.logger.Printf("splits: %v", err)
	}
}
