// Package splits records runs and their battles in a SQLite database.
package splits

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	game       TEXT NOT NULL,
	player     TEXT NOT NULL,
	kind       TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	champion_at TIMESTAMP
);
CREATE TABLE IF NOT EXISTS battles (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     INTEGER NOT NULL REFERENCES runs(id),
	location   TEXT NOT NULL,
	wild       BOOLEAN NOT NULL,
	trainer    TEXT NOT NULL,
	opponent   TEXT NOT NULL,
	result     TEXT NOT NULL,
	play_time  TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	ended_at   TIMESTAMP NOT NULL
);
`

// Run is one attempt, opened by a new game or a continue.
type Run struct {
	ID         int64
	Game       string
	Player     string
	Kind       string
	StartedAt  time.Time
	ChampionAt *time.Time
}

type Battle struct {
	Location  string
	Wild      bool
	Trainer   string
	Opponent  string
	Result    string
	PlayTime  string
	StartedAt time.Time
	EndedAt   time.Time
}

// Store wraps the splits database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" works
// for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open splits database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writes.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create splits schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) StartRun(game, player, kind string, at time.Time) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (game, player, kind, started_at) VALUES (?, ?, ?, ?)`,
		game, player, kind, at.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to start run: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) RecordBattle(run int64, b Battle) error {
	_, err := s.db.Exec(
		`INSERT INTO battles (run_id, location, wild, trainer, opponent, result, play_time, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run, b.Location, b.Wild, b.Trainer, b.Opponent, b.Result, b.PlayTime, b.StartedAt.UTC(), b.EndedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record battle: %w", err)
	}
	return nil
}

func (s *Store) MarkChampion(run int64, at time.Time) error {
	_, err := s.db.Exec(`UPDATE runs SET champion_at = ? WHERE id = ?`, at.UTC(), run)
	if err != nil {
		return fmt.Errorf("failed to mark champion: %w", err)
	}
	return nil
}

// Runs lists every run, oldest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT id, game, player, kind, started_at, champion_at FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var champion sql.NullTime
		if err := rows.Scan(&r.ID, &r.Game, &r.Player, &r.Kind, &r.StartedAt, &champion); err != nil {
			return nil, fmt.Errorf("failed to read run: %w", err)
		}
		if champion.Valid {
			r.ChampionAt = &champion.Time
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Battles lists the battles of run in the order they ended.
func (s *Store) Battles(run int64) ([]Battle, error) {
	rows, err := s.db.Query(
		`SELECT location, wild, trainer, opponent, result, play_time, started_at, ended_at
		 FROM battles WHERE run_id = ? ORDER BY id`, run)
	if err != nil {
		return nil, fmt.Errorf("failed to list battles: %w", err)
	}
	defer rows.Close()

	var battles []Battle
	for rows.Next() {
		var b Battle
		if err := rows.Scan(&b.Location, &b.Wild, &b.Trainer, &b.Opponent, &b.Result, &b.PlayTime, &b.StartedAt, &b.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to read battle: %w", err)
		}
		battles = append(battles, b)
	}
	return battles, rows.Err()
}
