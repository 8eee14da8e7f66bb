// Package backup copies the emulator save file aside whenever the game saves
// or a new game is about to overwrite it.
package backup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/models"
	"gopkg.in/yaml.v3"
)

const snapshotFile = "player.yaml"

// Backup is one backup directory.
type Backup struct {
	Name     string
	Dir      string
	Reason   string
	SaveFile string
	Snapshot models.Snapshot
}

type Manager struct {
	dir    string
	save   string
	data   *models.GameData
	logger *log.Logger
	now    func() time.Time
}

// NewManager backs up save (which may be empty) into dir.
func NewManager(dir, save string, data *models.GameData, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{dir: dir, save: save, data: data, logger: logger, now: time.Now}
}

func (m *Manager) Subscribe(bus *event.Bus) {
	bus.SaveGame.On(func() { m.backupAndLog("save") })
	bus.NewGame.On(func() { m.backupAndLog("new_game") })
}

func (m *Manager) backupAndLog(reason string) {
	dir, err := m.Backup(reason)
	if err != nil {
		m.logger.Printf("backup: %v", err)
		return
	}
	m.logger.Printf("backup: wrote %s", dir)
}

// Backup writes <dir>/<timestamp>-<reason>/ holding a copy of the save file
// and a player snapshot, and returns its path. A save file that does not
// exist yet is skipped.
func (m *Manager) Backup(reason string) (string, error) {
	dir := filepath.Join(m.dir, m.now().Format("20060102-150405.000")+"-"+reason)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	if m.save != "" {
		err := copyFile(m.save, filepath.Join(dir, filepath.Base(m.save)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to copy save file: %w", err)
		}
	}

	snap, err := yaml.Marshal(m.data.Snapshot())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, snapshotFile), snap, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return dir, nil
}

// List returns the backups in dir, oldest first.
func (m *Manager) List() ([]Backup, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var backups []Backup
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		b, err := Load(filepath.Join(m.dir, entry.Name()))
		if errors.Is(err, fs.ErrNotExist) {
			// Not a backup.
			continue
		}
		if err != nil {
			return nil, err
		}
		backups = append(backups, *b)
	}
	return backups, nil
}

// Load reads the backup stored in dir.
func Load(dir string) (*Backup, error) {
	raw, err := os.ReadFile(filepath.Join(dir, snapshotFile))
	if err != nil {
		return nil, err
	}
	b := &Backup{Name: filepath.Base(dir), Dir: dir}
	if err := yaml.Unmarshal(raw, &b.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", b.Name, err)
	}
	if i := strings.LastIndex(b.Name, "-"); i >= 0 {
		b.Reason = b.Name[i+1:]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.Name() != snapshotFile {
			b.SaveFile = filepath.Join(dir, entry.Name())
			break
		}
	}
	return b, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
