package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tatianab/pokewatcher/internal/event"
	"github.com/tatianab/pokewatcher/internal/models"
)

func newManager(t *testing.T, save string) (*Manager, *models.GameData) {
	t.Helper()
	data := models.NewGameData()
	m := NewManager(filepath.Join(t.TempDir(), "backups"), save, data, nil)
	clock := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	m.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return m, data
}

func TestBackupOnSave(t *testing.T) {
	save := filepath.Join(t.TempDir(), "yellow.sav")
	if err := os.WriteFile(save, []byte("slot"), 0644); err != nil {
		t.Fatalf("Failed to write save: %v", err)
	}
	m, data := newManager(t, save)
	data.Player.Name.Set("NINTEN")
	data.Player.Money.Set(3000)
	data.Location.Set("PALLET_TOWN")

	bus := event.NewBus()
	m.Subscribe(bus)
	bus.SaveGame.Fire()

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("Expected 1 backup, got %d", len(backups))
	}
	b := backups[0]
	if b.Name != "20260301-093001.000-save" || b.Reason != "save" {
		t.Errorf("Unexpected backup name %q (reason %q)", b.Name, b.Reason)
	}
	if b.Snapshot.Name != "NINTEN" || b.Snapshot.Money != 3000 || b.Snapshot.Location != "PALLET_TOWN" {
		t.Errorf("Unexpected snapshot: %+v", b.Snapshot)
	}
	copied, err := os.ReadFile(b.SaveFile)
	if err != nil || string(copied) != "slot" {
		t.Errorf("Expected the save file to be copied, got %q (%v)", copied, err)
	}
}

func TestBackupBeforeNewGame(t *testing.T) {
	m, _ := newManager(t, filepath.Join(t.TempDir(), "missing.sav"))
	bus := event.NewBus()
	m.Subscribe(bus)
	bus.NewGame.Fire()
	bus.SaveGame.Fire()

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("Expected 2 backups, got %d", len(backups))
	}
	if backups[0].Reason != "new_game" || backups[1].Reason != "save" {
		t.Errorf("Expected new_game then save, got %s then %s", backups[0].Reason, backups[1].Reason)
	}
	if backups[0].SaveFile != "" {
		t.Errorf("Expected no save file copy, got %s", backups[0].SaveFile)
	}
}

func TestListIgnoresOtherDirs(t *testing.T) {
	m, _ := newManager(t, "")
	if backups, err := m.List(); err != nil || len(backups) != 0 {
		t.Fatalf("Expected no backups before the dir exists, got %v (%v)", backups, err)
	}
	if _, err := m.Backup("save"); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	os.MkdirAll(filepath.Join(m.dir, "notes"), 0755)

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("Expected 1 backup, got %d", len(backups))
	}
}
