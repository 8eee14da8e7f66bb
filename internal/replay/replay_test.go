package replay

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tatianab/pokewatcher/internal/properties"
)

type recorder struct {
	names  []string
	failOn string
}

var errBoom = errors.New("boom")

func (r *recorder) Handle(n properties.Notification) error {
	r.names = append(r.names, n.Name)
	if n.Name == r.failOn {
		return errBoom
	}
	return nil
}

const trace = `
game: Pokemon Yellow
notifications:
  - {name: wPlayerName, value: NINTEN}
  - {name: wPlayerID, prev: 0, value: [0, 1]}
  - {name: wIsInBattle, prev: 0, value: 1}
`

func TestParse(t *testing.T) {
	tr, err := Parse([]byte(trace))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tr.Game != "Pokemon Yellow" || len(tr.Notifications) != 3 {
		t.Fatalf("Unexpected trace: %+v", tr)
	}
	id := tr.Notifications[1]
	if id.Prev != 0 {
		t.Errorf("Expected prev 0, got %v", id.Prev)
	}
	if bytes, ok := id.Value.([]any); !ok || len(bytes) != 2 {
		t.Errorf("Expected a byte list, got %#v", id.Value)
	}
}

func TestParseRejectsNamelessNotification(t *testing.T) {
	if _, err := Parse([]byte("notifications: [{value: 1}]")); err == nil {
		t.Errorf("Expected an error")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tr, _ := Parse([]byte(trace))
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := tr.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Game != tr.Game || len(loaded.Notifications) != len(tr.Notifications) {
		t.Errorf("Expected %+v, got %+v", tr, loaded)
	}
}

func TestRunInOrder(t *testing.T) {
	tr, _ := Parse([]byte(trace))
	var r recorder
	if err := Run(context.Background(), &r, tr.Notifications, 0); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := []string{"wPlayerName", "wPlayerID", "wIsInBattle"}
	if len(r.names) != len(want) {
		t.Fatalf("Expected %v, got %v", want, r.names)
	}
	for i := range want {
		if r.names[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, r.names)
		}
	}
}

func TestRunStopsOnError(t *testing.T) {
	tr, _ := Parse([]byte(trace))
	r := recorder{failOn: "wPlayerID"}
	err := Run(context.Background(), &r, tr.Notifications, 0)
	if !errors.Is(err, errBoom) {
		t.Fatalf("Expected errBoom, got %v", err)
	}
	if len(r.names) != 2 {
		t.Errorf("Expected to stop after 2 notifications, got %v", r.names)
	}
}

func TestRunCancelled(t *testing.T) {
	tr, _ := Parse([]byte(trace))
	ctx, cancel := context.WithCancel(context.Background())
	var r recorder
	done := make(chan error, 1)
	go func() { done <- Run(ctx, &r, tr.Notifications, time.Hour) }()
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestStream(t *testing.T) {
	input := `name: wPlayerName
value: NINTEN
---
name: wPlayerID
prev: 0
value: 1
`
	var r recorder
	if err := Stream(context.Background(), strings.NewReader(input), &r); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if len(r.names) != 2 || r.names[1] != "wPlayerID" {
		t.Errorf("Expected 2 notifications, got %v", r.names)
	}
}

func TestStreamErrors(t *testing.T) {
	var r recorder
	if err := Stream(context.Background(), strings.NewReader("value: 1\n"), &r); err == nil {
		t.Errorf("Expected an error for a nameless notification")
	}
	r = recorder{failOn: "a"}
	err := Stream(context.Background(), strings.NewReader("name: a\n"), &r)
	if !errors.Is(err, errBoom) {
		t.Errorf("Expected errBoom, got %v", err)
	}
}
