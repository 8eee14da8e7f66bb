// Package replay feeds recorded bridge notifications through a session, for
// tests and for reproducing a run without an emulator.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tatianab/pokewatcher/internal/properties"
	"gopkg.in/yaml.v3"
)

// Trace is a recorded run.
type Trace struct {
	Game          string                    `yaml:"game"`
	Notifications []properties.Notification `yaml:"notifications"`
}

// Handler consumes notifications. *engine.Engine is one.
type Handler interface {
	Handle(n properties.Notification) error
}

func Load(path string) (*Trace, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Trace, error) {
	var tr Trace
	if err := yaml.Unmarshal(raw, &tr); err != nil {
		return nil, fmt.Errorf("failed to parse trace: %w", err)
	}
	for i, n := range tr.Notifications {
		if n.Name == "" {
			return nil, fmt.Errorf("notification %d has no name", i)
		}
	}
	return &tr, nil
}

// Save writes tr as YAML.
func (tr *Trace) Save(path string) error {
	raw, err := yaml.Marshal(tr)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

// Run hands every notification to h in order, waiting delay between them.
// It stops at the first error or when ctx is done.
func Run(ctx context.Context, h Handler, notes []properties.Notification, delay time.Duration) error {
	for i, n := range notes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.Handle(n); err != nil {
			return fmt.Errorf("notification %d (%s): %w", i, n.Name, err)
		}
		if delay <= 0 || i == len(notes)-1 {
			continue
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

// Stream decodes notifications from r, one YAML document each, and hands
// them to h as they arrive. It returns nil at the end of r.
func Stream(ctx context.Context, r io.Reader, h Handler) error {
	dec := yaml.NewDecoder(r)
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		var n properties.Notification
		err := dec.Decode(&n)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("notification %d: %w", i, err)
		}
		if n.Name == "" {
			return fmt.Errorf("notification %d has no name", i)
		}
		if err := h.Handle(n); err != nil {
			return fmt.Errorf("notification %d (%s): %w", i, n.Name, err)
		}
	}
}
