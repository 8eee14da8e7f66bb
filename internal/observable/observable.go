// Package observable implements the game data tree: Variables are leaves
// holding one value, Composites group named children and re-emit every
// descendant change under a dotted path.
//
// Setting a leaf is not O(1): the change travels synchronously up through
// every ancestor and then out to whatever subscribes to the root. The tree is
// acyclic, so the cascade always terminates. Attaching a Composite below
// itself is a caller error and is not detected.
package observable

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tatianab/pokewatcher/internal/event"
)

var (
	ErrNoSuchPath   = errors.New("no such path")
	ErrTypeMismatch = errors.New("type mismatch")
	ErrNotLeaf      = errors.New("path is not a variable")
)

// Node is anything in the tree that reports changes.
type Node interface {
	Changed() *event.Event[event.Change]
}

// Leaf is a Node whose value can be replaced without knowing its type.
type Leaf interface {
	Node
	Value() any
	SetAny(v any) error
	SetAnySilent(v any) error
}

// Container is a Node with named children.
type Container interface {
	Node
	Child(name string) (Node, bool)
}

// Variable holds a single value. Every Set notifies subscribers, even when the
// value does not change.
type Variable[T comparable] struct {
	value   T
	changed *event.Event[event.Change]
}

func NewVariable[T comparable](initial T) *Variable[T] {
	return &Variable[T]{
		value:   initial,
		changed: event.New[event.Change]("variable"),
	}
}

func (v *Variable[T]) Get() T {
	return v.value
}

func (v *Variable[T]) Set(x T) {
	prev := v.value
	v.value = x
	v.changed.Emit(event.Change{Prev: prev, Next: x})
}

// SetSilent replaces the value without notifying anyone. Used for defaults.
func (v *Variable[T]) SetSilent(x T) {
	v.value = x
}

func (v *Variable[T]) Changed() *event.Event[event.Change] {
	return v.changed
}

func (v *Variable[T]) Value() any {
	return v.value
}

func (v *Variable[T]) SetAny(x any) error {
	t, err := coerce[T](x)
	if err != nil {
		return err
	}
	v.Set(t)
	return nil
}

func (v *Variable[T]) SetAnySilent(x any) error {
	t, err := coerce[T](x)
	if err != nil {
		return err
	}
	v.SetSilent(t)
	return nil
}

func coerce[T any](x any) (T, error) {
	var zero T
	if t, ok := x.(T); ok {
		return t, nil
	}
	if _, ok := any(zero).(int); ok {
		var n int
		switch x := x.(type) {
		case int8:
			n = int(x)
		case int16:
			n = int(x)
		case int32:
			n = int(x)
		case int64:
			n = int(x)
		case uint8:
			n = int(x)
		case uint16:
			n = int(x)
		case uint32:
			n = int(x)
		case uint64:
			n = int(x)
		case float64:
			n = int(x)
		default:
			return zero, fmt.Errorf("%w: cannot store %T as %T", ErrTypeMismatch, x, zero)
		}
		return any(n).(T), nil
	}
	return zero, fmt.Errorf("%w: cannot store %T as %T", ErrTypeMismatch, x, zero)
}

// Composite groups named children. Each child belongs to exactly one
// Composite.
type Composite struct {
	changed  *event.Event[event.Change]
	children map[string]Node
	order    []string
}

func NewComposite() *Composite {
	return &Composite{
		changed:  event.New[event.Change]("composite"),
		children: make(map[string]Node),
	}
}

func (c *Composite) Changed() *event.Event[event.Change] {
	return c.changed
}

// Attach adds child under name and forwards its changes with name prefixed
// to the path. It panics on a duplicate name.
func (c *Composite) Attach(name string, child Node) {
	if _, ok := c.children[name]; ok {
		panic(fmt.Sprintf("observable: duplicate child %q", name))
	}
	c.children[name] = child
	c.order = append(c.order, name)
	child.Changed().Watch(func(ch event.Change) {
		path := name
		if ch.Path != "" {
			path = name + "." + ch.Path
		}
		c.changed.Emit(event.Change{Path: path, Prev: ch.Prev, Next: ch.Next})
	})
}

func (c *Composite) Child(name string) (Node, bool) {
	n, ok := c.children[name]
	return n, ok
}

// Names lists children in attach order.
func (c *Composite) Names() []string {
	return append([]string(nil), c.order...)
}

// Lookup resolves a dotted path such as "battle.enemy.species".
func (c *Composite) Lookup(path string) (Node, error) {
	var node Node = c
	for _, part := range strings.Split(path, ".") {
		container, ok := node.(Container)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchPath, path)
		}
		node, ok = container.Child(part)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoSuchPath, path)
		}
	}
	return node, nil
}

// Set replaces the value of the variable at path.
func (c *Composite) Set(path string, v any) error {
	leaf, err := c.leaf(path)
	if err != nil {
		return err
	}
	if err := leaf.SetAny(v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// SetSilent replaces the value at path without notifications.
func (c *Composite) SetSilent(path string, v any) error {
	leaf, err := c.leaf(path)
	if err != nil {
		return err
	}
	if err := leaf.SetAnySilent(v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Get returns the value of the variable at path.
func (c *Composite) Get(path string) (any, error) {
	leaf, err := c.leaf(path)
	if err != nil {
		return nil, err
	}
	return leaf.Value(), nil
}

func (c *Composite) leaf(path string) (Leaf, error) {
	node, err := c.Lookup(path)
	if err != nil {
		return nil, err
	}
	leaf, ok := node.(Leaf)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLeaf, path)
	}
	return leaf, nil
}
