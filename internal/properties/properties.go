// Package properties describes the raw memory variables a game exposes: how
// to decode them, where they land in the game data, and whether the state
// machine sees them.
package properties

import (
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tatianab/pokewatcher/internal/fsm"
	"github.com/tatianab/pokewatcher/internal/observable"
	"gopkg.in/yaml.v3"
)

//go:embed tables/*.yaml
var tables embed.FS

var (
	ErrMissingProperty = errors.New("missing property")
	ErrDecode          = errors.New("cannot decode property")
	ErrInvalidTable    = errors.New("invalid property table")
)

type Type string

const (
	TypeInt    Type = "int"
	TypeBool   Type = "bool"
	TypeString Type = "string"
)

type Endian string

const (
	BigEndian    Endian = "big"
	LittleEndian Endian = "little"
)

// Property is the metadata of one raw variable.
type Property struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path,omitempty"`
	Type   Type   `yaml:"type"`
	Endian Endian `yaml:"endian,omitempty"`
	// Key picks a field out of a mapping value before string conversion.
	Key     string `yaml:"key,omitempty"`
	Default any    `yaml:"default,omitempty"`
	// Route sends the decoded value to the state machine.
	Route bool `yaml:"route,omitempty"`
}

// Notification is one change reported by the memory-watch bridge.
type Notification struct {
	Name   string   `yaml:"name"`
	Prev   any      `yaml:"prev,omitempty"`
	Value  any      `yaml:"value"`
	Bytes  []byte   `yaml:"bytes,omitempty"`
	Frozen bool     `yaml:"frozen,omitempty"`
	Fields []string `yaml:"fields,omitempty"`
}

// Table is the property set of one game family.
type Table struct {
	Family string
	props  map[string]*Property
	order  []string
}

type tableFile struct {
	Properties []*Property `yaml:"properties"`
}

// Load reads the embedded table of family.
func Load(family string) (*Table, error) {
	raw, err := tables.ReadFile("tables/" + family + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no property table for %q: %w", family, err)
	}
	return Parse(family, raw)
}

// Parse builds a table from YAML.
func Parse(family string, raw []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", family, err)
	}

	t := &Table{Family: family, props: make(map[string]*Property, len(f.Properties))}
	for _, p := range f.Properties {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", family, err)
		}
		if _, dup := t.props[p.Name]; dup {
			return nil, fmt.Errorf("%s: %w: duplicate property %s", family, ErrInvalidTable, p.Name)
		}
		t.props[p.Name] = p
		t.order = append(t.order, p.Name)
	}
	return t, nil
}

func (p *Property) validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: property without a name", ErrInvalidTable)
	}
	switch p.Type {
	case TypeInt, TypeBool, TypeString:
	default:
		return fmt.Errorf("%w: %s: unknown type %q", ErrInvalidTable, p.Name, p.Type)
	}
	switch p.Endian {
	case "":
		p.Endian = BigEndian
	case BigEndian, LittleEndian:
	default:
		return fmt.Errorf("%w: %s: unknown endianness %q", ErrInvalidTable, p.Name, p.Endian)
	}
	if p.Path == "" && !p.Route {
		return fmt.Errorf("%w: %s is neither stored nor routed", ErrInvalidTable, p.Name)
	}
	if p.Default != nil {
		d, err := p.Decode(p.Default)
		if err != nil {
			return err
		}
		p.Default = d
	}
	return nil
}

func (t *Table) Lookup(name string) (*Property, bool) {
	p, ok := t.props[name]
	return p, ok
}

// Properties returns every property in table order.
func (t *Table) Properties() []*Property {
	out := make([]*Property, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.props[name])
	}
	return out
}

// Routed returns the names of the properties sent to the state machine.
func (t *Table) Routed() []string {
	var names []string
	for _, name := range t.order {
		if t.props[name].Route {
			names = append(names, name)
		}
	}
	return names
}

// Require checks that every variable of a state machine vocabulary is
// routed by the table.
func (t *Table) Require(vocab []fsm.Var) error {
	var errs []error
	for _, v := range vocab {
		p, ok := t.props[string(v)]
		if !ok || !p.Route {
			errs = append(errs, fmt.Errorf("%w: %s: %s is not routed", ErrMissingProperty, t.Family, v))
		}
	}
	return errors.Join(errs...)
}

// ApplyDefaults stores every default into data without notifying anyone.
func (t *Table) ApplyDefaults(data *observable.Composite) error {
	for _, p := range t.Properties() {
		if p.Default == nil || p.Path == "" {
			continue
		}
		if err := data.SetSilent(p.Path, p.Default); err != nil {
			return fmt.Errorf("default of %s: %w", p.Name, err)
		}
	}
	return nil
}

// Decode converts a raw value into the property's type. A nil value decodes
// to the default, which may itself be nil.
func (p *Property) Decode(raw any) (any, error) {
	if raw == nil {
		return p.Default, nil
	}
	var (
		v   any
		err error
	)
	switch p.Type {
	case TypeBool:
		v, err = p.decodeBool(raw)
	case TypeInt:
		v, err = p.decodeInt(raw)
	default:
		v, err = p.decodeString(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, p.Name, err)
	}
	return v, nil
}

// DecodeNotification decodes the new and previous values of n. The raw
// bytes stand in for a missing value, and an unreported previous value
// decodes to the default.
func (p *Property) DecodeNotification(n Notification) (prev, value any, err error) {
	raw := n.Value
	if raw == nil && len(n.Bytes) > 0 {
		raw = n.Bytes
	}
	if value, err = p.Decode(raw); err != nil {
		return nil, nil, err
	}
	if prev, err = p.Decode(n.Prev); err != nil {
		return nil, nil, err
	}
	return prev, value, nil
}

func (p *Property) decodeBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case []byte:
		for _, b := range v {
			if b != 0 {
				return true, nil
			}
		}
		return false, nil
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b, nil
		}
		return v != "" && v != "0", nil
	}
	n, err := p.decodeInt(raw)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

func (p *Property) decodeInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		return int(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return p.fromBytes(v)
	case []any:
		b := make([]byte, len(v))
		for i, x := range v {
			n, err := p.decodeInt(x)
			if err != nil || n < 0 || n > 0xFF {
				return 0, fmt.Errorf("byte %d out of range: %v", i, x)
			}
			b[i] = byte(n)
		}
		return p.fromBytes(b)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 0, 64)
		if err != nil {
			return 0, err
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("unsupported value %T", raw)
}

func (p *Property) fromBytes(b []byte) (int, error) {
	if len(b) == 0 || len(b) > 8 {
		return 0, fmt.Errorf("cannot read %d bytes as an int", len(b))
	}
	buf := make([]byte, 8)
	if p.Endian == LittleEndian {
		copy(buf, b)
		return int(binary.LittleEndian.Uint64(buf)), nil
	}
	copy(buf[8-len(b):], b)
	return int(binary.BigEndian.Uint64(buf)), nil
}

func (p *Property) decodeString(raw any) (string, error) {
	if p.Key != "" {
		m, ok := raw.(map[string]any)
		if !ok {
			return "", fmt.Errorf("expected a mapping with %q, got %T", p.Key, raw)
		}
		v, ok := m[p.Key]
		if !ok {
			return "", fmt.Errorf("mapping has no %q", p.Key)
		}
		raw = v
	}
	switch v := raw.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	}
	return fmt.Sprint(raw), nil
}
