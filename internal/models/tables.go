package models

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tables/dex.yaml
var dexYAML []byte

//go:embed tables/maps.yaml
var mapsYAML []byte

// Dex maps species names to national dex numbers.
type Dex struct {
	names   []string
	numbers map[string]int
}

var (
	nationalDex     *Dex
	nationalDexOnce sync.Once
)

// NationalDex returns the shared dex parsed from the embedded table.
func NationalDex() *Dex {
	nationalDexOnce.Do(func() {
		var raw struct {
			Species []string `yaml:"species"`
		}
		if err := yaml.Unmarshal(dexYAML, &raw); err != nil {
			panic(fmt.Sprintf("models: embedded dex: %v", err))
		}
		nationalDex = &Dex{
			names:   raw.Species,
			numbers: make(map[string]int, len(raw.Species)),
		}
		for i, name := range raw.Species {
			nationalDex.numbers[name] = i + 1
		}
	})
	return nationalDex
}

// Number returns the national number of species, or 0 when unknown.
func (d *Dex) Number(species string) int {
	return d.numbers[normalizeSpecies(species)]
}

// Name returns the species with national number n, or "" when unknown.
func (d *Dex) Name(n int) string {
	if n < 1 || n > len(d.names) {
		return ""
	}
	return d.names[n-1]
}

func (d *Dex) Len() int {
	return len(d.names)
}

func normalizeSpecies(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer("'", "", ".", "", "♀", "_F", "♂", "_M", " ", "_", "-", "_").Replace(s)
	s = strings.ReplaceAll(s, "__", "_")
	return s
}

// MapTable names map groups for one game family.
type MapTable struct {
	Family string
	groups map[int]string
}

// LoadMapTable parses the embedded group names of family. An unknown family
// yields an empty table whose names fall back to the numeric form.
func LoadMapTable(family string) (*MapTable, error) {
	var raw map[string]map[int]string
	if err := yaml.Unmarshal(mapsYAML, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse map table: %w", err)
	}
	return &MapTable{Family: family, groups: raw[family]}, nil
}

// Group returns the name of group, and whether the table knows it.
func (t *MapTable) Group(group int) (string, bool) {
	name, ok := t.groups[group]
	return name, ok
}

// Name formats a location as "GROUP/NN".
func (t *MapTable) Name(group, number int) string {
	name, ok := t.Group(group)
	if !ok {
		name = fmt.Sprintf("GROUP_%d", group)
	}
	return fmt.Sprintf("%s/%02d", name, number)
}
