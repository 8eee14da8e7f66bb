// Package romident names the game inside a ROM image from its cartridge
// header, so a session can start without a configured game.
package romident

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownROM        = errors.New("unrecognized ROM")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoROMFile         = errors.New("no ROM file found in archive")
	ErrFileTooLarge      = errors.New("file exceeds maximum size limit")
)

// Extensions are the ROM file extensions looked for inside archives.
var Extensions = []string{".gb", ".gbc", ".gba"}

type Platform string

const (
	GameBoy        Platform = "gb"
	GameBoyAdvance Platform = "gba"
)

// Header offsets.
const (
	gbLogo    = 0x104
	gbTitle   = 0x134
	gbEnd     = 0x144
	gbaTitle  = 0xA0
	gbaCode   = 0xAC
	gbaFixed  = 0xB2
	gbaEnd    = 0xC0
	gbaMarker = 0x96
)

var gbLogoStart = []byte{0xCE, 0xED, 0x66, 0x66}

// ROM describes an identified cartridge.
type ROM struct {
	File     string
	Platform Platform
	Title    string
	Code     string
	// Game is the name handed to games.Lookup.
	Game string
}

// Game Boy titles run into the manufacturer code on colour cartridges, so
// they are matched by prefix.
var gbTitles = []struct {
	prefix string
	game   string
}{
	{"POKEMON RED", "Pokemon Red"},
	{"POKEMON BLUE", "Pokemon Blue"},
	{"POKEMON YELLOW", "Pokemon Yellow"},
	{"POKEMON_GLD", "Pokemon Gold"},
	{"POKEMON_SLV", "Pokemon Silver"},
	{"PM_CRYSTAL", "Pokemon Crystal"},
}

// GBA game codes without the trailing region letter.
var gbaCodes = map[string]string{
	"BPE": "Pokemon Emerald",
	"BPR": "Pokemon FireRed",
}

// Identify loads the ROM at path and names its game.
func Identify(path string) (*ROM, error) {
	data, name, err := Load(path)
	if err != nil {
		return nil, err
	}
	rom, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	rom.File = name
	return rom, nil
}

// Parse reads the cartridge header of a raw image.
func Parse(data []byte) (*ROM, error) {
	if len(data) >= gbEnd && bytes.HasPrefix(data[gbLogo:], gbLogoStart) {
		title := headerString(data[gbTitle:gbEnd])
		for _, t := range gbTitles {
			if strings.HasPrefix(title, t.prefix) {
				return &ROM{Platform: GameBoy, Title: title, Game: t.game}, nil
			}
		}
		return nil, fmt.Errorf("%w: title %q", ErrUnknownROM, title)
	}

	if len(data) >= gbaEnd && data[gbaFixed] == gbaMarker {
		title := headerString(data[gbaTitle:gbaCode])
		code := headerString(data[gbaCode : gbaCode+4])
		if len(code) == 4 {
			if game, ok := gbaCodes[code[:3]]; ok {
				return &ROM{Platform: GameBoyAdvance, Title: title, Code: code, Game: game}, nil
			}
		}
		return nil, fmt.Errorf("%w: game code %q", ErrUnknownROM, code)
	}

	return nil, fmt.Errorf("%w: no cartridge header", ErrUnknownROM)
}

func headerString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimRight(string(b), " ")
}
