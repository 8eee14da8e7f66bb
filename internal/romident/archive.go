package romident

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

// Leading bytes of each supported container. An empty zip starts with its
// end-of-directory record.
var (
	magicZIP    = []byte("PK\x03\x04")
	magicZIPEnd = []byte("PK\x05\x06")
	magic7z     = []byte{'7', 'z', 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte("Rar!")
)

// The largest GBA cartridge is 32MB.
const maxROMSize = 32 << 20

type unpacker func(path string) ([]byte, string, error)

// Load reads a ROM image from path, unpacking the first ROM file of a zip,
// 7z, rar or gzip archive. It returns the image and its base name.
func Load(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 8)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, "", fmt.Errorf("failed to read file header: %w", err)
	}

	if unpack := unpackerFor(header[:n]); unpack != nil {
		return unpack(path)
	}
	if !isROMFile(path) {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("failed to seek file: %w", err)
	}
	data, err := readROM(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read ROM: %w", err)
	}
	return data, filepath.Base(path), nil
}

func unpackerFor(header []byte) unpacker {
	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return fromZIP
	case bytes.HasPrefix(header, magic7z):
		return from7z
	case bytes.HasPrefix(header, magicRAR):
		return fromRAR
	case bytes.HasPrefix(header, magicGzip):
		return fromGzip
	}
	return nil
}

func isROMFile(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

func readROM(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxROMSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// entry is one file of a random-access archive.
type entry struct {
	name string
	dir  bool
	open func() (io.ReadCloser, error)
}

func firstROM(entries []entry) ([]byte, string, error) {
	for _, e := range entries {
		if e.dir || !isROMFile(e.name) {
			continue
		}
		rc, err := e.open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s in archive: %w", e.name, err)
		}
		data, err := readROM(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", e.name, err)
		}
		return data, filepath.Base(e.name), nil
	}
	return nil, "", ErrNoROMFile
}

func fromZIP(path string) ([]byte, string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	entries := make([]entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, entry{f.Name, f.FileInfo().IsDir(), f.Open})
	}
	return firstROM(entries)
}

func from7z(path string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()

	entries := make([]entry, 0, len(r.File))
	for _, f := range r.File {
		entries = append(entries, entry{f.Name, f.FileInfo().IsDir(), f.Open})
	}
	return firstROM(entries)
}

// fromRAR walks the archive as a stream; rar entries cannot be opened out of
// order.
func fromRAR(path string) ([]byte, string, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	for {
		h, err := r.Next()
		if err == io.EOF {
			return nil, "", ErrNoROMFile
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read rar entry: %w", err)
		}
		if h.IsDir || !isROMFile(h.Name) {
			continue
		}
		data, err := readROM(r)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", h.Name, err)
		}
		return data, filepath.Base(h.Name), nil
	}
}

// fromGzip unpacks a single compressed ROM such as crystal.gbc.gz.
func fromGzip(path string) ([]byte, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open gzip: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	data, err := readROM(gr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decompress gzip: %w", err)
	}
	name := gr.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return data, name, nil
}
