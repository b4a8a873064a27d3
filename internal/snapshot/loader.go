package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
)

// DefaultIndex is the entry the dashboard has always shown.
const DefaultIndex = 19

// ErrEntryNotFound is returned when the configured entry index is not in the dataset.
var ErrEntryNotFound = errors.New("snapshot entry not found")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Source defines the contract for anything that can hand over the selected entry.
type Source interface {
	Load(ctx context.Context) (*Entry, error)
}

// Decode parses a snapshot dataset.
func Decode(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return ds, nil
}

// LoadFile reads and decodes the snapshot file at path.
func LoadFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Entry returns the entry at index.
func (ds Dataset) Entry(index int) (*Entry, error) {
	if index < 0 || index >= len(ds) {
		return nil, fmt.Errorf("%w: index %d (dataset has %d entries)", ErrEntryNotFound, index, len(ds))
	}
	return &ds[index], nil
}

// FileSource loads one entry from a snapshot file on disk.
type FileSource struct {
	Path  string
	Index int
}

// NewFileSource creates a FileSource.
func NewFileSource(path string, index int) *FileSource {
	return &FileSource{Path: path, Index: index}
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds, err := LoadFile(s.Path)
	if err != nil {
		return nil, err
	}
	return ds.Entry(s.Index)
}

// StaticSource serves an entry already in memory.
type StaticSource struct {
	Entry *Entry
}

// Load implements Source.
func (s StaticSource) Load(ctx context.Context) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Entry == nil {
		return nil, ErrEntryNotFound
	}
	return s.Entry, nil
}
