// Package catalog holds the list of regulations a user can pick from: a
// human-readable description paired with its BWB identifier. The list is
// built in, or loaded from a YAML file that can be watched for changes.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/bwbnav/pkg/bwb"
)

// Entry pairs a description with the identifier it stands for.
type Entry struct {
	Description string                 `yaml:"description" json:"description"`
	Identifier  bwb.DocumentIdentifier `yaml:"identifier" json:"identifier"`
}

// ErrEmptyCatalog is returned for a catalog file without entries. A file
// caught mid-write by the watcher looks like this, so it never replaces a
// loaded catalog.
var ErrEmptyCatalog = errors.New("catalog has no entries")

// file is the on-disk layout of a catalog.
type file struct {
	Entries []Entry `yaml:"entries"`
}

// Default returns the built-in entries.
func Default() []Entry {
	return []Entry{
		{Description: "Regeling kansspelen op afstand", Identifier: "BWBR0044767"},
		{Description: "Item 2 beschrijving", Identifier: "ID2"},
		{Description: "Item 3 beschrijving", Identifier: "ID3"},
	}
}

// Validate checks that every entry is complete and that neither
// descriptions nor identifiers repeat.
func Validate(entries []Entry) error {
	descriptions := make(map[string]bool, len(entries))
	identifiers := make(map[bwb.DocumentIdentifier]bool, len(entries))

	for position, entry := range entries {
		if strings.TrimSpace(entry.Description) == "" {
			return fmt.Errorf("entry %d: description is required", position)
		}
		if strings.TrimSpace(string(entry.Identifier)) == "" {
			return fmt.Errorf("entry %d (%s): identifier is required", position, entry.Description)
		}
		if descriptions[entry.Description] {
			return fmt.Errorf("entry %d: duplicate description %q", position, entry.Description)
		}
		if identifiers[entry.Identifier] {
			return fmt.Errorf("entry %d: duplicate identifier %q", position, entry.Identifier)
		}
		descriptions[entry.Description] = true
		identifiers[entry.Identifier] = true
	}
	return nil
}

// Parse decodes catalog YAML.
func Parse(data []byte) ([]Entry, error) {
	var parsed file
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if len(parsed.Entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	if err := Validate(parsed.Entries); err != nil {
		return nil, err
	}
	return parsed.Entries, nil
}

// LoadFile reads and decodes a catalog file.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return entries, nil
}

// Catalog is an ordered, concurrency-safe set of entries.
type Catalog struct {
	mu      sync.RWMutex
	entries []Entry
}

// New creates a catalog holding entries.
func New(entries []Entry) (*Catalog, error) {
	if err := Validate(entries); err != nil {
		return nil, err
	}
	return &Catalog{entries: cloneEntries(entries)}, nil
}

// NewDefault creates a catalog holding the built-in entries.
func NewDefault() *Catalog {
	return &Catalog{entries: Default()}
}

// Open creates a catalog from a YAML file. An empty path yields the
// built-in catalog.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return NewDefault(), nil
	}
	entries, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &Catalog{entries: entries}, nil
}

// Entries returns the entries in catalog order.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneEntries(c.entries)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Lookup finds an entry by identifier or by exact description.
func (c *Catalog) Lookup(query string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, entry := range c.entries {
		if string(entry.Identifier) == query || entry.Description == query {
			return entry, true
		}
	}
	return Entry{}, false
}

// Replace swaps in a new set of entries.
func (c *Catalog) Replace(entries []Entry) error {
	if err := Validate(entries); err != nil {
		return err
	}
	c.mu.Lock()
	c.entries = cloneEntries(entries)
	c.mu.Unlock()
	return nil
}

func cloneEntries(entries []Entry) []Entry {
	cloned := make([]Entry, len(entries))
	copy(cloned, entries)
	return cloned
}
