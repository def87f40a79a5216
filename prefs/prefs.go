// Package prefs is a small disk-backed preference store. It exists so that
// chip revision, PAL/NTSC selection, warp-mode default, and drive-attach
// state can be configured once and persisted between runs, the way the
// teacher's own prefs package backs hardware.Preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/bsvec/virtualc64/cerr"
)

// Bool is a persistable boolean preference value.
type Bool struct {
	mu    sync.Mutex
	value bool
}

// Get returns the current value.
func (b *Bool) Get() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

// Set updates the current value.
func (b *Bool) Set(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.value = v
}

// String is a persistable string preference value, used for the chip
// revision and video standard selections.
type String struct {
	mu    sync.Mutex
	value string
}

func (s *String) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *String) Set(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
}

// entry pairs a preference key with its backing value for (de)serialisation.
type entry struct {
	key string
	val interface{ marshal() (string, error) }
}

func (b *Bool) marshal() (string, error) {
	data, err := json.Marshal(b.Get())
	return string(data), err
}

func (s *String) marshal() (string, error) {
	data, err := json.Marshal(s.Get())
	return string(data), err
}

// Disk is a collection of named preferences backed by a single JSON file on
// disk, mirroring the teacher's prefs.Disk usage surface
// (Add/Load/Save/Reset/String).
type Disk struct {
	path    string
	entries []entry
	byKey   map[string]int
}

// NewDisk creates a preference store backed by the file at path. The file is
// not read until Load is called.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, cerr.New(cerr.InvalidConfiguration, "prefs: empty path")
	}
	return &Disk{path: path, byKey: make(map[string]int)}, nil
}

// Add registers a preference under key. v must be *Bool or *String.
func (d *Disk) Add(key string, v interface{ marshal() (string, error) }) error {
	if _, exists := d.byKey[key]; exists {
		return cerr.New(cerr.InvalidConfiguration, "prefs: duplicate key %q", key)
	}
	d.byKey[key] = len(d.entries)
	d.entries = append(d.entries, entry{key: key, val: v})
	return nil
}

// Load reads preference values from disk. If quiet is true, a missing file
// is not treated as an error.
func (d *Disk) Load(quiet bool) error {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) && quiet {
			return nil
		}
		return cerr.Wrap(cerr.FileError, err)
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return cerr.Wrap(cerr.FormatError, err)
	}

	for _, e := range d.entries {
		raw, ok := values[e.key]
		if !ok {
			continue
		}
		switch v := e.val.(type) {
		case *Bool:
			var b bool
			if err := json.Unmarshal(raw, &b); err == nil {
				v.Set(b)
			}
		case *String:
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				v.Set(s)
			}
		}
	}
	return nil
}

// Save writes all registered preference values to disk.
func (d *Disk) Save() error {
	values := make(map[string]json.RawMessage, len(d.entries))
	for _, e := range d.entries {
		s, err := e.val.marshal()
		if err != nil {
			return cerr.Wrap(cerr.FormatError, err)
		}
		values[e.key] = json.RawMessage(s)
	}

	raw, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return cerr.Wrap(cerr.FormatError, err)
	}

	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cerr.Wrap(cerr.FileError, err)
		}
	}

	if err := os.WriteFile(d.path, raw, 0o644); err != nil {
		return cerr.Wrap(cerr.FileError, err)
	}
	return nil
}

// Reset sets every registered preference back to its Go zero value.
func (d *Disk) Reset() error {
	for _, e := range d.entries {
		switch v := e.val.(type) {
		case *Bool:
			v.Set(false)
		case *String:
			v.Set("")
		}
	}
	return nil
}

// String summarises the current preference values, the way
// hardware.Preferences.String delegates to its Disk.
func (d *Disk) String() string {
	out := "{"
	for i, e := range d.entries {
		if i > 0 {
			out += ", "
		}
		s, _ := e.val.marshal()
		out += e.key + "=" + s
	}
	return out + "}"
}
