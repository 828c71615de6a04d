// Package profile keeps saved Wi-Fi networks in a YAML file.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v2"
	"i4.energy/across/wifictl/wifi"
)

// DefaultCapacity is the number of profile slots when none is given.
const DefaultCapacity = 8

var (
	// ErrFull is returned by Add when every slot is taken.
	ErrFull = errors.New("profile store full")

	// ErrNotFound is returned for an index that holds no profile.
	ErrNotFound = errors.New("profile not found")
)

type record struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password,omitempty"`
	Security string `yaml:"security"`
}

type document struct {
	// Profiles is indexed by slot; deleted slots are null.
	Profiles []*record `yaml:"profiles"`
}

// Store is a fixed number of profile slots persisted in a YAML file. A
// profile keeps its index until it is deleted; Add reuses the lowest free
// slot. Store is safe for concurrent use.
type Store struct {
	path     string
	capacity int

	mu    sync.Mutex
	slots []*record
}

// Open loads the store at path. A missing file is an empty store.
func Open(path string, capacity int) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{path: path, capacity: capacity}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	if len(doc.Profiles) > capacity {
		return nil, fmt.Errorf("%s holds %d profiles, capacity is %d", path, len(doc.Profiles), capacity)
	}
	for i, r := range doc.Profiles {
		if r == nil {
			continue
		}
		if _, err := wifi.ParseSecurity(r.Security); err != nil {
			return nil, fmt.Errorf("profile %d: %w", i, err)
		}
	}
	s.slots = doc.Profiles
	return s, nil
}

// Add saves p in the lowest free slot and returns its index.
func (s *Store) Add(p wifi.NetworkProfile) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &record{SSID: p.SSID, Password: p.Password, Security: p.Security.String()}

	index := -1
	for i, slot := range s.slots {
		if slot == nil {
			index = i
			break
		}
	}
	if index < 0 {
		if len(s.slots) >= s.capacity {
			return 0, ErrFull
		}
		index = len(s.slots)
		s.slots = append(s.slots, nil)
	}

	s.slots[index] = r
	if err := s.save(); err != nil {
		s.slots[index] = nil
		s.trim()
		return 0, err
	}
	return index, nil
}

// Get returns the profile at index.
func (s *Store) Get(index int) (wifi.NetworkProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.slots) || s.slots[index] == nil {
		return wifi.NetworkProfile{}, fmt.Errorf("%w: index %d", ErrNotFound, index)
	}
	r := s.slots[index]
	sec, _ := wifi.ParseSecurity(r.Security)
	return wifi.NetworkProfile{SSID: r.SSID, Password: r.Password, Security: sec}, nil
}

// Delete frees the slot at index.
func (s *Store) Delete(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.slots) || s.slots[index] == nil {
		return fmt.Errorf("%w: index %d", ErrNotFound, index)
	}
	old := s.slots[index]
	s.slots[index] = nil
	s.trim()
	if err := s.save(); err != nil {
		if index >= len(s.slots) {
			s.slots = append(s.slots, make([]*record, index+1-len(s.slots))...)
		}
		s.slots[index] = old
		return err
	}
	return nil
}

// Len returns the number of saved profiles.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.slots {
		if r != nil {
			n++
		}
	}
	return n
}

// trim drops trailing free slots.
func (s *Store) trim() {
	for len(s.slots) > 0 && s.slots[len(s.slots)-1] == nil {
		s.slots = s.slots[:len(s.slots)-1]
	}
}

// save writes the slots to a temporary file and renames it over the store.
func (s *Store) save() error {
	data, err := yaml.Marshal(document{Profiles: s.slots})
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	// Passwords are stored in the clear
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	return nil
}

var _ wifi.ProfileStore = (*Store)(nil)
