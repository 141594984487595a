package flowdef

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-onboard/pkg/model"
)

// Definition is a named flow as written on disk.
type Definition struct {
	ID      string       `json:"id,omitempty" yaml:"id,omitempty"`
	Title   string       `json:"title,omitempty" yaml:"title,omitempty"`
	Locale  string       `json:"locale,omitempty" yaml:"locale,omitempty"`
	Theme   string       `json:"theme,omitempty" yaml:"theme,omitempty"`
	Variant string       `json:"variant,omitempty" yaml:"variant,omitempty"`
	Pages   []model.Page `json:"pages" yaml:"pages"`

	// Source is the file the definition was read from.
	Source string `json:"-" yaml:"-"`
}

// Store holds every definition found in a filesystem, keyed by ID.
type Store struct {
	flows map[string]Definition
}

// LoadFS walks fsys and parses every JSON or YAML file as a flow
// definition. A definition without an ID takes its file name. A nil fsys
// yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{flows: make(map[string]Definition)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(p) {
			return nil
		}
		def, err := LoadFile(fsys, p)
		if err != nil {
			return err
		}
		if prev, exists := store.flows[def.ID]; exists {
			return fmt.Errorf("flowdef: duplicate flow %q (files %s and %s)", def.ID, prev.Source, p)
		}
		store.flows[def.ID] = def
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// LoadFile reads a single definition.
func LoadFile(fsys fs.FS, p string) (Definition, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return Definition{}, fmt.Errorf("flowdef: read %s: %w", p, err)
	}
	def, err := Parse(data, p)
	if err != nil {
		return Definition{}, err
	}
	if strings.TrimSpace(def.ID) == "" {
		base := path.Base(p)
		def.ID = strings.TrimSuffix(base, path.Ext(base))
	}
	return def, nil
}

// Parse decodes a JSON or YAML document. JSON is tried first.
func Parse(data []byte, source string) (Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definition{}, fmt.Errorf("flowdef: file %s is empty", source)
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		def = Definition{}
		if yerr := yaml.Unmarshal(data, &def); yerr != nil {
			return Definition{}, fmt.Errorf("flowdef: parse %s: invalid JSON or YAML: %w", source, yerr)
		}
	}
	def.ID = strings.TrimSpace(def.ID)
	def.Source = source
	return def, nil
}

// Flow returns the definition with the given ID.
func (s *Store) Flow(id string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	def, ok := s.flows[id]
	return def, ok
}

// IDs lists the stored flow IDs, sorted.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.flows))
	for id := range s.flows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any flows.
func (s *Store) Empty() bool {
	return s == nil || len(s.flows) == 0
}

func isDefinitionFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
