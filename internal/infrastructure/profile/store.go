package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"toolgen/internal/application/port/output"
	"toolgen/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

var _ output.ProfileStore = (*Store)(nil)

// Store persists the authentication profile as a YAML file. Load returns
// (nil, nil) when the file does not exist yet.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load() (*entity.AuthProfile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p entity.AuthProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return &p, nil
}

func (s *Store) Save(p *entity.AuthProfile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create profile dir: %w", err)
		}
	}

	// Contains credentials, keep it owner-only.
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}
