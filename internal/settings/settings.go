// Package settings persists user preferences, such as hours per tomato, in the
// tomato config file.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/schema"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// HoursPerTomatoKey is the config key of the conversion factor.
const HoursPerTomatoKey = "hours-per-tomato"

// FileName is the config file name looked up in the working and home directories.
const FileName = ".tomato.yaml"

// Store reads and writes settings in one YAML file.
// Keys it does not know about are kept when the file is rewritten.
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

// Open loads the settings at path. A missing file yields the defaults.
func Open(fsys afero.Fs, path string) (*Store, error) {
	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault(HoursPerTomatoKey, schema.DefaultHoursPerTomato)

	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to check settings file %s: %w", path, err)
	}
	if exists {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading settings file %s: %w", path, err)
		}
	}

	s := &Store{v: v, path: path}
	if err := contract.ValidateHoursPerTomato(s.HoursPerTomato()); err != nil {
		return nil, fmt.Errorf("invalid settings file %s: %w", path, err)
	}
	return s, nil
}

// DefaultPath picks the file to persist settings to: the config file already in
// use when there is one, otherwise FileName in the home directory.
func DefaultPath(configFileUsed string) string {
	if configFileUsed != "" {
		return configFileUsed
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(homeDir, FileName)
}

// Path returns the settings file.
func (s *Store) Path() string {
	return s.path
}

// Settings returns a snapshot of the current values.
func (s *Store) Settings() contract.Settings {
	return contract.Settings{HoursPerTomato: s.HoursPerTomato()}
}

// HoursPerTomato returns the conversion factor.
func (s *Store) HoursPerTomato() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetFloat64(HoursPerTomatoKey)
}

// SetHoursPerTomato validates and persists the conversion factor.
func (s *Store) SetHoursPerTomato(hours float64) error {
	if err := contract.ValidateHoursPerTomato(hours); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(HoursPerTomatoKey, hours)
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to save settings to %s: %w", s.path, err)
	}
	return nil
}
