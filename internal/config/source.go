// Copyright 2024 The Architech Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Source is a source for interacting with a Config.
type Source interface {
	GetConfig() (*Config, error)
	UpdateConfig(*Config) error
}

// HomeDirFn indicates the location of a user's home directory.
type HomeDirFn func() (string, error)

// FSSourceModifier modifies an FSSource during construction.
type FSSourceModifier func(*FSSource)

// WithFS overrides the default OS filesystem (used to inject
// afero.NewMemMapFs() in tests).
func WithFS(fs afero.Fs) FSSourceModifier {
	return func(s *FSSource) { s.fs = fs }
}

// WithHomeDirFn overrides the default os.UserHomeDir.
func WithHomeDirFn(fn HomeDirFn) FSSourceModifier {
	return func(s *FSSource) { s.home = fn }
}

// FSSource reads and writes a Config on a filesystem rooted at $HOME.
type FSSource struct {
	fs   afero.Fs
	home HomeDirFn
	path string
}

// NewFSSource constructs an FSSource, creating an empty config file if one
// does not already exist at the resolved default path.
func NewFSSource(modifiers ...FSSourceModifier) (*FSSource, error) {
	src := &FSSource{fs: afero.NewOsFs(), home: os.UserHomeDir}
	for _, m := range modifiers {
		m(src)
	}

	h, err := src.home()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(h, ConfigDir)
	src.path = filepath.Join(dir, ConfigFile)

	if _, err := src.fs.Stat(src.path); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := src.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		if err := afero.WriteFile(src.fs, src.path, []byte("{}"), 0o600); err != nil {
			return nil, err
		}
	}
	return src, nil
}

// GetConfig reads and parses the config file, returning a zero-value
// Config if it is empty.
func (s *FSSource) GetConfig() (*Config, error) {
	b, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if len(b) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UpdateConfig overwrites the config file with c.
func (s *FSSource) UpdateConfig(c *Config) error {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.path, b, 0o600)
}

// MemorySource is an in-memory Source for tests: GetConfig/UpdateConfig
// operate on a value held directly in the struct, no filesystem involved.
type MemorySource struct {
	Config Config
}

// NewMemorySource constructs a MemorySource seeded with cfg.
func NewMemorySource(cfg Config) *MemorySource {
	return &MemorySource{Config: cfg}
}

func (s *MemorySource) GetConfig() (*Config, error) {
	cfg := s.Config
	return &cfg, nil
}

func (s *MemorySource) UpdateConfig(c *Config) error {
	s.Config = *c
	return nil
}
