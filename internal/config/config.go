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

// Package config is the small, explicit Config/Source pair used to resolve
// a user's tool-level defaults (~/.architechrc) ahead of composing a
// specific genome. It never substitutes for genome state: options here are
// defaults a genome is free to override.
package config

import "path/filepath"

// ConfigDir and ConfigFile locate the default configuration path under the
// user's home directory: the file sits directly in $HOME, so ConfigDir is
// empty.
const (
	ConfigDir  = ""
	ConfigFile = ".architechrc"
)

// Config is the persisted tool-level configuration.
type Config struct {
	// DefaultMarketplace is the marketplace root used when a genome does
	// not name one explicitly.
	DefaultMarketplace string `json:"defaultMarketplace,omitempty"`
	// SkipInstall mirrors genome.Options.SkipInstall as a process-wide
	// default. A genome can only turn it on: when this is true, a genome's
	// false (explicit or omitted) does not override it.
	SkipInstall bool `json:"skipInstall,omitempty"`
	// RecipeBooks are recipe book names implicitly appended to every
	// genome's own RecipeBooks list, deduplicated by the genome loader.
	RecipeBooks []string `json:"recipeBooks,omitempty"`
	// ForceRegenerate mirrors the composer's forceRegenerate flag as a
	// process-wide default.
	ForceRegenerate bool `json:"forceRegenerate,omitempty"`
}

// Extract performs extraction of configuration from the provided source.
func Extract(src Source) (*Config, error) {
	return src.GetConfig()
}

// GetDefaultPath returns the default config path rooted at $HOME, or an
// error if the home directory cannot be determined.
func GetDefaultPath(homeDir func() (string, error)) (string, error) {
	h, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(h, ConfigDir, ConfigFile), nil
}
