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

// Package genome loads a project genome file from disk, validates its
// shape, and layers tool-level config defaults underneath whatever the
// genome itself specifies.
package genome

import (
	"encoding/json"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/spf13/afero"

	"github.com/thearchitech/engine/internal/config"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/runctx"
)

const (
	errReadGenome  = "failed to read genome file"
	errParseGenome = "failed to parse genome file"
)

// knownFields lists the top-level genome keys this loader understands.
// Anything else in the document is reported as an unknown-field warning
// rather than an error, so older or forward-dated genomes still load.
var knownFields = map[string]bool{
	"project":         true,
	"layout":          true,
	"modules":         true,
	"packages":        true,
	"paths":           true,
	"moduleOverrides": true,
	"recipeBooks":     true,
	"options":         true,
}

// Load reads and parses the genome file at path, returning the parsed
// genome plus any unknown-field warnings encountered.
func Load(fs afero.Fs, path string) (module.Genome, []runctx.Warning, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return module.Genome{}, nil, errors.Wrap(err, errReadGenome)
	}

	var g module.Genome
	if err := json.Unmarshal(b, &g); err != nil {
		return module.Genome{}, nil, errors.Wrap(err, errParseGenome)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return module.Genome{}, nil, errors.Wrap(err, errParseGenome)
	}

	var warnings []runctx.Warning
	for field := range raw {
		if !knownFields[field] {
			warnings = append(warnings, runctx.Warning{
				Kind:    runctx.WarningUnknownField,
				Message: "unrecognized top-level genome field: " + field,
			})
		}
	}

	if g.Project.Name == "" {
		return module.Genome{}, warnings, errors.New("genome is missing required field project.name")
	}

	return g, warnings, nil
}

// ApplyDefaults layers cfg's tool-level defaults underneath g. SkipInstall
// is a plain bool, so a genome's explicit false cannot be told apart from an
// unset value: cfg.SkipInstall=true turns it on either way. RecipeBooks named in
// cfg are appended (deduplicated) rather than replacing the genome's own
// list, since a genome's recipe books are additive to the tool defaults.
func ApplyDefaults(g module.Genome, cfg config.Config) module.Genome {
	if !g.Options.SkipInstall && cfg.SkipInstall {
		g.Options.SkipInstall = true
	}

	seen := make(map[string]bool, len(g.RecipeBooks))
	for _, name := range g.RecipeBooks {
		seen[name] = true
	}
	for _, name := range cfg.RecipeBooks {
		if !seen[name] {
			g.RecipeBooks = append(g.RecipeBooks, name)
			seen[name] = true
		}
	}

	return g
}
