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

package genome

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thearchitech/engine/internal/config"
	"github.com/thearchitech/engine/internal/runctx"
)

func TestLoadParsesValidGenome(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/genome.json", []byte(`{
		"project": {"name": "demo"},
		"modules": [{"id": "nextjs-framework"}]
	}`), 0o644))

	g, warnings, err := Load(fs, "/genome.json")
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "demo", g.Project.Name)
	assert.Len(t, g.Modules, 1)
}

func TestLoadMissingProjectNameErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/genome.json", []byte(`{"project": {}}`), 0o644))

	_, _, err := Load(fs, "/genome.json")
	require.Error(t, err)
}

func TestLoadWarnsOnUnknownField(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/genome.json", []byte(`{
		"project": {"name": "demo"},
		"futureFeature": true
	}`), 0o644))

	g, warnings, err := Load(fs, "/genome.json")
	require.NoError(t, err)
	assert.Equal(t, "demo", g.Project.Name)
	require.Len(t, warnings, 1)
	assert.Equal(t, runctx.WarningUnknownField, warnings[0].Kind)
}

func TestLoadMissingFileErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, _, err := Load(fs, "/nope.json")
	require.Error(t, err)
}

func TestApplyDefaultsMergesRecipeBooksAndConfigSkipInstallOverridesGenomeFalse(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/genome.json", []byte(`{
		"project": {"name": "demo"},
		"recipeBooks": ["team-standard"],
		"options": {"skipInstall": false}
	}`), 0o644))

	g, _, err := Load(fs, "/genome.json")
	require.NoError(t, err)

	cfg := config.Config{
		SkipInstall: true,
		RecipeBooks: []string{"team-standard", "org-defaults"},
	}
	merged := ApplyDefaults(g, cfg)

	assert.ElementsMatch(t, []string{"team-standard", "org-defaults"}, merged.RecipeBooks)
	assert.True(t, merged.Options.SkipInstall)
}
