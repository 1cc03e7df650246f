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

package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thearchitech/engine/internal/marketplace"
	"github.com/thearchitech/engine/internal/module"
)

func newBookedMarketplace() *marketplace.StaticMarketplace {
	mkt := marketplace.NewStaticMarketplace()
	mkt.RecipeBooks["default"] = marketplace.RecipeBook{
		Name: "default",
		Packages: map[string]marketplace.Recipe{
			"auth": {
				DependsOn: []string{"database"},
				Modules: []marketplace.ModuleSpec{
					{ID: "auth-adapter", Params: module.Params{"provider": "clerk"}},
				},
			},
			"database": {
				Modules: []marketplace.ModuleSpec{
					{ID: "drizzle-adapter", Params: module.Params{"dialect": "postgres"}},
				},
			},
			"self-referential": {
				DependsOn: []string{"self-referential"},
				Modules: []marketplace.ModuleSpec{
					{ID: "loop-module"},
				},
			},
		},
	}
	return mkt
}

func TestExpandRecursesDependencies(t *testing.T) {
	mkt := newBookedMarketplace()
	g := module.Genome{
		RecipeBooks: []string{"default"},
		Packages: map[string][]module.PackageRef{
			"web": {{Name: "auth"}},
		},
	}

	refs, warnings, err := NewExpander(mkt).Expand(g)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	ids := make([]module.ID, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	assert.ElementsMatch(t, []module.ID{"drizzle-adapter", "auth-adapter"}, ids)
}

func TestExpandMergesOverrideParamsOverRecipeDefaults(t *testing.T) {
	mkt := newBookedMarketplace()
	g := module.Genome{
		RecipeBooks: []string{"default"},
		Packages: map[string][]module.PackageRef{
			"web": {{Name: "auth", Params: module.Params{"provider": "auth0", "mfa": true}}},
		},
	}

	refs, _, err := NewExpander(mkt).Expand(g)
	require.NoError(t, err)

	var authRef *module.ModuleRef
	for i := range refs {
		if refs[i].ID == "auth-adapter" {
			authRef = &refs[i]
		}
	}
	require.NotNil(t, authRef)
	assert.Equal(t, "auth0", authRef.Params["provider"])
	assert.Equal(t, true, authRef.Params["mfa"])
}

func TestExpandDedupesWithWarningOnConflict(t *testing.T) {
	mkt := newBookedMarketplace()
	g := module.Genome{
		RecipeBooks: []string{"default"},
		Packages: map[string][]module.PackageRef{
			"web":  {{Name: "auth", Params: module.Params{"provider": "clerk"}}},
			"admin": {{Name: "auth", Params: module.Params{"provider": "auth0"}}},
		},
	}

	refs, warnings, err := NewExpander(mkt).Expand(g)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarningParamConflict, warnings[0].Kind)

	var authRef *module.ModuleRef
	for i := range refs {
		if refs[i].ID == "auth-adapter" {
			authRef = &refs[i]
		}
	}
	require.NotNil(t, authRef)
	// Apps expand in sorted key order, so "web" is the later expansion.
	assert.Equal(t, "clerk", authRef.Params["provider"])
}

func TestExpandBreaksSelfReferentialLoop(t *testing.T) {
	mkt := newBookedMarketplace()
	g := module.Genome{
		RecipeBooks: []string{"default"},
		Packages: map[string][]module.PackageRef{
			"web": {{Name: "self-referential"}},
		},
	}

	refs, _, err := NewExpander(mkt).Expand(g)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, module.ID("loop-module"), refs[0].ID)
}

func TestExpandUnknownPackageErrors(t *testing.T) {
	mkt := newBookedMarketplace()
	g := module.Genome{
		RecipeBooks: []string{"default"},
		Packages: map[string][]module.PackageRef{
			"web": {{Name: "missing"}},
		},
	}

	_, _, err := NewExpander(mkt).Expand(g)
	require.Error(t, err)
}

func TestExpandIncludesDirectModuleReferences(t *testing.T) {
	mkt := newBookedMarketplace()
	g := module.Genome{
		Modules: []module.ModuleRef{
			{ID: "nextjs-framework", Version: "1.0.0"},
		},
	}

	refs, warnings, err := NewExpander(mkt).Expand(g)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, refs, 1)
	assert.Equal(t, module.ID("nextjs-framework"), refs[0].ID)
}
