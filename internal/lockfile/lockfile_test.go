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

package lockfile

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thearchitech/engine/internal/module"
)

func testGenome() module.Genome {
	return module.Genome{
		Project: module.Project{Name: "demo", Framework: "nextjs"},
		Modules: []module.ModuleRef{
			{ID: "nextjs-framework", Version: "1.0.0", Params: module.Params{"typescript": true}},
		},
	}
}

func TestHashIsStableUnderKeyReordering(t *testing.T) {
	g := testGenome()
	g.Modules[0].Params = module.Params{"typescript": true, "eslint": false}
	h1, err := Hash(g)
	require.NoError(t, err)

	g.Modules[0].Params = module.Params{"eslint": false, "typescript": true}
	h2, err := Hash(g)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
}

func TestHashChangesWithGenome(t *testing.T) {
	g1 := testGenome()
	g2 := testGenome()
	g2.Modules[0].Params = module.Params{"typescript": false}

	h1, err := Hash(g1)
	require.NoError(t, err)
	h2, err := Hash(g2)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestStoreWriteReadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs)
	g := testGenome()
	hash, err := Hash(g)
	require.NoError(t, err)

	lf := New(hash, []ResolvedModule{
		{ID: "nextjs-framework", Version: "1.0.0", Integrity: "abc123"},
	}, []Batch{
		{BatchNumber: 1, Modules: []module.ID{"nextjs-framework"}, CanExecuteInParallel: false},
	}, "2026-07-31T00:00:00Z")

	require.NoError(t, store.Write("/proj", lf))

	got, err := store.Read("/proj")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, hash, got.GenomeHash)
	assert.Len(t, got.Modules, 1)
}

func TestStoreReadMissingReturnsNil(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs)

	got, err := store.Read("/proj")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreIsValid(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs)
	g := testGenome()
	hash, err := Hash(g)
	require.NoError(t, err)

	valid, err := store.IsValid("/proj", g)
	require.NoError(t, err)
	assert.False(t, valid, "no lock file yet")

	lf := New(hash, nil, nil, "2026-07-31T00:00:00Z")
	require.NoError(t, store.Write("/proj", lf))

	valid, err = store.IsValid("/proj", g)
	require.NoError(t, err)
	assert.True(t, valid)

	g.Project.Name = "changed"
	valid, err = store.IsValid("/proj", g)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestStoreDeleteTolerance(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs)
	assert.NoError(t, store.Delete("/proj"))
}
