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

package driver

import (
	"context"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thearchitech/engine/internal/lockfile"
	"github.com/thearchitech/engine/internal/marketplace"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/runctx"
	"github.com/thearchitech/engine/internal/shell"
	"github.com/thearchitech/engine/internal/vfs"
)

func testMarketplace() *marketplace.StaticMarketplace {
	mkt := marketplace.NewStaticMarketplace()
	mkt.Blueprints["nextjs-framework"] = module.Blueprint{
		Name:    "nextjs-framework",
		Version: "1.0.0",
		Actions: []module.Action{
			{Kind: module.ActionCreateFile, Path: "package.json", Content: `{"name":"demo"}`},
		},
	}
	mkt.Blueprints["adapters/auth/clerk"] = module.Blueprint{
		Name: "adapters/auth/clerk",
		Actions: []module.Action{
			{Kind: module.ActionCreateFile, Path: "src/auth.ts", Content: "export const auth = true;"},
		},
	}
	mkt.Blueprints["failing-module"] = module.Blueprint{
		Name: "failing-module",
		Actions: []module.Action{
			{Kind: module.ActionCreateFile, Path: "", Content: "unwritable"},
		},
	}
	return mkt
}

func TestDriverRunsSequentialBatchAndFlushes(t *testing.T) {
	mkt := testMarketplace()
	fs := afero.NewMemMapFs()
	v := vfs.New(fs, "/proj")
	rc := runctx.New(module.Genome{}, "/proj", nil, nil, mkt, &shell.RecordingRunner{}, v)

	lf := lockfile.LockFile{
		Modules: []lockfile.ResolvedModule{
			{ID: "nextjs-framework", Version: "1.0.0"},
		},
		ExecutionPlan: []lockfile.Batch{
			{BatchNumber: 1, Modules: []module.ID{"nextjs-framework"}, CanExecuteInParallel: false},
		},
	}

	err := New().Run(context.Background(), lf, rc)
	require.NoError(t, err)

	exists, err := afero.Exists(fs, "/proj/package.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDriverRunsParallelBatch(t *testing.T) {
	mkt := testMarketplace()
	fs := afero.NewMemMapFs()
	v := vfs.New(fs, "/proj")
	rc := runctx.New(module.Genome{}, "/proj", nil, nil, mkt, &shell.RecordingRunner{}, v)

	lf := lockfile.LockFile{
		Modules: []lockfile.ResolvedModule{
			{ID: "nextjs-framework", Version: "1.0.0"},
			{ID: "adapters/auth/clerk", Version: "1.0.0"},
		},
		ExecutionPlan: []lockfile.Batch{
			{BatchNumber: 1, Modules: []module.ID{"nextjs-framework", "adapters/auth/clerk"}, CanExecuteInParallel: true},
		},
	}

	err := New().Run(context.Background(), lf, rc)
	require.NoError(t, err)

	for _, p := range []string{"/proj/package.json", "/proj/src/auth.ts"} {
		exists, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.True(t, exists, p)
	}
}

func TestDriverRunTwiceAgainstFreshRootsProducesIdenticalTree(t *testing.T) {
	mkt := testMarketplace()
	lf := lockfile.LockFile{
		Modules: []lockfile.ResolvedModule{
			{ID: "nextjs-framework", Version: "1.0.0"},
			{ID: "adapters/auth/clerk", Version: "1.0.0"},
		},
		ExecutionPlan: []lockfile.Batch{
			{BatchNumber: 1, Modules: []module.ID{"nextjs-framework", "adapters/auth/clerk"}, CanExecuteInParallel: true},
		},
	}

	g := module.Genome{Options: module.Options{SkipInstall: true}}

	run := func() map[string]string {
		fs := afero.NewMemMapFs()
		v := vfs.New(fs, "/proj")
		rc := runctx.New(g, "/proj", nil, nil, mkt, &shell.RecordingRunner{}, v)
		require.NoError(t, New().Run(context.Background(), lf, rc))

		files := map[string]string{}
		require.NoError(t, afero.Walk(fs, "/proj", func(path string, info os.FileInfo, err error) error {
			require.NoError(t, err)
			if info.IsDir() {
				return nil
			}
			b, err := afero.ReadFile(fs, path)
			require.NoError(t, err)
			files[path] = string(b)
			return nil
		}))
		return files
	}

	first := run()
	second := run()
	assert.Equal(t, first, second, "running the pipeline twice against a fresh project must produce identical file contents")
}

func TestDriverSurfacesExecutionFailed(t *testing.T) {
	mkt := testMarketplace()
	fs := afero.NewMemMapFs()
	v := vfs.New(fs, "/proj")
	rc := runctx.New(module.Genome{}, "/proj", nil, nil, mkt, &shell.RecordingRunner{}, v)

	lf := lockfile.LockFile{
		Modules: []lockfile.ResolvedModule{
			{ID: "nextjs-framework", Version: "1.0.0"},
			{ID: "failing-module", Version: "1.0.0"},
		},
		ExecutionPlan: []lockfile.Batch{
			{BatchNumber: 1, Modules: []module.ID{"nextjs-framework"}, CanExecuteInParallel: false},
			{BatchNumber: 3, Modules: []module.ID{"failing-module"}, CanExecuteInParallel: false},
		},
	}

	err := New().Run(context.Background(), lf, rc)
	require.Error(t, err)

	exists, existsErr := afero.Exists(fs, "/proj/package.json")
	require.NoError(t, existsErr)
	assert.False(t, exists, "a later batch failure must not flush any buffered writes")
}
