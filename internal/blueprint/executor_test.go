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

package blueprint

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thearchitech/engine/internal/action"
	"github.com/thearchitech/engine/internal/marketplace"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/runctx"
	"github.com/thearchitech/engine/internal/shell"
	"github.com/thearchitech/engine/internal/vfs"
)

func TestExecutorRunsActionsInOrderAndUnionsFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	v := vfs.New(fs, "/proj")
	mkt := marketplace.NewStaticMarketplace()
	rc := runctx.New(module.Genome{}, "/proj", nil, nil, mkt, &shell.RecordingRunner{}, v)

	bp := module.Blueprint{
		Name: "demo",
		Actions: []module.Action{
			{Kind: module.ActionCreateFile, Path: "a.txt", Content: "one"},
			{Kind: module.ActionCreateFile, Path: "b.txt", Content: "two"},
		},
	}

	res, err := New(action.NewDispatcher()).Run(context.Background(), module.Module{ID: "demo-module"}, bp, rc)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, res.Files)
}

func TestExecutorStopsAtFirstFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	v := vfs.New(fs, "/proj")
	mkt := marketplace.NewStaticMarketplace()
	rc := runctx.New(module.Genome{}, "/proj", nil, nil, mkt, &shell.RecordingRunner{}, v)

	bp := module.Blueprint{
		Name: "demo",
		Actions: []module.Action{
			{Kind: module.ActionCreateFile, Path: "a.txt", Content: "one"},
			{Kind: module.ActionCreateFile, Path: "", Content: "unwritable"},
			{Kind: module.ActionCreateFile, Path: "c.txt", Content: "never reached"},
		},
	}

	_, err := New(action.NewDispatcher()).Run(context.Background(), module.Module{ID: "demo-module"}, bp, rc)
	require.Error(t, err)

	exists, existsErr := afero.Exists(fs, "/proj/c.txt")
	require.NoError(t, existsErr)
	assert.False(t, exists)
}

func TestExecutorUnknownActionKindErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	v := vfs.New(fs, "/proj")
	mkt := marketplace.NewStaticMarketplace()
	rc := runctx.New(module.Genome{}, "/proj", nil, nil, mkt, &shell.RecordingRunner{}, v)

	bp := module.Blueprint{
		Name:    "demo",
		Actions: []module.Action{{Kind: "unsupported-kind"}},
	}

	_, err := New(action.NewDispatcher()).Run(context.Background(), module.Module{ID: "demo-module"}, bp, rc)
	require.Error(t, err)
}
