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

package yamlmerge

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/vfs"
)

func TestYAMLMergerMergesIntoExistingDocument(t *testing.T) {
	v := vfs.New(afero.NewMemMapFs(), "/proj")
	require.NoError(t, v.Create("config.yaml", "services:\n  web:\n    image: nginx\n"))

	params := map[string]interface{}{
		"merge": map[string]interface{}{
			"services": map[string]interface{}{
				"db": map[string]interface{}{"image": "postgres"},
			},
		},
	}
	res, err := YAMLMerger{}.Execute(context.Background(), "config.yaml", params, modifier.Context{}, v)
	require.NoError(t, err)
	assert.True(t, res.OK)

	got, err := v.Read("config.yaml")
	require.NoError(t, err)
	assert.Contains(t, got, "nginx")
	assert.Contains(t, got, "postgres")
}

func TestYAMLMergerCreatesDocumentWhenMissing(t *testing.T) {
	v := vfs.New(afero.NewMemMapFs(), "/proj")
	params := map[string]interface{}{"merge": map[string]interface{}{"name": "demo"}}
	res, err := YAMLMerger{}.Execute(context.Background(), "new.yaml", params, modifier.Context{}, v)
	require.NoError(t, err)
	assert.True(t, res.OK)

	got, err := v.Read("new.yaml")
	require.NoError(t, err)
	assert.Contains(t, got, "demo")
}

func TestYAMLMergerNonMappingExistingContentErrors(t *testing.T) {
	v := vfs.New(afero.NewMemMapFs(), "/proj")
	require.NoError(t, v.Create("a.yaml", "- one\n- two\n"))

	params := map[string]interface{}{"merge": map[string]interface{}{"a": 1}}
	_, err := YAMLMerger{}.Execute(context.Background(), "a.yaml", params, modifier.Context{}, v)
	assert.Error(t, err)
}
