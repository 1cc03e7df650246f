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
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeHomeDir(dir string) HomeDirFn {
	return func() (string, error) { return dir, nil }
}

func TestNewFSSourceCreatesEmptyConfigFileWhenMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	src, err := NewFSSource(WithFS(fs), WithHomeDirFn(fakeHomeDir("/home/user")))
	require.NoError(t, err)

	exists, err := afero.Exists(fs, "/home/user/.architechrc")
	require.NoError(t, err)
	assert.True(t, exists)

	cfg, err := src.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestFSSourceUpdateConfigThenGetConfigRoundTrips(t *testing.T) {
	fs := afero.NewMemMapFs()
	src, err := NewFSSource(WithFS(fs), WithHomeDirFn(fakeHomeDir("/home/user")))
	require.NoError(t, err)

	want := &Config{DefaultMarketplace: "/mkt", SkipInstall: true, RecipeBooks: []string{"web"}}
	require.NoError(t, src.UpdateConfig(want))

	got, err := src.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNewFSSourcePropagatesHomeDirError(t *testing.T) {
	_, err := NewFSSource(WithHomeDirFn(func() (string, error) { return "", errors.New("no home") }))
	assert.Error(t, err)
}

func TestMemorySourceRoundTrips(t *testing.T) {
	src := NewMemorySource(Config{DefaultMarketplace: "/mkt"})

	cfg, err := src.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "/mkt", cfg.DefaultMarketplace)

	require.NoError(t, src.UpdateConfig(&Config{SkipInstall: true}))
	cfg, err = src.GetConfig()
	require.NoError(t, err)
	assert.True(t, cfg.SkipInstall)
	assert.Empty(t, cfg.DefaultMarketplace)
}

func TestExtractDelegatesToSource(t *testing.T) {
	src := NewMemorySource(Config{DefaultMarketplace: "/mkt"})
	cfg, err := Extract(src)
	require.NoError(t, err)
	assert.Equal(t, "/mkt", cfg.DefaultMarketplace)
}

func TestGetDefaultPathJoinsHomeDirWithConfigFile(t *testing.T) {
	got, err := GetDefaultPath(fakeHomeDir("/home/user"))
	require.NoError(t, err)
	assert.Equal(t, "/home/user/.architechrc", got)
}

func TestGetDefaultPathPropagatesHomeDirError(t *testing.T) {
	_, err := GetDefaultPath(func() (string, error) { return "", errors.New("no home") })
	assert.Error(t, err)
}
