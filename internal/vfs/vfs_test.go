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

package vfs

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		root string
		p    string
		want string
	}{
		{"relative", "/proj", "a/b.txt", "a/b.txt"},
		{"absolute under root", "/proj", "/proj/a/b.txt", "a/b.txt"},
		{"backslashes", "/proj", `a\b.txt`, "a/b.txt"},
		{"double slashes", "/proj", "a//b.txt", "a/b.txt"},
		{"empty", "/proj", "", ""},
		{"root itself", "/proj", "/proj", ""},
		{"dot", "/proj", ".", ""},
		{"escapes root", "/proj", "../etc/passwd", ""},
		{"nested escape", "/proj", "a/../../etc", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.root, tc.p))
		})
	}
}

func TestCreateThenReadRoundTrips(t *testing.T) {
	v := New(afero.NewMemMapFs(), "/proj")
	require.NoError(t, v.Create("a.txt", "hello"))

	got, err := v.Read("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestCreateTwiceReturnsAlreadyExists(t *testing.T) {
	v := New(afero.NewMemMapFs(), "/proj")
	require.NoError(t, v.Create("a.txt", "one"))
	err := v.Create("a.txt", "two")
	assert.ErrorIs(t, err, AlreadyExists)
}

func TestReadMissingReturnsErrNotFound(t *testing.T) {
	v := New(afero.NewMemMapFs(), "/proj")
	_, err := v.Read("missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWriteShallowMergesJSONObjects(t *testing.T) {
	v := New(afero.NewMemMapFs(), "/proj")
	require.NoError(t, v.Write("package.json", `{"name":"demo","scripts":{"a":"1"}}`))
	require.NoError(t, v.Write("package.json", `{"version":"1.0.0"}`))

	got, err := v.Read("package.json")
	require.NoError(t, err)
	assert.Contains(t, got, `"name": "demo"`)
	assert.Contains(t, got, `"version": "1.0.0"`)
}

func TestWriteNonJSONOverwrites(t *testing.T) {
	v := New(afero.NewMemMapFs(), "/proj")
	require.NoError(t, v.Write("a.txt", "one"))
	require.NoError(t, v.Write("a.txt", "two"))

	got, err := v.Read("a.txt")
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}

func TestAppendAndPrepend(t *testing.T) {
	v := New(afero.NewMemMapFs(), "/proj")
	require.NoError(t, v.Create("log.txt", "b"))
	require.NoError(t, v.Append("log.txt", "c"))
	require.NoError(t, v.Prepend("log.txt", "a"))

	got, err := v.Read("log.txt")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestWriteEmptyPathErrors(t *testing.T) {
	v := New(afero.NewMemMapFs(), "/proj")
	err := v.Write("", "content")
	assert.Error(t, err)
}

func TestFlushWritesNewlineTerminatedFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	v := New(fs, "/proj")
	require.NoError(t, v.Create("a.txt", "no newline"))
	require.NoError(t, v.Create("b.txt", "has newline\n"))

	require.NoError(t, v.Flush("/proj"))

	a, err := afero.ReadFile(fs, "/proj/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "no newline\n", string(a))

	b, err := afero.ReadFile(fs, "/proj/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "has newline\n", string(b))
}

func TestFlushDoesNotTouchDiskUntilCalled(t *testing.T) {
	fs := afero.NewMemMapFs()
	v := New(fs, "/proj")
	require.NoError(t, v.Create("a.txt", "buffered"))

	exists, err := afero.Exists(fs, "/proj/a.txt")
	require.NoError(t, err)
	assert.False(t, exists, "writes must stay buffered until Flush")

	require.NoError(t, v.Flush("/proj"))
	exists, err = afero.Exists(fs, "/proj/a.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestExistsChecksBothBufferAndDisk(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/ondisk.txt", []byte("x"), 0o644))
	v := New(fs, "/proj")

	assert.True(t, v.Exists("ondisk.txt"))
	assert.False(t, v.Exists("nope.txt"))
}

func TestAllReturnsOnlyExistingEntries(t *testing.T) {
	v := New(afero.NewMemMapFs(), "/proj")
	require.NoError(t, v.Create("a.txt", "1"))
	_, _ = v.Read("never-written.txt")

	all := v.All()
	_, ok := all["never-written.txt"]
	assert.False(t, ok)
	_, ok = all["a.txt"]
	assert.True(t, ok)
}
