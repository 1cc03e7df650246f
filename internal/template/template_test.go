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

package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type project struct {
	Name string
	Apps []app
}

type app struct {
	Path string
}

func TestRenderSubstitutesStructField(t *testing.T) {
	root := project{Name: "acme"}
	got := Render("hello {{Name}}", root)
	assert.Equal(t, "hello acme", got)
}

func TestRenderSubstitutesMapKey(t *testing.T) {
	root := map[string]interface{}{"name": "acme"}
	got := Render("hello {{name}}", root)
	assert.Equal(t, "hello acme", got)
}

func TestRenderSubstitutesNestedSliceIndex(t *testing.T) {
	root := project{Apps: []app{{Path: "apps/web"}}}
	got := Render("{{Apps.0.Path}}", root)
	assert.Equal(t, "apps/web", got)
}

func TestRenderLeavesUnresolvedPlaceholderUntouched(t *testing.T) {
	root := project{Name: "acme"}
	got := Render("{{missing.key}}", root)
	assert.Equal(t, "{{missing.key}}", got)
}

func TestRenderFieldLookupIsCaseInsensitive(t *testing.T) {
	root := project{Name: "acme"}
	got := Render("{{name}}", root)
	assert.Equal(t, "acme", got)
}

func TestLookupReturnsFalseForEmptyPath(t *testing.T) {
	_, ok := Lookup(project{Name: "acme"}, "")
	assert.False(t, ok)
}

func TestLookupDereferencesPointers(t *testing.T) {
	root := &project{Name: "acme"}
	val, ok := Lookup(root, "Name")
	assert.True(t, ok)
	assert.Equal(t, "acme", val)
}

func TestLookupOutOfRangeSliceIndexFails(t *testing.T) {
	root := project{Apps: []app{{Path: "apps/web"}}}
	_, ok := Lookup(root, "Apps.5.Path")
	assert.False(t, ok)
}
