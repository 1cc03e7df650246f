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

package jsonmerge

import (
	"context"

	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/vfs"
)

const packageJSONSchema = `{
  "type": "object",
  "properties": {
    "dependencies": {"type": "object"},
    "devDependencies": {"type": "object"},
    "scripts": {"type": "object"},
    "engines": {"type": "object"},
    "browserslist": {"type": "array"}
  }
}`

var packageJSONObjectKeys = []string{"dependencies", "devDependencies", "scripts", "engines"}

// PackageJSONMerger implements the package-json-merger modifier: a
// specialization of json-merger that merges dependencies, devDependencies,
// scripts and engines with last-write-wins semantics per key, and unions
// browserslist entries without duplicates.
type PackageJSONMerger struct{}

func (PackageJSONMerger) ParamsSchema() string         { return packageJSONSchema }
func (PackageJSONMerger) SupportedFileTypes() []string { return []string{".json"} }
func (PackageJSONMerger) Description() string {
	return "merges package.json dependency, script and engine fields with last-write-wins per key"
}

func (PackageJSONMerger) Execute(_ context.Context, path string, params map[string]interface{}, _ modifier.Context, v *vfs.VFS) (modifier.Result, error) {
	current, err := readObject(v, path)
	if err != nil {
		return modifier.Result{}, err
	}

	for _, key := range packageJSONObjectKeys {
		incoming, ok := params[key].(map[string]interface{})
		if !ok {
			continue
		}
		existing, _ := current[key].(map[string]interface{})
		if existing == nil {
			existing = map[string]interface{}{}
		}
		for k, v := range incoming {
			existing[k] = v
		}
		current[key] = existing
	}

	if bl, ok := params["browserslist"].([]interface{}); ok {
		existing, _ := current["browserslist"].([]interface{})
		current["browserslist"] = uniqueAppend(existing, bl)
	}

	if err := writeObject(v, path, current); err != nil {
		return modifier.Result{}, err
	}
	return modifier.Result{OK: true, Message: "merged package.json fields into " + path}, nil
}
