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
	"encoding/json"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/vfs"
)

const jsonMergerSchema = `{
  "type": "object",
  "properties": {
    "merge": {"type": "object"},
    "arrayStrategy": {"type": "string", "enum": ["concat", "replace", "unique"]}
  },
  "required": ["merge"]
}`

// JSONMerger implements the json-merger modifier: a deep merge of an
// arbitrary object into a JSON file's top level.
type JSONMerger struct{}

func (JSONMerger) ParamsSchema() string         { return jsonMergerSchema }
func (JSONMerger) SupportedFileTypes() []string { return []string{".json"} }
func (JSONMerger) Description() string {
	return "deep-merges an object into a JSON file, with a configurable array strategy"
}

func (JSONMerger) Execute(_ context.Context, path string, params map[string]interface{}, _ modifier.Context, v *vfs.VFS) (modifier.Result, error) {
	merge, _ := params["merge"].(map[string]interface{})
	strategy, _ := params["arrayStrategy"].(string)

	current, err := readObject(v, path)
	if err != nil {
		return modifier.Result{}, err
	}

	merged, err := DeepMerge(current, merge, ArrayStrategy(strategy))
	if err != nil {
		return modifier.Result{}, err
	}

	if err := writeObject(v, path, merged); err != nil {
		return modifier.Result{}, err
	}
	return modifier.Result{OK: true, Message: "merged into " + path}, nil
}

func readObject(v *vfs.VFS, path string) (map[string]interface{}, error) {
	content, err := v.Read(path)
	if err != nil {
		if err == vfs.ErrNotFound {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(content), &obj); err != nil {
		return nil, errors.Wrapf(err, "existing content at %s is not a JSON object", path)
	}
	return obj, nil
}

func writeObject(v *vfs.VFS, path string, obj map[string]interface{}) error {
	b, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode merged JSON")
	}
	return v.Write(path, string(b)+"\n")
}
