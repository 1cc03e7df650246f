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

const tsconfigSchema = `{
  "type": "object",
  "properties": {
    "compilerOptions": {"type": "object"},
    "include": {"type": "array", "items": {"type": "string"}},
    "exclude": {"type": "array", "items": {"type": "string"}}
  }
}`

// TSConfigEnhancer implements the tsconfig-enhancer modifier: a deep merge
// of compilerOptions, with include/exclude (and compilerOptions.paths)
// unioned and deduplicated rather than overwritten.
type TSConfigEnhancer struct{}

func (TSConfigEnhancer) ParamsSchema() string         { return tsconfigSchema }
func (TSConfigEnhancer) SupportedFileTypes() []string { return []string{".json"} }
func (TSConfigEnhancer) Description() string {
	return "deep-merges compilerOptions and unions include/exclude/paths in a tsconfig.json"
}

func (TSConfigEnhancer) Execute(_ context.Context, path string, params map[string]interface{}, _ modifier.Context, v *vfs.VFS) (modifier.Result, error) {
	current, err := readObject(v, path)
	if err != nil {
		return modifier.Result{}, err
	}

	if incomingOpts, ok := params["compilerOptions"].(map[string]interface{}); ok {
		currentOpts, _ := current["compilerOptions"].(map[string]interface{})
		if currentOpts == nil {
			currentOpts = map[string]interface{}{}
		}

		var incomingPaths map[string]interface{}
		if p, ok := incomingOpts["paths"].(map[string]interface{}); ok {
			incomingPaths = p
			delete(incomingOpts, "paths")
		}

		merged, err := DeepMerge(currentOpts, incomingOpts, ArrayUnique)
		if err != nil {
			return modifier.Result{}, err
		}

		if incomingPaths != nil {
			currentPaths, _ := merged["paths"].(map[string]interface{})
			if currentPaths == nil {
				currentPaths = map[string]interface{}{}
			}
			for k, v := range incomingPaths {
				currentPaths[k] = v
			}
			merged["paths"] = currentPaths
		}
		current["compilerOptions"] = merged
	}

	if merged := unionStringArrays(current["include"], params["include"]); merged != nil {
		current["include"] = merged
	}
	if merged := unionStringArrays(current["exclude"], params["exclude"]); merged != nil {
		current["exclude"] = merged
	}

	if err := writeObject(v, path, current); err != nil {
		return modifier.Result{}, err
	}
	return modifier.Result{OK: true, Message: "enhanced " + path}, nil
}

func unionStringArrays(existing, incoming interface{}) []string {
	var a, b []string
	if arr, ok := existing.([]interface{}); ok {
		for _, v := range arr {
			if s, ok := v.(string); ok {
				a = append(a, s)
			}
		}
	}
	if arr, ok := incoming.([]interface{}); ok {
		for _, v := range arr {
			if s, ok := v.(string); ok {
				b = append(b, s)
			}
		}
	}
	if a == nil && b == nil {
		return nil
	}
	return UnionStrings(a, b)
}
