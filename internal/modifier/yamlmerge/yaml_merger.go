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

// Package yamlmerge implements the yaml-merger modifier using goccy/go-yaml,
// the same YAML library the teacher's workspace parser uses for AST-aware
// YAML handling.
package yamlmerge

import (
	"context"

	"github.com/goccy/go-yaml"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/modifier/jsonmerge"
	"github.com/thearchitech/engine/internal/vfs"
)

const yamlMergerSchema = `{
  "type": "object",
  "properties": {
    "merge": {"type": "object"},
    "arrayStrategy": {"type": "string", "enum": ["concat", "replace", "unique"]}
  },
  "required": ["merge"]
}`

// YAMLMerger implements the yaml-merger modifier: a deep merge of an
// arbitrary document into a YAML file, with the same array strategy options
// as json-merger.
type YAMLMerger struct{}

func (YAMLMerger) ParamsSchema() string         { return yamlMergerSchema }
func (YAMLMerger) SupportedFileTypes() []string { return []string{".yaml", ".yml"} }
func (YAMLMerger) Description() string {
	return "deep-merges a document into a YAML file, with a configurable array strategy"
}

func (YAMLMerger) Execute(_ context.Context, path string, params map[string]interface{}, _ modifier.Context, v *vfs.VFS) (modifier.Result, error) {
	merge := toStringMap(params["merge"])
	strategy, _ := params["arrayStrategy"].(string)

	current, err := readYAML(v, path)
	if err != nil {
		return modifier.Result{}, err
	}

	merged, err := jsonmerge.DeepMerge(current, merge, jsonmerge.ArrayStrategy(strategy))
	if err != nil {
		return modifier.Result{}, err
	}

	b, err := yaml.Marshal(merged)
	if err != nil {
		return modifier.Result{}, errors.Wrap(err, "failed to encode merged YAML")
	}
	if err := v.Write(path, string(b)); err != nil {
		return modifier.Result{}, err
	}
	return modifier.Result{OK: true, Message: "merged into " + path}, nil
}

func readYAML(v *vfs.VFS, path string) (map[string]interface{}, error) {
	content, err := v.Read(path)
	if err != nil {
		if err == vfs.ErrNotFound {
			return map[string]interface{}{}, nil
		}
		return nil, err
	}
	var obj map[string]interface{}
	if err := yaml.Unmarshal([]byte(content), &obj); err != nil {
		return nil, errors.Wrapf(err, "existing content at %s is not a YAML mapping", path)
	}
	if obj == nil {
		obj = map[string]interface{}{}
	}
	return obj, nil
}

// toStringMap normalizes a gojsonschema-validated params["merge"] value
// (decoded from JSON Schema validation as map[string]interface{} already)
// into the shape DeepMerge expects. Present for symmetry with callers that
// may pass map[interface{}]interface{} from a raw YAML decode.
func toStringMap(v interface{}) map[string]interface{} {
	switch m := v.(type) {
	case map[string]interface{}:
		return m
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out
	default:
		return map[string]interface{}{}
	}
}
