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

// Package jsonmerge implements the json-merger, package-json-merger, and
// tsconfig-enhancer modifiers: structured, recursive JSON merges built on
// dario.cat/mergo, with a custom slice transformer for the configurable
// array strategy (concat/replace/unique).
package jsonmerge

import (
	"fmt"
	"reflect"
	"sort"

	"dario.cat/mergo"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

// ArrayStrategy controls how JSON arrays are combined during a deep merge.
type ArrayStrategy string

const (
	ArrayConcat   ArrayStrategy = "concat"
	ArrayReplace  ArrayStrategy = "replace"
	ArrayUnique   ArrayStrategy = "unique"
	defaultArrays               = ArrayConcat
)

// sliceTransformer intercepts []interface{} fields during mergo.Merge so
// array combination follows ArrayStrategy instead of mergo's default
// (leave dst untouched unless empty).
type sliceTransformer struct {
	strategy ArrayStrategy
}

func (t sliceTransformer) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	if typ != reflect.TypeOf([]interface{}{}) {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if !dst.CanSet() {
			return nil
		}
		dstSlice, _ := dst.Interface().([]interface{})
		srcSlice, _ := src.Interface().([]interface{})

		switch t.strategy {
		case ArrayReplace:
			if len(srcSlice) > 0 {
				dst.Set(reflect.ValueOf(srcSlice))
			}
		case ArrayUnique:
			dst.Set(reflect.ValueOf(uniqueAppend(dstSlice, srcSlice)))
		case ArrayConcat, "":
			combined := make([]interface{}, 0, len(dstSlice)+len(srcSlice))
			combined = append(combined, dstSlice...)
			combined = append(combined, srcSlice...)
			dst.Set(reflect.ValueOf(combined))
		}
		return nil
	}
}

func uniqueAppend(base, add []interface{}) []interface{} {
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]interface{}, 0, len(base)+len(add))
	for _, v := range base {
		k := fingerprint(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	for _, v := range add {
		k := fingerprint(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

func fingerprint(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

// DeepMerge recursively merges src into dst (src wins on scalar conflicts,
// object keys are merged recursively, arrays combine per strategy) and
// returns dst. dst and src are both mutated/read as map[string]interface{}
// trees, the shape produced by encoding/json.Unmarshal into interface{}.
func DeepMerge(dst, src map[string]interface{}, strategy ArrayStrategy) (map[string]interface{}, error) {
	if strategy == "" {
		strategy = defaultArrays
	}
	if dst == nil {
		dst = map[string]interface{}{}
	}
	if err := mergo.Merge(&dst, src,
		mergo.WithOverride,
		mergo.WithTransformers(sliceTransformer{strategy: strategy}),
	); err != nil {
		return nil, errors.Wrap(err, "deep merge failed")
	}
	return dst, nil
}

// UnionStrings unions two string slices, dropping duplicates and returning
// the result sorted lexicographically -- used for tsconfig's include/exclude
// union.
func UnionStrings(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string{}, a...), b...) {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
