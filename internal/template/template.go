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

// Package template resolves {{a.b.c}} placeholders against a dotted-path
// context, deliberately not text/template: the action vocabulary only ever
// needs variable substitution, not a full templating language with
// conditionals and loops.
package template

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_.]+)\s*\}\}`)

// Render replaces every {{dotted.path}} occurrence in s with its value
// looked up in root. A path that cannot be resolved is left untouched,
// placeholder braces and all, so a missing key is visible in the output
// rather than silently erased.
func Render(s string, root interface{}) string {
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		sub := placeholder.FindStringSubmatch(match)
		if len(sub) != 2 {
			return match
		}
		val, ok := Lookup(root, sub[1])
		if !ok {
			return match
		}
		return stringify(val)
	})
}

// Lookup resolves a dotted path (e.g. "project.name" or "layout.apps.0.path")
// against root, which may be a struct, map, slice, or pointer to any of
// those. Numeric path segments index into slices/arrays.
func Lookup(root interface{}, path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}
	segments := strings.Split(path, ".")
	cur := reflect.ValueOf(root)
	for _, seg := range segments {
		cur = indirect(cur)
		if !cur.IsValid() {
			return nil, false
		}
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	cur = indirect(cur)
	if !cur.IsValid() {
		return nil, false
	}
	return cur.Interface(), true
}

func step(v reflect.Value, seg string) (reflect.Value, bool) {
	switch v.Kind() {
	case reflect.Map:
		key := reflect.ValueOf(seg)
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		val := v.MapIndex(key.Convert(v.Type().Key()))
		if !val.IsValid() {
			return reflect.Value{}, false
		}
		return val, true

	case reflect.Struct:
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, seg)
		})
		if !field.IsValid() {
			return reflect.Value{}, false
		}
		return field, true

	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(seg)
		if err != nil || idx < 0 || idx >= v.Len() {
			return reflect.Value{}, false
		}
		return v.Index(idx), true

	default:
		return reflect.Value{}, false
	}
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
