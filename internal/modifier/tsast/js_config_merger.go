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

package tsast

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/vfs"
)

const jsConfigMergerSchema = `{
  "type": "object",
  "properties": {
    "merge": {"type": "object"}
  },
  "required": ["merge"]
}`

// JSConfigMerger implements the js-config-merger modifier: merges keys into
// the object literal assigned to module.exports (or exported as the
// module's default export), since config files like next.config.js may
// contain functions and comments that a JSON round-trip would destroy.
// Existing keys are overwritten in place; new keys are inserted before the
// object's closing brace, sorted for determinism.
type JSConfigMerger struct{}

func (JSConfigMerger) ParamsSchema() string { return jsConfigMergerSchema }
func (JSConfigMerger) SupportedFileTypes() []string {
	return []string{".js", ".mjs", ".cjs", ".ts"}
}
func (JSConfigMerger) Description() string {
	return "merges keys into a JS/TS config file's exported object literal, preserving non-JSON values"
}

func (JSConfigMerger) Execute(ctx context.Context, path string, params map[string]interface{}, _ modifier.Context, v *vfs.VFS) (modifier.Result, error) {
	merge, _ := params["merge"].(map[string]interface{})
	if len(merge) == 0 {
		return modifier.Result{OK: true, Message: "nothing to merge"}, nil
	}

	current, err := v.Read(path)
	if err != nil {
		return modifier.Result{}, err
	}
	content := []byte(current)

	tree, err := parse(ctx, path, content)
	if err != nil {
		return modifier.Result{}, err
	}
	defer tree.Close()

	obj := findObjectLiteral(tree.RootNode(), content)
	if obj == nil {
		return modifier.Result{}, errors.Errorf("js-config-merger: no module.exports or default-export object literal found in %s", path)
	}

	keyNodes := map[string]*sitter.Node{}
	for i := 0; i < int(obj.NamedChildCount()); i++ {
		pair := obj.NamedChild(i)
		if pair.Type() != "pair" {
			continue
		}
		key := objectKey(pair, content)
		if key == "" {
			continue
		}
		keyNodes[key] = pair
	}

	keys := make([]string, 0, len(merge))
	for k := range merge {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updated := string(content)
	var toInsert []string
	for _, k := range keys {
		rendered := renderJSValue(merge[k])
		if pair, ok := keyNodes[k]; ok {
			value := pair.ChildByFieldName("value")
			if value != nil {
				updated = splice([]byte(updated), value.StartByte(), value.EndByte(), rendered)
				continue
			}
		}
		toInsert = append(toInsert, fmt.Sprintf("%s: %s", k, rendered))
	}

	if len(toInsert) > 0 {
		// Re-parse since prior splices shifted offsets; locate the object
		// literal's closing brace fresh.
		tree2, err := parse(ctx, path, []byte(updated))
		if err != nil {
			return modifier.Result{}, err
		}
		defer tree2.Close()
		obj2 := findObjectLiteral(tree2.RootNode(), []byte(updated))
		if obj2 == nil {
			return modifier.Result{}, errors.Errorf("js-config-merger: lost object literal in %s after merge", path)
		}
		closeBrace := obj2.EndByte() - 1
		insertion := ""
		needsLeadingComma := int(obj2.NamedChildCount()) > 0
		if needsLeadingComma {
			insertion += ",\n  "
		} else {
			insertion += "\n  "
		}
		insertion += strings.Join(toInsert, ",\n  ")
		insertion += ",\n"
		updated = insertAt([]byte(updated), closeBrace, insertion)
	}

	if err := v.Write(path, updated); err != nil {
		return modifier.Result{}, err
	}
	return modifier.Result{OK: true, Message: "merged config keys into " + path}, nil
}

// renderJSValue renders a decoded JSON Schema value as a JS literal. Objects
// and arrays round-trip through JSON, which is valid JS syntax for literal
// data; it cannot express function values, which callers should instead
// target with js-export-wrapper or ts-module-enhancer.
func renderJSValue(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
