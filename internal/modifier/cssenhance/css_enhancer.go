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

// Package cssenhance implements the css-enhancer modifier. No CSS AST
// library appears anywhere in the retrieved pack, so this is the one
// modifier grounded on plain string manipulation rather than a third-party
// parser (see DESIGN.md).
package cssenhance

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/vfs"
)

const cssEnhancerSchema = `{
  "type": "object",
  "properties": {
    "imports": {"type": "array", "items": {"type": "string"}},
    "rootVars": {"type": "object"},
    "rules": {"type": "array", "items": {"type": "string"}},
    "utilities": {"type": "array", "items": {"type": "string"}}
  }
}`

// CSSEnhancer implements the css-enhancer modifier: prepends @import lines
// and a :root variable block, appends rule blocks and utility classes.
type CSSEnhancer struct{}

func (CSSEnhancer) ParamsSchema() string         { return cssEnhancerSchema }
func (CSSEnhancer) SupportedFileTypes() []string { return []string{".css"} }
func (CSSEnhancer) Description() string {
	return "prepends @import/:root blocks and appends rules/utility classes to a CSS file"
}

func (CSSEnhancer) Execute(_ context.Context, path string, params map[string]interface{}, _ modifier.Context, v *vfs.VFS) (modifier.Result, error) {
	current, err := v.Read(path)
	if err != nil {
		if err != vfs.ErrNotFound {
			return modifier.Result{}, err
		}
		current = ""
	}

	imports := stringSlice(params["imports"])
	rootVars := stringMap(params["rootVars"])
	rules := stringSlice(params["rules"])
	utilities := stringSlice(params["utilities"])

	current = prependImports(current, imports)
	current = prependRootVars(current, rootVars)
	current = appendIfMissing(current, rules)
	current = appendIfMissing(current, utilities)

	if err := v.Write(path, current); err != nil {
		return modifier.Result{}, err
	}
	return modifier.Result{OK: true, Message: "enhanced " + path}, nil
}

func prependImports(content string, imports []string) string {
	var b strings.Builder
	for _, imp := range imports {
		line := fmt.Sprintf("@import %q;", imp)
		if strings.Contains(content, line) {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String() + content
}

func prependRootVars(content string, vars map[string]string) string {
	if len(vars) == 0 {
		return content
	}
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range names {
		decl := fmt.Sprintf("  --%s: %s;", strings.TrimPrefix(name, "--"), vars[name])
		if strings.Contains(content, decl) {
			continue
		}
		b.WriteString(decl)
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String() + content
}

func appendIfMissing(content string, blocks []string) string {
	for _, block := range blocks {
		if strings.Contains(content, block) {
			continue
		}
		if !strings.HasSuffix(content, "\n") && content != "" {
			content += "\n"
		}
		content += block + "\n"
	}
	return content
}

func stringSlice(v interface{}) []string {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringMap(v interface{}) map[string]string {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}
