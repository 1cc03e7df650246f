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
	"fmt"
	"strings"

	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/vfs"
)

const tsModuleEnhancerSchema = `{
  "type": "object",
  "properties": {
    "imports": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "source": {"type": "string"},
          "default": {"type": "string"},
          "namespace": {"type": "string"},
          "named": {"type": "array", "items": {"type": "string"}}
        },
        "required": ["source"]
      }
    },
    "append": {"type": "array", "items": {"type": "string"}}
  }
}`

// ImportSpec describes one import statement to insert.
type ImportSpec struct {
	Source    string
	Default   string
	Namespace string
	Named     []string
}

// TSModuleEnhancer implements the ts-module-enhancer modifier: inserts
// import statements after the last existing import (or at the top of the
// file) and appends statements at module scope, both de-duplicated against
// the existing source text.
type TSModuleEnhancer struct{}

func (TSModuleEnhancer) ParamsSchema() string { return tsModuleEnhancerSchema }
func (TSModuleEnhancer) SupportedFileTypes() []string {
	return []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}
}
func (TSModuleEnhancer) Description() string {
	return "inserts import statements and appends module-scope statements into a JS/TS file"
}

func (TSModuleEnhancer) Execute(ctx context.Context, path string, params map[string]interface{}, _ modifier.Context, v *vfs.VFS) (modifier.Result, error) {
	current, err := v.Read(path)
	if err != nil {
		if err != vfs.ErrNotFound {
			return modifier.Result{}, err
		}
		current = ""
	}

	content := []byte(current)
	imports := parseImportSpecs(params["imports"])
	appends := stringArray(params["append"])

	if len(imports) > 0 {
		content = []byte(insertImports(content, path, imports))
	}
	if len(appends) > 0 {
		content = []byte(appendStatements(string(content), appends))
	}

	if err := v.Write(path, string(content)); err != nil {
		return modifier.Result{}, err
	}
	return modifier.Result{OK: true, Message: "enhanced " + path}, nil
}

func parseImportSpecs(v interface{}) []ImportSpec {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]ImportSpec, 0, len(arr))
	for _, e := range arr {
		m, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		spec := ImportSpec{}
		spec.Source, _ = m["source"].(string)
		spec.Default, _ = m["default"].(string)
		spec.Namespace, _ = m["namespace"].(string)
		if named, ok := m["named"].([]interface{}); ok {
			for _, n := range named {
				if s, ok := n.(string); ok {
					spec.Named = append(spec.Named, s)
				}
			}
		}
		if spec.Source != "" {
			out = append(out, spec)
		}
	}
	return out
}

func renderImport(spec ImportSpec) string {
	var parts []string
	if spec.Default != "" {
		parts = append(parts, spec.Default)
	}
	if spec.Namespace != "" {
		parts = append(parts, "* as "+spec.Namespace)
	}
	if len(spec.Named) > 0 {
		parts = append(parts, "{ "+strings.Join(spec.Named, ", ")+" }")
	}
	if len(parts) == 0 {
		return fmt.Sprintf("import %q;", spec.Source)
	}
	return fmt.Sprintf("import %s from %q;", strings.Join(parts, ", "), spec.Source)
}

func insertImports(content []byte, path string, specs []ImportSpec) string {
	tree, err := parse(context.Background(), path, content)
	var insertAtOffset uint32
	if err == nil {
		defer tree.Close()
		insertAtOffset = lastImportEnd(tree.RootNode())
	}

	var b strings.Builder
	for _, spec := range specs {
		line := renderImport(spec)
		if strings.Contains(string(content), line) {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return string(content)
	}

	if insertAtOffset == 0 {
		return b.String() + string(content)
	}
	suffix := string(content[insertAtOffset:])
	prefix := string(content[:insertAtOffset])
	if !strings.HasSuffix(prefix, "\n") {
		prefix += "\n"
	}
	return prefix + b.String() + suffix
}

func appendStatements(content string, statements []string) string {
	for _, stmt := range statements {
		if strings.Contains(content, stmt) {
			continue
		}
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += stmt + "\n"
	}
	return content
}

func stringArray(v interface{}) []string {
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
