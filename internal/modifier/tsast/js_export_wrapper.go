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

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/vfs"
)

const jsExportWrapperSchema = `{
  "type": "object",
  "properties": {
    "wrapper": {"type": "string"},
    "importFrom": {"type": "string"},
    "named": {"type": "boolean"}
  },
  "required": ["wrapper"]
}`

// JSExportWrapper implements the js-export-wrapper modifier: rewrites the
// file's default export from `export default X` to `export default
// wrapper(X)`, optionally inserting the import for wrapper. A no-op if the
// export is already wrapped by the same wrapper.
type JSExportWrapper struct{}

func (JSExportWrapper) ParamsSchema() string { return jsExportWrapperSchema }
func (JSExportWrapper) SupportedFileTypes() []string {
	return []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}
}
func (JSExportWrapper) Description() string {
	return "wraps a module's default export with a higher-order function call"
}

func (JSExportWrapper) Execute(ctx context.Context, path string, params map[string]interface{}, _ modifier.Context, v *vfs.VFS) (modifier.Result, error) {
	wrapper, _ := params["wrapper"].(string)
	if wrapper == "" {
		return modifier.Result{}, errors.New("js-export-wrapper requires a non-empty wrapper")
	}
	importFrom, _ := params["importFrom"].(string)

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

	stmt, expr := findDefaultExport(tree.RootNode())
	if stmt == nil || expr == nil {
		return modifier.Result{}, errors.Errorf("js-export-wrapper: no default export found in %s", path)
	}

	exprText := text(content, expr)
	if strings.HasPrefix(exprText, wrapper+"(") {
		return modifier.Result{OK: true, Message: "already wrapped"}, nil
	}

	wrapped := fmt.Sprintf("%s(%s)", wrapper, exprText)
	updated := splice(content, expr.StartByte(), expr.EndByte(), wrapped)

	if importFrom != "" {
		spec := ImportSpec{Source: importFrom, Default: wrapper}
		updated = insertImports([]byte(updated), path, []ImportSpec{spec})
	}

	if err := v.Write(path, updated); err != nil {
		return modifier.Result{}, err
	}
	return modifier.Result{OK: true, Message: "wrapped default export with " + wrapper}, nil
}
