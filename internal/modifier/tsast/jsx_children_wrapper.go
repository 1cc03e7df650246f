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

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/vfs"
)

const jsxChildrenWrapperSchema = `{
  "type": "object",
  "properties": {
    "targetElement": {"type": "string"},
    "wrapper": {"type": "string"},
    "wrapperProps": {"type": "string"},
    "importFrom": {"type": "string"}
  },
  "required": ["targetElement", "wrapper"]
}`

// JSXChildrenWrapper implements the jsx-children-wrapper modifier: finds the
// first JSX element with the given tag name and wraps its children in a new
// element, e.g. turning `<body>{children}</body>` into
// `<body><Providers>{children}</Providers></body>`.
type JSXChildrenWrapper struct{}

func (JSXChildrenWrapper) ParamsSchema() string { return jsxChildrenWrapperSchema }
func (JSXChildrenWrapper) SupportedFileTypes() []string {
	return []string{".tsx", ".jsx"}
}
func (JSXChildrenWrapper) Description() string {
	return "wraps the children of a named JSX element with another component"
}

func (JSXChildrenWrapper) Execute(ctx context.Context, path string, params map[string]interface{}, _ modifier.Context, v *vfs.VFS) (modifier.Result, error) {
	target, _ := params["targetElement"].(string)
	wrapper, _ := params["wrapper"].(string)
	wrapperProps, _ := params["wrapperProps"].(string)
	importFrom, _ := params["importFrom"].(string)
	if target == "" || wrapper == "" {
		return modifier.Result{}, errors.New("jsx-children-wrapper requires targetElement and wrapper")
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

	var match *sitter.Node
	walkJSXElements(tree.RootNode(), func(n *sitter.Node) {
		if match != nil {
			return
		}
		if n.Type() == "jsx_element" && jsxOpeningTagName(n, content) == target {
			match = n
		}
	})
	if match == nil {
		return modifier.Result{}, errors.Errorf("jsx-children-wrapper: no <%s> element found in %s", target, path)
	}

	openEnd, closeStart, ok := childrenRange(match)
	if !ok {
		return modifier.Result{OK: true, Message: fmt.Sprintf("<%s> has no children to wrap", target)}, nil
	}

	children := string(content[openEnd:closeStart])
	if strings.Contains(children, "<"+wrapper) {
		return modifier.Result{OK: true, Message: "already wrapped"}, nil
	}

	openTag := fmt.Sprintf("<%s%s>", wrapper, propsSuffix(wrapperProps))
	closeTag := fmt.Sprintf("</%s>", wrapper)
	wrapped := openTag + children + closeTag

	updated := splice(content, openEnd, closeStart, wrapped)
	if importFrom != "" {
		updated = insertImports([]byte(updated), path, []ImportSpec{{Source: importFrom, Default: wrapper}})
	}

	if err := v.Write(path, updated); err != nil {
		return modifier.Result{}, err
	}
	return modifier.Result{OK: true, Message: fmt.Sprintf("wrapped children of <%s> with <%s>", target, wrapper)}, nil
}

func propsSuffix(props string) string {
	if props == "" {
		return ""
	}
	return " " + props
}

// childrenRange returns the byte range between a jsx_element's opening and
// closing tags. The second return value is false if the element has no
// distinct opening/closing tag pair (e.g. it is self-closing).
func childrenRange(elem *sitter.Node) (openEnd, closeStart uint32, ok bool) {
	if int(elem.NamedChildCount()) < 2 {
		return 0, 0, false
	}
	opening := elem.NamedChild(0)
	last := elem.NamedChild(int(elem.NamedChildCount()) - 1)
	if opening == nil || last == nil || opening.Type() != "jsx_opening_element" {
		return 0, 0, false
	}
	closing := last
	if closing.Type() != "jsx_closing_element" {
		return opening.EndByte(), closing.EndByte(), true
	}
	return opening.EndByte(), closing.StartByte(), true
}
