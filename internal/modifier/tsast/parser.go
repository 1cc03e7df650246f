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

// Package tsast implements the AST-aware JavaScript/TypeScript/JSX
// modifiers (ts-module-enhancer, js-export-wrapper, jsx-children-wrapper,
// js-config-merger) on top of go-tree-sitter. None of these modifiers
// rewrite the tree and re-print it: each locates the byte range it cares
// about and splices source text around it, the same technique the
// reference parser uses to extract element bodies by StartByte/EndByte.
package tsast

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

// parse picks a grammar by file extension and returns the parsed tree.
// Callers must Close() the returned tree.
func parse(ctx context.Context, path string, content []byte) (*sitter.Tree, error) {
	lang := languageFor(path)
	p := sitter.NewParser()
	p.SetLanguage(lang)
	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return tree, nil
}

func languageFor(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx":
		return tsx.GetLanguage()
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

func text(content []byte, n *sitter.Node) string {
	return string(content[n.StartByte():n.EndByte()])
}

// splice replaces the byte range [start,end) of content with replacement.
func splice(content []byte, start, end uint32, replacement string) string {
	var b strings.Builder
	b.Write(content[:start])
	b.WriteString(replacement)
	b.Write(content[end:])
	return b.String()
}

// insertAt inserts text at a byte offset without removing anything.
func insertAt(content []byte, at uint32, insertion string) string {
	var b strings.Builder
	b.Write(content[:at])
	b.WriteString(insertion)
	b.Write(content[at:])
	return b.String()
}

// lastImportEnd returns the byte offset just after the last top-level
// import_statement, or 0 if the file has none.
func lastImportEnd(root *sitter.Node) uint32 {
	var end uint32
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "import_statement" {
			end = child.EndByte()
		}
	}
	return end
}

// findDefaultExport returns the export_statement node that carries the
// "default" keyword, and the expression node it exports, or nil if none
// exists.
func findDefaultExport(root *sitter.Node) (stmt, expr *sitter.Node) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "export_statement" {
			continue
		}
		isDefault := false
		for j := 0; j < int(child.ChildCount()); j++ {
			if child.Child(j).Type() == "default" {
				isDefault = true
				break
			}
		}
		if !isDefault {
			continue
		}
		value := child.ChildByFieldName("value")
		if value == nil && int(child.NamedChildCount()) > 0 {
			value = child.NamedChild(int(child.NamedChildCount()) - 1)
		}
		return child, value
	}
	return nil, nil
}

// walkJSXElements calls fn for every jsx_element / jsx_self_closing_element
// node in the tree, depth first.
func walkJSXElements(n *sitter.Node, fn func(*sitter.Node)) {
	if n == nil {
		return
	}
	if n.Type() == "jsx_element" || n.Type() == "jsx_self_closing_element" {
		fn(n)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walkJSXElements(n.NamedChild(i), fn)
	}
}

// jsxOpeningTagName returns the tag name of a jsx_element's opening tag, or
// of a jsx_self_closing_element itself.
func jsxOpeningTagName(n *sitter.Node, content []byte) string {
	switch n.Type() {
	case "jsx_self_closing_element":
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			return text(content, nameNode)
		}
	case "jsx_element":
		opening := n.NamedChild(0)
		if opening != nil {
			if nameNode := opening.ChildByFieldName("name"); nameNode != nil {
				return text(content, nameNode)
			}
		}
	}
	return ""
}

// findObjectLiteral walks the tree for the object node assigned to
// module.exports or exported as the default export, whichever is present.
func findObjectLiteral(root *sitter.Node, content []byte) *sitter.Node {
	var found *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found != nil || n == nil {
			return
		}
		if n.Type() == "assignment_expression" {
			left := n.ChildByFieldName("left")
			right := n.ChildByFieldName("right")
			if left != nil && right != nil && right.Type() == "object" && text(content, left) == "module.exports" {
				found = right
				return
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)
	if found != nil {
		return found
	}
	_, expr := findDefaultExport(root)
	if expr != nil && expr.Type() == "object" {
		return expr
	}
	return nil
}

// objectKey returns the key text of a "pair" node, stripped of quotes.
func objectKey(pair *sitter.Node, content []byte) string {
	key := pair.ChildByFieldName("key")
	if key == nil {
		return ""
	}
	s := text(content, key)
	return strings.Trim(s, `"'`)
}
