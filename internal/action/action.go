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

// Package action implements the one-handler-per-kind dispatch the blueprint
// executor drives. Handlers only ever mutate the shared VFS; none of them
// touches disk directly.
package action

import (
	"context"
	"strings"

	"github.com/thearchitech/engine/internal/marketplace"
	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/pathresolver"
	"github.com/thearchitech/engine/internal/shell"
	"github.com/thearchitech/engine/internal/template"
	"github.com/thearchitech/engine/internal/vfs"
)

// Context carries every collaborator a handler may need, plus the template
// substitution root (project, modules, this module, resolved paths per
// below).
type Context struct {
	Module      module.Module
	ProjectRoot string
	TemplateData interface{}
	Modifiers   *modifier.Registry
	Resolver    *pathresolver.Resolver
	Marketplace marketplace.Adapter
	Runner      shell.Runner
}

// Result is a handler's outcome.
type Result struct {
	OK      bool
	Files   []string
	Message string
}

// Handler implements a single action kind.
type Handler interface {
	Handle(ctx context.Context, act module.Action, actx Context, v *vfs.VFS) (Result, error)
}

// render expands {{a.b.c}} placeholders in s against actx's template root.
func render(s string, actx Context) string {
	if actx.TemplateData == nil {
		return s
	}
	return template.Render(s, actx.TemplateData)
}

// Dispatcher maps an ActionKind to its Handler.
type Dispatcher map[module.ActionKind]Handler

// NewDispatcher builds the fixed kind -> handler table.
func NewDispatcher() Dispatcher {
	return Dispatcher{
		module.ActionCreateFile:      CreateFileHandler{},
		module.ActionEnhanceFile:     EnhanceFileHandler{},
		module.ActionInstallPackages: InstallPackagesHandler{},
		module.ActionAddScript:       AddScriptHandler{},
		module.ActionRunCommand:      RunCommandHandler{},
	}
}

// templateContentPrefix marks a Content value as a named template reference
// (e.g. "template:page.tsx.tmpl") instead of inline literal content.
const templateContentPrefix = "template:"

// resolveContent returns the rendered content for a CreateFile action,
// loading it from the marketplace if Content names a template.
func resolveContent(act module.Action, actx Context) (string, error) {
	if name, ok := strings.CutPrefix(act.Content, templateContentPrefix); ok {
		if actx.Marketplace == nil {
			return "", nil
		}
		raw, err := actx.Marketplace.LoadTemplate(actx.Module.ID, name)
		if err != nil {
			return "", err
		}
		return render(raw, actx), nil
	}
	return render(act.Content, actx), nil
}
