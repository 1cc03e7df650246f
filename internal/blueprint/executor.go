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

// Package blueprint runs a module's ordered actions against the shared VFS,
// stopping at the first failure.
package blueprint

import (
	"context"

	"github.com/thearchitech/engine/internal/action"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/runctx"
)

// Result is the union of every action's outcome for one module.
type Result struct {
	OK      bool
	Files   []string
	Message string
}

// Executor runs a blueprint's actions in declaration order against a
// dispatcher of action handlers.
type Executor struct {
	dispatch action.Dispatcher
}

// New constructs an Executor over the given dispatch table.
func New(dispatch action.Dispatcher) *Executor {
	return &Executor{dispatch: dispatch}
}

// Run executes every action of mod's blueprint in order against the shared
// collaborators in rc. It stops at the first failure and returns that
// failure; files already written to the VFS by prior actions remain
// buffered (the caller discards the VFS wholesale on a later module or
// batch failure, matching the driver's transactional semantics).
func (e *Executor) Run(ctx context.Context, mod module.Module, bp module.Blueprint, rc *runctx.Context) (Result, error) {
	actx := action.Context{
		Module:       mod,
		ProjectRoot:  rc.ProjectRoot,
		TemplateData: rc.ForModule(mod),
		Modifiers:    rc.Modifiers,
		Resolver:     rc.Resolver,
		Marketplace:  rc.Marketplace,
		Runner:       rc.Runner,
	}

	var files []string

	for _, act := range bp.Actions {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		handler, ok := e.dispatch[act.Kind]
		if !ok {
			return Result{}, errUnknownActionKind(act.Kind)
		}

		res, err := handler.Handle(ctx, act, actx, rc.VFS)
		if err != nil {
			return Result{}, err
		}
		files = append(files, res.Files...)
	}

	return Result{OK: true, Files: files}, nil
}
