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

// Package runctx defines the per-run context threaded through composition
// and execution: the genome, resolved path table, shared collaborators, and
// a Warning Sink, plus a run ID used for verbose error context only (it
// never participates in the lock file hash).
package runctx

import (
	"github.com/google/uuid"

	"github.com/thearchitech/engine/internal/marketplace"
	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/pathresolver"
	"github.com/thearchitech/engine/internal/shell"
	"github.com/thearchitech/engine/internal/vfs"
)

// Context is the shared, per-run collaborator bundle. It is built once by
// the caller orchestrating composition+execution and passed by pointer to
// every blueprint run; context.Context cancellation is threaded alongside
// it as an explicit parameter rather than stored on the struct.
type Context struct {
	RunID       uuid.UUID
	Genome      module.Genome
	ProjectRoot string
	Resolver    *pathresolver.Resolver
	Modifiers   *modifier.Registry
	Marketplace marketplace.Adapter
	Runner      shell.Runner
	VFS         *vfs.VFS
	Warnings    *Sink
}

// New constructs a Context with a fresh run ID and an empty Warning Sink.
func New(g module.Genome, projectRoot string, resolver *pathresolver.Resolver, modifiers *modifier.Registry, mkt marketplace.Adapter, runner shell.Runner, v *vfs.VFS) *Context {
	return &Context{
		RunID:       uuid.New(),
		Genome:      g,
		ProjectRoot: projectRoot,
		Resolver:    resolver,
		Modifiers:   modifiers,
		Marketplace: mkt,
		Runner:      runner,
		VFS:         v,
		Warnings:    &Sink{},
	}
}

// TemplateContext is the root exposed to {{a.b.c}} placeholder resolution:
// the genome's project metadata, the module currently executing, and the
// resolved path table, keyed to match the dotted-path names actions use.
type TemplateContext struct {
	Project module.Project
	Module  module.Module
	Paths   map[string][]string
}

// ForModule returns the template substitution root for mod, snapshotting
// the resolver's path table.
func (c *Context) ForModule(mod module.Module) TemplateContext {
	var paths map[string][]string
	if c.Resolver != nil {
		paths = c.Resolver.All()
	}
	return TemplateContext{Project: c.Genome.Project, Module: mod, Paths: paths}
}
