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

// Package modifier holds the registry of structure-aware file transformers
// invoked by the EnhanceFile action. Modifiers are plain values implementing
// a single interface plus a JSON schema, registered by name at process
// start -- no inheritance, mirroring the source's dynamic dictionary.
package modifier

import (
	"context"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/crossplane/crossplane-runtime/pkg/logging"

	"github.com/thearchitech/engine/internal/errs"
	"github.com/thearchitech/engine/internal/vfs"
)

// Context carries the project-level information a modifier may need to
// render new content (e.g. an import path relative to the target package).
type Context struct {
	ProjectName   string
	ModuleID      string
	TargetPackage string
}

// Result is a modifier's outcome.
type Result struct {
	OK      bool
	Message string
}

// Modifier is a pure function of (current VFS content at path, params) to
// new content. It must never touch disk directly -- all reads and writes go
// through the supplied VFS.
type Modifier interface {
	// Execute applies the modifier to path within v, using params (already
	// validated against ParamsSchema) and ctx.
	Execute(ctx context.Context, path string, params map[string]interface{}, mctx Context, v *vfs.VFS) (Result, error)
	// ParamsSchema returns the modifier's parameter bag as a JSON Schema
	// document (draft-04 compatible, per gojsonschema).
	ParamsSchema() string
	// SupportedFileTypes lists the file extensions this modifier is meant
	// to operate on, e.g. [".json"]. Informational; not enforced.
	SupportedFileTypes() []string
	Description() string
}

// Record pairs a Modifier with its precompiled schema loader.
type Record struct {
	Modifier
	name   string
	schema gojsonschema.JSONLoader
}

// Registry is the name -> Record catalog, populated once at process start.
type Registry struct {
	log     logging.Logger
	entries map[string]*Record
}

// NewRegistry constructs an empty registry.
func NewRegistry(log logging.Logger) *Registry {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Registry{log: log, entries: make(map[string]*Record)}
}

// Register adds m under name. Panics on duplicate registration, since the
// registry is only ever populated once at process start from a fixed list.
func (r *Registry) Register(name string, m Modifier) {
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("modifier %q already registered", name))
	}
	r.entries[name] = &Record{
		Modifier: m,
		name:     name,
		schema:   gojsonschema.NewStringLoader(m.ParamsSchema()),
	}
}

// Lookup returns the named modifier, or ModifierNotFound.
func (r *Registry) Lookup(name string) (*Record, error) {
	rec, ok := r.entries[name]
	if !ok {
		return nil, &errs.ModifierNotFound{Name: name}
	}
	return rec, nil
}

// Names returns every registered modifier name.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.entries))
	for name := range r.entries {
		out = append(out, name)
	}
	return out
}

// Execute validates params against rec's schema, then delegates to the
// modifier. Validation failure surfaces as an ActionFailed-ready error; the
// caller (the EnhanceFile handler) is responsible for wrapping it with
// module/action context.
func (r *Registry) Execute(ctx context.Context, name, path string, params map[string]interface{}, mctx Context, v *vfs.VFS) (Result, error) {
	rec, err := r.Lookup(name)
	if err != nil {
		return Result{}, err
	}

	if err := validateParams(rec, params); err != nil {
		return Result{}, err
	}

	res, err := rec.Execute(ctx, path, params, mctx, v)
	if err != nil {
		return Result{}, errors.Wrapf(err, "modifier %s", name)
	}
	return res, nil
}

func validateParams(rec *Record, params map[string]interface{}) error {
	if params == nil {
		params = map[string]interface{}{}
	}
	docLoader := gojsonschema.NewGoLoader(params)
	result, err := gojsonschema.Validate(rec.schema, docLoader)
	if err != nil {
		return errors.Wrapf(err, "invalid params schema for modifier %s", rec.name)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return errors.Errorf("params for modifier %s failed validation: %v", rec.name, msgs)
	}
	return nil
}
