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

// Package recipe expands the genome's packages block into a flat module
// list via marketplace-supplied recipe books. A package may name
// other packages as dependencies; expansion recurses with a visited set for
// loop protection and deep-merges parameter overrides over recipe defaults.
package recipe

import (
	"reflect"
	"sort"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/thearchitech/engine/internal/marketplace"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/modifier/jsonmerge"
)

// Expander turns a genome's packages (and directly referenced modules) into
// the flat module.ModuleRef list the rest of composition consumes.
type Expander struct {
	mkt marketplace.Adapter
}

// NewExpander constructs an Expander backed by mkt for recipe book lookups.
func NewExpander(mkt marketplace.Adapter) *Expander {
	return &Expander{mkt: mkt}
}

// entry tracks one module's accumulated reference plus its position in the
// output, so a later expansion can overwrite an earlier one in place.
type entry struct {
	ref module.ModuleRef
	pos int
}

// Expand resolves g.RecipeBooks, walks g.Packages recursively, and unions
// the result with g.Modules (direct references bypass recipe expansion
// entirely). Duplicate module IDs are deduplicated last-write-wins; a
// differing parameter bag for the same ID records a Warning rather than
// failing the run.
func (e *Expander) Expand(g module.Genome) ([]module.ModuleRef, []Warning, error) {
	books, err := e.loadBooks(g.RecipeBooks)
	if err != nil {
		return nil, nil, err
	}

	acc := make(map[module.ID]*entry)
	var order []module.ID
	var warnings []Warning

	put := func(ref module.ModuleRef) {
		if existing, ok := acc[ref.ID]; ok {
			if !reflect.DeepEqual(existing.ref.Params, ref.Params) {
				warnings = append(warnings, Warning{
					Kind:     WarningParamConflict,
					Message:  "module " + string(ref.ID) + " expanded with conflicting parameters; later expansion wins",
					ModuleID: string(ref.ID),
				})
			}
			existing.ref = ref
			return
		}
		acc[ref.ID] = &entry{ref: ref, pos: len(order)}
		order = append(order, ref.ID)
	}

	for _, appID := range sortedKeys(g.Packages) {
		for _, pkgRef := range g.Packages[appID] {
			if err := e.expandPackage(books, pkgRef.Name, pkgRef.Params, map[string]bool{}, put); err != nil {
				return nil, nil, err
			}
		}
	}

	for _, ref := range g.Modules {
		put(ref)
	}

	out := make([]module.ModuleRef, len(order))
	for i, id := range order {
		out[i] = acc[id].ref
	}
	return out, warnings, nil
}

// expandPackage recurses into pkgName's dependencies, then emits pkgName's
// own modules with overrideParams deep-merged over each module's recipe
// defaults. visited is copied (not shared) per call so sibling branches of a
// DAG-shaped dependency graph can each still expand a shared dependency;
// only a genuine cycle back onto an ancestor is suppressed.
func (e *Expander) expandPackage(books map[string]marketplace.Recipe, pkgName string, overrideParams module.Params, visited map[string]bool, put func(module.ModuleRef)) error {
	if visited[pkgName] {
		return nil
	}
	branch := make(map[string]bool, len(visited)+1)
	for k := range visited {
		branch[k] = true
	}
	branch[pkgName] = true

	rec, ok := books[pkgName]
	if !ok {
		return errors.Errorf("package %q not found in any included recipe book", pkgName)
	}

	for _, dep := range rec.DependsOn {
		if err := e.expandPackage(books, dep, nil, branch, put); err != nil {
			return err
		}
	}

	for _, spec := range rec.Modules {
		merged, err := mergeParams(spec.Params, overrideParams)
		if err != nil {
			return errors.Wrapf(err, "merging parameters for module %s from package %q", spec.ID, pkgName)
		}
		put(module.ModuleRef{ID: spec.ID, Params: merged})
	}
	return nil
}

func mergeParams(base, override module.Params) (module.Params, error) {
	if len(override) == 0 {
		return base, nil
	}
	// DeepMerge mutates its dst, so merge into a copy rather than into the
	// recipe book's own defaults map.
	dst := make(map[string]interface{}, len(base))
	for k, v := range base {
		dst[k] = v
	}
	merged, err := jsonmerge.DeepMerge(dst, map[string]interface{}(override), jsonmerge.ArrayConcat)
	if err != nil {
		return nil, err
	}
	return module.Params(merged), nil
}

// loadBooks fetches every named recipe book and flattens their package
// tables into a single lookup; a package name defined in more than one book
// has the later book (in names' declared order) win.
func (e *Expander) loadBooks(names []string) (map[string]marketplace.Recipe, error) {
	out := make(map[string]marketplace.Recipe)
	for _, name := range names {
		book, err := e.mkt.LoadRecipeBook(name)
		if err != nil {
			return nil, errors.Wrapf(err, "loading recipe book %q", name)
		}
		for pkgName, rec := range book.Packages {
			out[pkgName] = rec
		}
	}
	return out, nil
}

func sortedKeys(m map[string][]module.PackageRef) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
