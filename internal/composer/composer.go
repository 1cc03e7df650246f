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

// Package composer orchestrates the full composition pipeline:
// recipe expansion, module enrichment, capability resolution, execution
// planning, and lock file assembly, short-circuiting when a valid lock
// file already matches the genome.
package composer

import (
	"sort"
	"time"

	"github.com/thearchitech/engine/internal/capability"
	"github.com/thearchitech/engine/internal/errs"
	"github.com/thearchitech/engine/internal/lockfile"
	"github.com/thearchitech/engine/internal/marketplace"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/modifier/jsonmerge"
	"github.com/thearchitech/engine/internal/recipe"
)

const phase = "composition"

// Result is everything downstream execution needs: the resolved modules in
// execution-batch order, the batches themselves, the lock file assembled
// (or loaded) for this run, and any non-fatal warnings recorded along the
// way.
type Result struct {
	Modules   []module.Module
	Batches   []capability.Batch
	LockFile  lockfile.LockFile
	Warnings  []recipe.Warning
	FromCache bool
}

// Composer wires the recipe expander, marketplace, and lock file store
// together into the single Compose entry point.
type Composer struct {
	mkt       marketplace.Adapter
	expander  *recipe.Expander
	lockStore *lockfile.Store
}

// New constructs a Composer.
func New(mkt marketplace.Adapter, lockStore *lockfile.Store) *Composer {
	return &Composer{mkt: mkt, expander: recipe.NewExpander(mkt), lockStore: lockStore}
}

// Compose runs the pipeline for g rooted at root. If forceRegenerate is
// false and a lock file already exists whose genomeHash matches Hash(g),
// composition is skipped entirely and the cached lock file is returned.
func (c *Composer) Compose(root string, g module.Genome, forceRegenerate bool) (*Result, error) {
	if !forceRegenerate {
		cached, err := c.lockStore.Read(root)
		if err != nil {
			return nil, errs.NewComposite(phase, "", err)
		}
		if cached != nil {
			genomeHash, err := lockfile.Hash(g)
			if err != nil {
				return nil, errs.NewComposite(phase, "", err)
			}
			if cached.GenomeHash == genomeHash {
				return &Result{LockFile: *cached, FromCache: true}, nil
			}
		}
	}

	refs, warnings, err := c.expander.Expand(g)
	if err != nil {
		return nil, errs.NewComposite(phase, "", err)
	}

	modules := make([]module.Module, 0, len(refs))
	for _, ref := range refs {
		mod, err := c.mkt.LoadModuleConfig(ref.ID)
		if err != nil {
			return nil, errs.NewComposite(phase, string(ref.ID), err)
		}
		if ref.Version != "" {
			mod.Version = ref.Version
		}
		if len(ref.Params) > 0 {
			merged, err := jsonmerge.DeepMerge(map[string]interface{}(mod.Params), map[string]interface{}(ref.Params), jsonmerge.ArrayConcat)
			if err != nil {
				return nil, errs.NewComposite(phase, string(ref.ID), err)
			}
			mod.Params = module.Params(merged)
		}
		modules = append(modules, mod)
	}

	overrides := make(map[string]module.ID, len(g.ModuleOverrides))
	for capName, ref := range g.ModuleOverrides {
		overrides[capName] = ref.ID
	}

	batches, err := capability.Resolve(modules, overrides)
	if err != nil {
		return nil, errs.NewComposite(phase, "", err)
	}

	byID := make(map[module.ID]module.Module, len(modules))
	for _, m := range modules {
		byID[m.ID] = m
	}

	genomeHash, err := lockfile.Hash(g)
	if err != nil {
		return nil, errs.NewComposite(phase, "", err)
	}

	resolved, orderedModules, err := resolveModules(batches, byID)
	if err != nil {
		return nil, errs.NewComposite(phase, "", err)
	}

	plan := make([]lockfile.Batch, len(batches))
	for i, b := range batches {
		plan[i] = lockfile.Batch{
			BatchNumber:          i + 1,
			Modules:              b.Modules,
			CanExecuteInParallel: b.CanExecuteInParallel,
		}
	}

	lf := lockfile.New(genomeHash, resolved, plan, time.Now().UTC().Format(time.RFC3339))
	if err := c.lockStore.Write(root, lf); err != nil {
		return nil, errs.NewComposite(phase, "", err)
	}

	return &Result{
		Modules:  orderedModules,
		Batches:  batches,
		LockFile: lf,
		Warnings: warnings,
	}, nil
}

// resolveModules walks batches in order, computing each module's integrity
// hash and returning both the lock file records and the module.Module
// values in the same execution order, for callers that want modules
// pre-sorted into the order the driver will run them.
func resolveModules(batches []capability.Batch, byID map[module.ID]module.Module) ([]lockfile.ResolvedModule, []module.Module, error) {
	var resolved []lockfile.ResolvedModule
	var ordered []module.Module

	for _, batch := range batches {
		ids := append([]module.ID{}, batch.Modules...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			mod := byID[id]
			integrity, err := lockfile.HashModule(mod.ID, mod.Version, mod.Params)
			if err != nil {
				return nil, nil, err
			}
			resolved = append(resolved, lockfile.ResolvedModule{
				ID:            mod.ID,
				Version:       mod.Version,
				Parameters:    mod.Params,
				Integrity:     integrity,
				TargetPackage: mod.TargetPackage,
				Prerequisites: mod.Prerequisites,
			})
			ordered = append(ordered, mod)
		}
	}
	return resolved, ordered, nil
}
