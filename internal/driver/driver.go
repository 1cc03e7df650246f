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

// Package driver walks a lock file's execution plan, running each batch's
// modules against the shared VFS -- concurrently when a batch allows it,
// strictly sequentially otherwise -- and flushes to disk only once the
// entire run succeeds. Module identity, version, and parameters
// come from the lock file itself (the reproducible record); only the
// blueprint body is re-fetched from the marketplace each run.
package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/thearchitech/engine/internal/action"
	"github.com/thearchitech/engine/internal/blueprint"
	"github.com/thearchitech/engine/internal/errs"
	"github.com/thearchitech/engine/internal/lockfile"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/runctx"
)

const phaseExecution = "execution"

// Driver runs a resolved execution plan.
type Driver struct {
	executor *blueprint.Executor
}

// New constructs a Driver with the fixed action dispatcher.
func New() *Driver {
	return &Driver{executor: blueprint.New(action.NewDispatcher())}
}

// Run executes every batch of lf.ExecutionPlan in order against rc. On
// success it flushes rc.VFS to rc.ProjectRoot; on any failure it returns
// immediately without flushing, leaving the run's buffered writes
// discarded.
func (d *Driver) Run(ctx context.Context, lf lockfile.LockFile, rc *runctx.Context) error {
	byID := make(map[module.ID]module.Module, len(lf.Modules))
	for _, m := range lf.Modules {
		byID[m.ID] = module.Module{
			ID:            m.ID,
			Version:       m.Version,
			Params:        m.Parameters,
			Prerequisites: m.Prerequisites,
			TargetPackage: m.TargetPackage,
		}
	}

	for _, batch := range lf.ExecutionPlan {
		if err := ctx.Err(); err != nil {
			return &errs.Cancelled{}
		}

		if batch.CanExecuteInParallel && len(batch.Modules) > 1 {
			if err := d.runParallel(ctx, batch, byID, rc); err != nil {
				return err
			}
			continue
		}
		if err := d.runSequential(ctx, batch, byID, rc); err != nil {
			return err
		}
	}

	if err := rc.VFS.Flush(rc.ProjectRoot); err != nil {
		return errs.NewComposite(phaseExecution, "", err)
	}
	return nil
}

func (d *Driver) runParallel(ctx context.Context, batch lockfile.Batch, byID map[module.ID]module.Module, rc *runctx.Context) error {
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())

	for _, id := range batch.Modules {
		id := id
		group.Go(func() error {
			return d.runModule(gctx, batch.BatchNumber, byID[id], rc)
		})
	}
	return group.Wait()
}

func (d *Driver) runSequential(ctx context.Context, batch lockfile.Batch, byID map[module.ID]module.Module, rc *runctx.Context) error {
	for _, id := range batch.Modules {
		if err := d.runModule(ctx, batch.BatchNumber, byID[id], rc); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) runModule(ctx context.Context, batchNumber int, mod module.Module, rc *runctx.Context) error {
	bp, err := rc.Marketplace.LoadBlueprint(mod.ID)
	if err != nil {
		return errs.NewExecutionFailed(batchNumber, string(mod.ID), err)
	}
	if _, err := d.executor.Run(ctx, mod, bp, rc); err != nil {
		return errs.NewExecutionFailed(batchNumber, string(mod.ID), err)
	}
	return nil
}
