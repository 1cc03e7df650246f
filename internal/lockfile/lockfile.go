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

// Package lockfile persists and validates the reproducibility record
// a genome hash, the resolved module set, and its
// batched execution plan.
package lockfile

import (
	"github.com/thearchitech/engine/internal/module"
)

const schemaVersion = "1"

// LockFile is the on-disk reproducibility record.
type LockFile struct {
	Version       string          `json:"version"`
	GenomeHash    string          `json:"genomeHash"`
	ResolvedAt    string          `json:"resolvedAt"`
	Modules       []ResolvedModule `json:"modules"`
	ExecutionPlan []Batch         `json:"executionPlan"`
}

// ResolvedModule is one module's record within the lock file.
type ResolvedModule struct {
	ID            module.ID    `json:"id"`
	Version       string       `json:"version"`
	Parameters    module.Params `json:"parameters,omitempty"`
	Integrity     string       `json:"integrity"`
	TargetPackage string       `json:"targetPackage,omitempty"`
	Prerequisites []string     `json:"prerequisites,omitempty"`
}

// Batch is one step of the execution plan.
type Batch struct {
	BatchNumber          int         `json:"batchNumber"`
	Modules              []module.ID `json:"modules"`
	CanExecuteInParallel bool        `json:"canExecuteInParallel"`
}

// New assembles a LockFile from a resolved module set and execution plan.
// resolvedAt is passed in rather than computed here so tests can supply a
// fixed timestamp; production callers pass time.Now().UTC().Format(time.RFC3339).
func New(genomeHash string, modules []ResolvedModule, plan []Batch, resolvedAt string) LockFile {
	return LockFile{
		Version:       schemaVersion,
		GenomeHash:    genomeHash,
		ResolvedAt:    resolvedAt,
		Modules:       modules,
		ExecutionPlan: plan,
	}
}
