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

// Package errs defines the error taxonomy shared by every composition and
// execution component. Each kind is a concrete exported type carrying
// structured context so callers can errors.As into the field they need,
// while still wrapping a cause via crossplane-runtime/pkg/errors for stack
// capture and message composition.
package errs

import (
	"fmt"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

// ValidationError reports a malformed genome or module reference.
type ValidationError struct {
	Field  string
	Reason string
	cause  error
}

func NewValidationError(field, reason string, cause error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, cause: cause}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.cause }

// ModuleNotFound reports a module ID with no marketplace entry.
type ModuleNotFound struct {
	ModuleID string
}

func (e *ModuleNotFound) Error() string {
	return fmt.Sprintf("module not found: %s", e.ModuleID)
}

// MissingPrerequisite reports a required capability or module that is not
// present among the included modules. Exactly one of Capability or
// MissingModuleID is set, depending on which kind of prerequisite failed.
type MissingPrerequisite struct {
	ModuleID        string
	Capability      string
	MissingModuleID string
}

func (e *MissingPrerequisite) Error() string {
	if e.Capability != "" {
		return fmt.Sprintf("module %s requires capability %q, which no included module provides", e.ModuleID, e.Capability)
	}
	return fmt.Sprintf("module %s requires module %q, which is not included", e.ModuleID, e.MissingModuleID)
}

// CapabilityConflict reports more than one provider for a required
// capability with no disambiguating override.
type CapabilityConflict struct {
	Capability string
	Providers  []string
}

func (e *CapabilityConflict) Error() string {
	return fmt.Sprintf("capability %q has conflicting providers %v; add a module override to disambiguate", e.Capability, e.Providers)
}

// CircularDependency reports a cycle in the prerequisite DAG. Path is the
// exact cycle, e.g. [A, B, A].
type CircularDependency struct {
	Path []string
}

func (e *CircularDependency) Error() string {
	return fmt.Sprintf("circular dependency detected: %v", e.Path)
}

// BlueprintLoadFailed reports a blueprint file that could not be parsed.
type BlueprintLoadFailed struct {
	ModuleID string
	cause    error
}

func NewBlueprintLoadFailed(moduleID string, cause error) *BlueprintLoadFailed {
	return &BlueprintLoadFailed{ModuleID: moduleID, cause: cause}
}

func (e *BlueprintLoadFailed) Error() string {
	return fmt.Sprintf("failed to load blueprint for %s: %v", e.ModuleID, e.cause)
}

func (e *BlueprintLoadFailed) Unwrap() error { return e.cause }

// ActionFailed reports a handler error for a specific action within a
// module's blueprint.
type ActionFailed struct {
	ModuleID string
	Action   string
	Modifier string
	cause    error
}

func NewActionFailed(moduleID, action, modifier string, cause error) *ActionFailed {
	return &ActionFailed{ModuleID: moduleID, Action: action, Modifier: modifier, cause: cause}
}

func (e *ActionFailed) Error() string {
	if e.Modifier != "" {
		return fmt.Sprintf("action %s (modifier %s) failed for module %s: %v", e.Action, e.Modifier, e.ModuleID, e.cause)
	}
	return fmt.Sprintf("action %s failed for module %s: %v", e.Action, e.ModuleID, e.cause)
}

func (e *ActionFailed) Unwrap() error { return e.cause }

// ModifierNotFound reports a blueprint referencing a modifier the registry
// has no entry for.
type ModifierNotFound struct {
	Name string
}

func (e *ModifierNotFound) Error() string {
	return fmt.Sprintf("modifier not found: %s", e.Name)
}

// VFSError wraps a failure from the virtual file system surface.
type VFSError struct {
	Op    string
	Path  string
	cause error
}

func NewVFSError(op, path string, cause error) *VFSError {
	return &VFSError{Op: op, Path: path, cause: cause}
}

func (e *VFSError) Error() string {
	return fmt.Sprintf("vfs %s failed for %q: %v", e.Op, e.Path, e.cause)
}

func (e *VFSError) Unwrap() error { return e.cause }

// FlushFailed reports the first write error encountered while flushing the
// VFS to disk; remaining writes are aborted.
type FlushFailed struct {
	Path  string
	cause error
}

func NewFlushFailed(path string, cause error) *FlushFailed {
	return &FlushFailed{Path: path, cause: cause}
}

func (e *FlushFailed) Error() string {
	return fmt.Sprintf("flush failed writing %q: %v", e.Path, e.cause)
}

func (e *FlushFailed) Unwrap() error { return e.cause }

// CommandFailed reports a non-zero exit from a RunCommand action.
type CommandFailed struct {
	Command string
	Code    int
	Stderr  string
}

func (e *CommandFailed) Error() string {
	return fmt.Sprintf("command %q exited %d: %s", e.Command, e.Code, e.Stderr)
}

// CommandTimeout reports a RunCommand action that exceeded its timeout.
type CommandTimeout struct {
	Command string
}

func (e *CommandTimeout) Error() string {
	return fmt.Sprintf("command %q timed out", e.Command)
}

// LockFileInvalid reports a lock file present on disk whose schema violates
// the data model.
type LockFileInvalid struct {
	Reason string
	cause  error
}

func NewLockFileInvalid(reason string, cause error) *LockFileInvalid {
	return &LockFileInvalid{Reason: reason, cause: cause}
}

func (e *LockFileInvalid) Error() string {
	return fmt.Sprintf("lock file invalid: %s", e.Reason)
}

func (e *LockFileInvalid) Unwrap() error { return e.cause }

// Cancelled reports a run that was stopped via cooperative cancellation.
type Cancelled struct{}

func (e *Cancelled) Error() string { return "run cancelled" }

// ExecutionFailed reports a module's blueprint run failing within a batch
// of the execution plan, identifying the batch and module that failed.
type ExecutionFailed struct {
	BatchNumber int
	ModuleID    string
	cause       error
}

func NewExecutionFailed(batchNumber int, moduleID string, cause error) *ExecutionFailed {
	return &ExecutionFailed{BatchNumber: batchNumber, ModuleID: moduleID, cause: cause}
}

func (e *ExecutionFailed) Error() string {
	return fmt.Sprintf("batch %d: module %s failed: %v", e.BatchNumber, e.ModuleID, e.cause)
}

func (e *ExecutionFailed) Unwrap() error { return e.cause }

// Composite wraps a phase-scoped error surfaced by the driver or composer,
// identifying which phase and (optionally) which module it came from.
type Composite struct {
	Phase    string
	ModuleID string
	cause    error
}

func NewComposite(phase, moduleID string, cause error) *Composite {
	return &Composite{Phase: phase, ModuleID: moduleID, cause: cause}
}

func (e *Composite) Error() string {
	if e.ModuleID != "" {
		return fmt.Sprintf("%s failed for module %s: %v", e.Phase, e.ModuleID, e.cause)
	}
	return fmt.Sprintf("%s failed: %v", e.Phase, e.cause)
}

func (e *Composite) Unwrap() error { return e.cause }

// Wrap re-exports crossplane-runtime/pkg/errors.Wrap so callers in this
// module need a single errors import.
func Wrap(err error, msg string) error { return errors.Wrap(err, msg) }

// Wrapf re-exports crossplane-runtime/pkg/errors.Wrapf.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}
