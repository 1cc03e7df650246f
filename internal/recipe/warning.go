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

package recipe

// WarningKind classifies a non-fatal condition surfaced alongside a
// successful expansion instead of aborting it.
type WarningKind string

const (
	// WarningParamConflict reports two expansions of the same module ID
	// with different parameter bags; the later expansion wins.
	WarningParamConflict WarningKind = "param-conflict"
)

// Warning is one entry of the Warning Sink a caller can inspect after a
// successful Expand.
type Warning struct {
	Kind     WarningKind
	Message  string
	ModuleID string
}
