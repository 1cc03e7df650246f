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

package runctx

import "sync"

// WarningKind classifies a non-fatal condition recorded during a run.
type WarningKind string

const (
	WarningParamConflict   WarningKind = "param-conflict"
	WarningUnknownField    WarningKind = "unknown-field"
)

// Warning is one entry of the sink, surfaced to the caller alongside a
// successful result instead of being silently dropped.
type Warning struct {
	Kind     WarningKind
	Message  string
	ModuleID string
}

// Sink accumulates Warnings from any goroutine (the recipe expander and
// genome loader both write to it, and execution batches may run in
// parallel).
type Sink struct {
	mu       sync.Mutex
	warnings []Warning
}

// Add appends w to the sink.
func (s *Sink) Add(w Warning) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, w)
}

// All returns a snapshot of every recorded warning.
func (s *Sink) All() []Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}
