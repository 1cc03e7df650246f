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

// Package shell defines the command runner seam consumed by the
// RunCommand action handler. The core never shells out directly; it talks
// to whatever Runner is injected, so a driver under test can swap in a
// RecordingRunner.
package shell

import "context"

// Options configures a single Exec call.
type Options struct {
	Cwd     string
	Env     []string
	Timeout int64 // seconds; 0 means the runner's default
}

// Result is the outcome of a command.
type Result struct {
	Code   int
	Stdout string
	Stderr string
}

// Runner executes a shell command. Implementations must honor ctx
// cancellation even if Options.Timeout is also set.
type Runner interface {
	Exec(ctx context.Context, command string, opts Options) (Result, error)
}
