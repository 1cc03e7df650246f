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

package shell

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
)

const defaultTimeout = 300 * time.Second

// ShellRunner executes commands with os/exec, via "sh -c" so callers may
// pass a full shell command line (pipes, redirects, env expansion).
type ShellRunner struct{}

func (ShellRunner) Exec(ctx context.Context, command string, opts Options) (Result, error) {
	timeout := defaultTimeout
	if opts.Timeout > 0 {
		timeout = time.Duration(opts.Timeout) * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	if opts.Cwd != "" {
		cmd.Dir = opts.Cwd
	}
	if len(opts.Env) > 0 {
		cmd.Env = opts.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if runCtx.Err() == context.DeadlineExceeded {
		return result, errors.Wrapf(runCtx.Err(), "command %q timed out after %s", command, timeout)
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.Code = exitErr.ExitCode()
			return result, nil
		}
		return result, errors.Wrapf(err, "failed to run command %q", command)
	}
	return result, nil
}

// Call records a single Exec invocation.
type Call struct {
	Command string
	Opts    Options
}

// RecordingRunner is a test double that records every Exec call and returns
// a scripted result without executing anything.
type RecordingRunner struct {
	Calls   []Call
	Results []Result
	Errors  []error
}

func (r *RecordingRunner) Exec(_ context.Context, command string, opts Options) (Result, error) {
	idx := len(r.Calls)
	r.Calls = append(r.Calls, Call{Command: command, Opts: opts})
	var res Result
	var err error
	if idx < len(r.Results) {
		res = r.Results[idx]
	}
	if idx < len(r.Errors) {
		err = r.Errors[idx]
	}
	return res, err
}
