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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellRunnerCapturesStdoutOnSuccess(t *testing.T) {
	r := ShellRunner{}
	res, err := r.Exec(context.Background(), "echo hello", Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Code)
	assert.Equal(t, "hello\n", res.Stdout)
}

func TestShellRunnerCapturesNonZeroExitCodeWithoutError(t *testing.T) {
	r := ShellRunner{}
	res, err := r.Exec(context.Background(), "exit 3", Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Code)
}

func TestShellRunnerHonorsWorkingDirectory(t *testing.T) {
	r := ShellRunner{}
	res, err := r.Exec(context.Background(), "pwd", Options{Cwd: "/tmp"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp\n", res.Stdout)
}

func TestShellRunnerTimesOutLongRunningCommand(t *testing.T) {
	r := ShellRunner{}
	_, err := r.Exec(context.Background(), "sleep 5", Options{Timeout: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestRecordingRunnerReplaysScriptedResultsInOrder(t *testing.T) {
	rr := &RecordingRunner{Results: []Result{{Code: 0, Stdout: "first"}, {Code: 1, Stderr: "second"}}}

	res1, err := rr.Exec(context.Background(), "cmd1", Options{})
	require.NoError(t, err)
	assert.Equal(t, "first", res1.Stdout)

	res2, err := rr.Exec(context.Background(), "cmd2", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res2.Code)

	require.Len(t, rr.Calls, 2)
	assert.Equal(t, "cmd1", rr.Calls[0].Command)
	assert.Equal(t, "cmd2", rr.Calls[1].Command)
}

func TestRecordingRunnerReplaysScriptedErrors(t *testing.T) {
	boom := assertErr("boom")
	rr := &RecordingRunner{Errors: []error{boom}}

	_, err := rr.Exec(context.Background(), "cmd1", Options{})
	assert.ErrorIs(t, err, boom)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
