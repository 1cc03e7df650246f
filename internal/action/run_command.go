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

package action

import (
	"context"
	"strings"

	"github.com/thearchitech/engine/internal/errs"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/vfs"
)

// RunCommandHandler implements the RunCommand action: the only
// non-transactional handler. Its side effects are not rolled back if a
// later module in the run fails.
type RunCommandHandler struct{}

func (RunCommandHandler) Handle(ctx context.Context, act module.Action, actx Context, _ *vfs.VFS) (Result, error) {
	command := render(act.Command, actx)
	workingDir := actx.ProjectRoot
	if act.WorkingDir != "" {
		workingDir = render(act.WorkingDir, actx)
	}

	res, err := actx.Runner.Exec(ctx, command, shellOptions(workingDir))
	if err != nil {
		if strings.Contains(err.Error(), "timed out") {
			return Result{}, errs.NewActionFailed(string(actx.Module.ID), string(module.ActionRunCommand), "", &errs.CommandTimeout{Command: command})
		}
		return Result{}, errs.NewActionFailed(string(actx.Module.ID), string(module.ActionRunCommand), "", err)
	}
	if res.Code != 0 {
		cmdErr := &errs.CommandFailed{Command: command, Code: res.Code, Stderr: res.Stderr}
		return Result{}, errs.NewActionFailed(string(actx.Module.ID), string(module.ActionRunCommand), "", cmdErr)
	}
	return Result{OK: true, Message: res.Stdout}, nil
}
