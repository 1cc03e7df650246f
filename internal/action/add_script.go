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

	"github.com/thearchitech/engine/internal/errs"
	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/vfs"
)

// AddScriptHandler implements the AddScript action: ensures package.json
// exists, then delegates to package-json-merger with the rendered script
// command under the given name.
type AddScriptHandler struct{}

func (AddScriptHandler) Handle(ctx context.Context, act module.Action, actx Context, v *vfs.VFS) (Result, error) {
	if err := v.Create(packageJSONPath, "{}"); err != nil && err != vfs.AlreadyExists {
		return Result{}, errs.NewActionFailed(string(actx.Module.ID), string(module.ActionAddScript), "package-json-merger", err)
	}

	name := render(act.ScriptName, actx)
	command := render(act.ScriptCommand, actx)

	mctx := modifier.Context{ModuleID: string(actx.Module.ID), TargetPackage: actx.Module.TargetPackage}
	params := map[string]interface{}{
		"scripts": map[string]interface{}{name: command},
	}
	res, err := actx.Modifiers.Execute(ctx, "package-json-merger", packageJSONPath, params, mctx, v)
	if err != nil {
		return Result{}, errs.NewActionFailed(string(actx.Module.ID), string(module.ActionAddScript), "package-json-merger", err)
	}
	return Result{OK: res.OK, Files: []string{packageJSONPath}, Message: res.Message}, nil
}
