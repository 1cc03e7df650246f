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
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/vfs"
)

// CreateFileHandler implements the CreateFile action: resolves the path
// template, renders the content (inline or a named template reference),
// and writes it via vfs.Create unless the action allows overwrite.
type CreateFileHandler struct{}

func (CreateFileHandler) Handle(_ context.Context, act module.Action, actx Context, v *vfs.VFS) (Result, error) {
	path := render(act.Path, actx)

	content, err := resolveContent(act, actx)
	if err != nil {
		return Result{}, errs.NewActionFailed(string(actx.Module.ID), string(module.ActionCreateFile), "", err)
	}

	if act.Overwrite == module.OverwriteAlways {
		if err := v.Write(path, content); err != nil {
			return Result{}, errs.NewActionFailed(string(actx.Module.ID), string(module.ActionCreateFile), "", err)
		}
		return Result{OK: true, Files: []string{path}}, nil
	}

	if err := v.Create(path, content); err != nil {
		if err == vfs.AlreadyExists {
			return Result{OK: true, Files: []string{path}, Message: path + " already exists, skipped"}, nil
		}
		return Result{}, errs.NewActionFailed(string(actx.Module.ID), string(module.ActionCreateFile), "", err)
	}
	return Result{OK: true, Files: []string{path}}, nil
}
