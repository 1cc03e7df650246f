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
	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/vfs"
)

const packageJSONPath = "package.json"

// InstallPackagesHandler implements the InstallPackages action: ensures
// package.json exists, then delegates to package-json-merger with either
// dependencies or devDependencies populated.
type InstallPackagesHandler struct{}

func (InstallPackagesHandler) Handle(ctx context.Context, act module.Action, actx Context, v *vfs.VFS) (Result, error) {
	if err := v.Create(packageJSONPath, "{}"); err != nil && err != vfs.AlreadyExists {
		return Result{}, errs.NewActionFailed(string(actx.Module.ID), string(module.ActionInstallPackages), "package-json-merger", err)
	}

	deps := map[string]interface{}{}
	for _, token := range act.Packages {
		name, version := splitPackageToken(token)
		deps[name] = version
	}

	key := "dependencies"
	if act.Dev {
		key = "devDependencies"
	}

	mctx := modifier.Context{ModuleID: string(actx.Module.ID), TargetPackage: actx.Module.TargetPackage}
	params := map[string]interface{}{key: deps}
	res, err := actx.Modifiers.Execute(ctx, "package-json-merger", packageJSONPath, params, mctx, v)
	if err != nil {
		return Result{}, errs.NewActionFailed(string(actx.Module.ID), string(module.ActionInstallPackages), "package-json-merger", err)
	}
	return Result{OK: res.OK, Files: []string{packageJSONPath}, Message: res.Message}, nil
}

// splitPackageToken parses a PackageSpec into (name, version). If the spec
// already carries a version, it wins; otherwise the name is split on the
// last '@' (skipping a leading '@' for scoped packages), defaulting to
// "latest".
func splitPackageToken(spec module.PackageSpec) (string, string) {
	if spec.Version != "" {
		return spec.Name, spec.Version
	}
	name := spec.Name
	scoped := strings.HasPrefix(name, "@")
	search := name
	if scoped {
		search = name[1:]
	}
	if idx := strings.LastIndex(search, "@"); idx >= 0 {
		if scoped {
			idx++
		}
		return name[:idx], name[idx+1:]
	}
	return name, "latest"
}
