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
	"path/filepath"
	"strings"

	"github.com/thearchitech/engine/internal/errs"
	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/vfs"
)

// extensionAliases is the fixed alternative-extension map consulted by the
// use-alternative-extension fallback policy.
var extensionAliases = map[string][]string{
	".js":  {".ts", ".mjs", ".cjs", ".mts", ".cts"},
	".ts":  {".js", ".mjs", ".cjs", ".mts", ".cts"},
	".mjs": {".js", ".ts", ".cjs", ".mts", ".cts"},
	".cjs": {".js", ".ts", ".mjs", ".mts", ".cts"},
	".mts": {".js", ".ts", ".mjs", ".cjs", ".cts"},
	".cts": {".js", ".ts", ".mjs", ".cjs", ".mts"},
}

// EnhanceFileHandler implements the EnhanceFile action: resolves the path,
// applies the fallback policy if it is missing, and delegates to the named
// modifier.
type EnhanceFileHandler struct{}

func (EnhanceFileHandler) Handle(ctx context.Context, act module.Action, actx Context, v *vfs.VFS) (Result, error) {
	path := render(act.Path, actx)

	resolved, ok, err := resolveEnhancePath(path, act.Fallback, v)
	if err != nil {
		return Result{}, errs.NewActionFailed(string(actx.Module.ID), string(module.ActionEnhanceFile), act.Modifier, err)
	}
	if !ok {
		return Result{OK: true, Message: "skipped: " + path + " not found"}, nil
	}

	mctx := modifier.Context{
		ModuleID:      string(actx.Module.ID),
		TargetPackage: actx.Module.TargetPackage,
	}
	res, err := actx.Modifiers.Execute(ctx, act.Modifier, resolved, act.Params, mctx, v)
	if err != nil {
		return Result{}, errs.NewActionFailed(string(actx.Module.ID), string(module.ActionEnhanceFile), act.Modifier, err)
	}
	return Result{OK: res.OK, Files: []string{resolved}, Message: res.Message}, nil
}

// resolveEnhancePath applies the fallback policy for a path that may not
// exist yet. Returns ok=false when the action should be skipped entirely.
func resolveEnhancePath(path string, fallback module.FallbackPolicy, v *vfs.VFS) (string, bool, error) {
	if v.Exists(path) {
		return path, true, nil
	}

	switch fallback {
	case module.FallbackSkip, "":
		return path, false, nil

	case module.FallbackCreateEmpty:
		content := "{}"
		if strings.ToLower(filepath.Ext(path)) != ".json" {
			content = ""
		}
		if err := v.Create(path, content); err != nil && err != vfs.AlreadyExists {
			return "", false, err
		}
		return path, true, nil

	case module.FallbackUseAlternativeExtension:
		ext := strings.ToLower(filepath.Ext(path))
		base := strings.TrimSuffix(path, filepath.Ext(path))
		for _, alt := range extensionAliases[ext] {
			candidate := base + alt
			if v.Exists(candidate) {
				return candidate, true, nil
			}
		}
		return path, false, nil

	default:
		return path, false, nil
	}
}
