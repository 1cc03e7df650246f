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

// Package modifierset wires every built-in modifier into a fresh registry.
// It is kept separate from internal/modifier so that the modifier
// implementations (which import internal/modifier for the Modifier
// interface and Context/Result types) do not create an import cycle with
// the registry itself.
package modifierset

import (
	"github.com/crossplane/crossplane-runtime/pkg/logging"

	"github.com/thearchitech/engine/internal/modifier"
	"github.com/thearchitech/engine/internal/modifier/cssenhance"
	"github.com/thearchitech/engine/internal/modifier/jsonmerge"
	"github.com/thearchitech/engine/internal/modifier/tsast"
	"github.com/thearchitech/engine/internal/modifier/yamlmerge"
)

// Default builds the registry every driver and composer dependency wires
// against: the nine modifiers named in the blueprint vocabulary.
func Default(log logging.Logger) *modifier.Registry {
	r := modifier.NewRegistry(log)
	r.Register("json-merger", jsonmerge.JSONMerger{})
	r.Register("package-json-merger", jsonmerge.PackageJSONMerger{})
	r.Register("tsconfig-enhancer", jsonmerge.TSConfigEnhancer{})
	r.Register("yaml-merger", yamlmerge.YAMLMerger{})
	r.Register("css-enhancer", cssenhance.CSSEnhancer{})
	r.Register("ts-module-enhancer", tsast.TSModuleEnhancer{})
	r.Register("js-export-wrapper", tsast.JSExportWrapper{})
	r.Register("jsx-children-wrapper", tsast.JSXChildrenWrapper{})
	r.Register("js-config-merger", tsast.JSConfigMerger{})
	return r
}
