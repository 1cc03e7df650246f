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

// Package marketplace defines the read-only seam the core uses to resolve
// module metadata, blueprints, path-key schemas, and template content.
// Network discovery/download is out of scope; this is the boundary an
// external collaborator implements.
package marketplace

import "github.com/thearchitech/engine/internal/module"

// PathKey describes one entry in a marketplace's path-key schema.
type PathKey struct {
	Key           string
	Default       string
	ResolveToApps bool
}

// Adapter is the read-only surface the core consumes to resolve module
// metadata. FSMarketplace and StaticMarketplace are the two implementations
// supplied here; a real network-backed marketplace is an external
// collaborator's responsibility.
type Adapter interface {
	// ResolvePathDefaults returns the adapter's default path for a key, or
	// false if the adapter has no opinion about it.
	ResolvePathDefaults(key string) (string, bool)
	// LoadPathKeys returns the full path-key schema the marketplace defines.
	LoadPathKeys() ([]PathKey, error)
	// LoadModuleConfig returns a module's declared metadata (category,
	// prerequisites, provided capabilities, default params).
	LoadModuleConfig(id module.ID) (module.Module, error)
	// LoadBlueprint returns the parsed blueprint for a module.
	LoadBlueprint(id module.ID) (module.Blueprint, error)
	// LoadTemplate returns the raw content of a named template file scoped
	// to a module.
	LoadTemplate(id module.ID, name string) (string, error)
	// LoadRecipeBook returns a named recipe book's package -> module(s)
	// expansion table.
	LoadRecipeBook(name string) (RecipeBook, error)
}

// RecipeBook is a marketplace-provided mapping from user-facing package
// names to the module set (and parameter overrides) they expand to, plus
// each package's own dependencies on other packages and its directory
// override for the path resolver.
type RecipeBook struct {
	Name     string             `json:"name"`
	Packages map[string]Recipe `json:"packages"`
}

// Recipe is one package entry of a recipe book.
type Recipe struct {
	Modules   []ModuleSpec `json:"modules"`
	DependsOn []string     `json:"dependsOn,omitempty"`
	Directory string       `json:"directory,omitempty"`
}

// ModuleSpec names one module a package expands to, with its recipe-level
// parameter defaults.
type ModuleSpec struct {
	ID     module.ID    `json:"id"`
	Params module.Params `json:"parameters,omitempty"`
}
