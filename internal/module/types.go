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

// Package module defines the core data model: genomes, modules, blueprints
// and actions. Module is a single tagged record dispatched on Category where
// useful; category-specific behavior never requires a distinct Go type, per
// the "open polymorphism over modules" design note.
package module

// Category classifies a Module for ordering and recipe-expansion purposes.
// Framework and Adapter are equal in standing for ordering: within each
// topological level of the DAG both are batched ahead of Connector and
// Feature.
type Category string

const (
	CategoryFramework Category = "framework"
	CategoryAdapter   Category = "adapter"
	CategoryConnector Category = "connector"
	CategoryFeature   Category = "feature"
)

// ID is a module's path-like stable identifier, e.g. "adapters/auth/better-auth".
type ID string

// Params is a generic, JSON-shaped parameter bag.
type Params map[string]interface{}

// Module is the unit of generation, resolved from a genome module reference
// plus its marketplace manifest.
type Module struct {
	ID            ID           `json:"id"`
	Version       string       `json:"version"`
	Category      Category     `json:"category"`
	Params        Params       `json:"parameters,omitempty"`
	Prerequisites []string     `json:"prerequisites,omitempty"` // module IDs or "capability:<name>" references
	Provides      []Capability `json:"provides,omitempty"`
	TargetPackage string       `json:"targetPackage,omitempty"`
	TechStack     string       `json:"techStack,omitempty"`
}

// Capability is a feature a module declares it provides.
type Capability struct {
	Name       string `json:"name"`
	Version    string `json:"version,omitempty"`
	Confidence int    `json:"confidence,omitempty"`
}

// Action tag constants.
type ActionKind string

const (
	ActionCreateFile      ActionKind = "create-file"
	ActionEnhanceFile     ActionKind = "enhance-file"
	ActionInstallPackages ActionKind = "install-packages"
	ActionAddScript       ActionKind = "add-script"
	ActionRunCommand      ActionKind = "run-command"
)

// FallbackPolicy controls EnhanceFile behavior when the target path is
// missing.
type FallbackPolicy string

const (
	FallbackSkip                     FallbackPolicy = "skip"
	FallbackCreateEmpty              FallbackPolicy = "create-empty"
	FallbackUseAlternativeExtension  FallbackPolicy = "use-alternative-extension"
)

// OverwritePolicy controls CreateFile behavior when the target path exists.
type OverwritePolicy string

const (
	OverwriteNever  OverwritePolicy = "never"
	OverwriteAlways OverwritePolicy = "always"
)

// PackageSpec is a single InstallPackages entry, "name" optionally "@version".
type PackageSpec struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// Action is a tagged variant over the five action kinds. Exactly one of the
// kind-specific field groups is populated, selected by Kind.
type Action struct {
	Kind ActionKind `json:"kind"`

	// CreateFile
	Path      string          `json:"path,omitempty"`
	Content   string          `json:"content,omitempty"`
	Overwrite OverwritePolicy `json:"overwrite,omitempty"`

	// EnhanceFile (also uses Path)
	Modifier string                 `json:"modifier,omitempty"`
	Params   map[string]interface{} `json:"params,omitempty"`
	Fallback FallbackPolicy         `json:"fallback,omitempty"`

	// InstallPackages
	Packages []PackageSpec `json:"packages,omitempty"`
	Dev      bool          `json:"dev,omitempty"`

	// AddScript
	ScriptName    string `json:"scriptName,omitempty"`
	ScriptCommand string `json:"scriptCommand,omitempty"`

	// RunCommand
	Command    string `json:"command,omitempty"`
	WorkingDir string `json:"workingDir,omitempty"`
}

// Blueprint is a module's ordered generation recipe.
type Blueprint struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Actions []Action `json:"actions"`
}

// ModuleRef is a genome's reference to a module: a stable ID, an optional
// version constraint, and a parameter bag overriding the module's defaults.
type ModuleRef struct {
	ID      ID     `json:"id"`
	Version string `json:"version,omitempty"`
	Params  Params `json:"parameters,omitempty"`
}

// App describes one application within a monorepo layout.
type App struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// Pkg describes one shared package within a monorepo layout.
type Pkg struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// Layout is the genome's monorepo shape: zero or more apps and packages.
type Layout struct {
	Apps     []App `json:"apps,omitempty"`
	Packages []Pkg `json:"packages,omitempty"`
}

// Project carries the genome's top-level project metadata.
type Project struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Framework   string `json:"framework,omitempty"`
	Path        string `json:"path,omitempty"`
	Description string `json:"description,omitempty"`
}

// Options carries genome-level run options.
type Options struct {
	SkipInstall bool `json:"skipInstall,omitempty"`
}

// PackageRef is a genome's reference to a marketplace package (expanded by
// the Recipe Expander into one or more Modules).
type PackageRef struct {
	Name   string `json:"name"`
	Params Params `json:"parameters,omitempty"`
}

// Genome is the user's input: project metadata, monorepo layout, and the
// modules/packages selected for the project.
type Genome struct {
	Project         Project                `json:"project"`
	Layout          Layout                 `json:"layout,omitempty"`
	Modules         []ModuleRef            `json:"modules,omitempty"`
	Packages        map[string][]PackageRef `json:"packages,omitempty"` // keyed by target app/package ID, "" for root
	Paths           map[string]string      `json:"paths,omitempty"`    // user overrides of abstract path keys
	ModuleOverrides map[string]ModuleRef   `json:"moduleOverrides,omitempty"` // disambiguating capability overrides
	RecipeBooks     []string               `json:"recipeBooks,omitempty"`
	Options         Options                `json:"options,omitempty"`
}
