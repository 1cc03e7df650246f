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

// Package new implements the "new" subcommand: compose a genome against a
// marketplace and execute the resulting plan against a project directory.
package new

import (
	"context"
	"path/filepath"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/crossplane/crossplane-runtime/pkg/logging"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"

	"github.com/thearchitech/engine/internal/composer"
	"github.com/thearchitech/engine/internal/config"
	"github.com/thearchitech/engine/internal/driver"
	"github.com/thearchitech/engine/internal/genome"
	"github.com/thearchitech/engine/internal/lockfile"
	"github.com/thearchitech/engine/internal/marketplace"
	"github.com/thearchitech/engine/internal/modifierset"
	"github.com/thearchitech/engine/internal/module"
	"github.com/thearchitech/engine/internal/pathresolver"
	"github.com/thearchitech/engine/internal/runctx"
	"github.com/thearchitech/engine/internal/shell"
	"github.com/thearchitech/engine/internal/vfs"
)

// Cmd composes and executes a project from a genome file.
type Cmd struct {
	Genome string `arg:"" help:"Path to the project genome file."`

	Marketplace     string `optional:"" help:"Marketplace root directory. Overrides the configured default."`
	ProjectDir      string `optional:"" help:"Directory to generate into. Defaults to the genome's project.path, or the current directory."`
	ForceRegenerate bool   `name:"force" help:"Ignore any cached lock file and recompose from scratch."`
}

func (c *Cmd) Run(ctx context.Context, p pterm.TextPrinter, log logging.Logger) error {
	fs := afero.NewOsFs()

	src, err := config.NewFSSource()
	if err != nil {
		return errors.Wrap(err, "failed to open tool configuration")
	}
	cfg, err := config.Extract(src)
	if err != nil {
		return errors.Wrap(err, "failed to read tool configuration")
	}

	g, warnings, err := genome.Load(fs, c.Genome)
	if err != nil {
		return errors.Wrap(err, "failed to load genome")
	}
	g = genome.ApplyDefaults(g, *cfg)

	mktRoot := c.Marketplace
	if mktRoot == "" {
		mktRoot = cfg.DefaultMarketplace
	}
	if mktRoot == "" {
		return errors.New("no marketplace configured: pass --marketplace or set defaultMarketplace")
	}
	mkt := marketplace.NewFSMarketplace(mktRoot, marketplace.WithFS(fs), marketplace.WithLogger(log))

	projectRoot := c.ProjectDir
	if projectRoot == "" {
		projectRoot = g.Project.Path
	}
	if projectRoot == "" {
		projectRoot = "."
	}
	projectRoot, err = filepath.Abs(projectRoot)
	if err != nil {
		return errors.Wrap(err, "failed to resolve project directory")
	}
	if err := fs.MkdirAll(projectRoot, 0o755); err != nil {
		return errors.Wrap(err, "failed to create project directory")
	}

	lockStore := lockfile.NewStore(fs)
	comp := composer.New(mkt, lockStore)

	forceRegenerate := c.ForceRegenerate || cfg.ForceRegenerate
	result, err := comp.Compose(projectRoot, g, forceRegenerate)
	if err != nil {
		return errors.Wrap(err, "composition failed")
	}

	if result.FromCache {
		p.Printfln("Using cached lock file (genome unchanged). Pass --force to recompose.")
	} else {
		p.Printfln("Composed %d module(s) across %d batch(es).", len(result.Modules), len(result.Batches))
	}

	recipeDirs, err := recipeDirectories(mkt, g.RecipeBooks)
	if err != nil {
		return errors.Wrap(err, "failed to load recipe book directories")
	}
	semanticApps, err := semanticAppFanOut(mkt, g)
	if err != nil {
		return errors.Wrap(err, "failed to compute semantic app fan-out")
	}

	resolver, err := pathresolver.Build(g, mkt, recipeDirs, semanticApps)
	if err != nil {
		return errors.Wrap(err, "failed to build path resolver")
	}

	v := vfs.New(fs, projectRoot)
	modifiers := modifierset.Default(log)
	runner := shell.ShellRunner{}

	rc := runctx.New(g, projectRoot, resolver, modifiers, mkt, runner, v)
	for _, w := range warnings {
		rc.Warnings.Add(w)
	}
	for _, w := range result.Warnings {
		rc.Warnings.Add(runctx.Warning{Kind: runctx.WarningParamConflict, Message: w.Message, ModuleID: w.ModuleID})
	}

	if err := driver.New().Run(ctx, result.LockFile, rc); err != nil {
		return errors.Wrap(err, "execution failed")
	}

	for _, w := range rc.Warnings.All() {
		p.Printfln("warning: %s", w.Message)
	}
	p.Printfln("Project ready at %s", projectRoot)
	return nil
}

// recipeDirectories loads every recipe book named in books and flattens
// each package's directory override into a key -> directory map, keyed by
// package name, for the path resolver's recipe-book-directory tier.
func recipeDirectories(mkt marketplace.Adapter, books []string) (map[string]string, error) {
	dirs := make(map[string]string)
	for _, name := range books {
		book, err := mkt.LoadRecipeBook(name)
		if err != nil {
			return nil, errors.Wrapf(err, "loading recipe book %q", name)
		}
		for pkgName, rec := range book.Packages {
			if rec.Directory != "" {
				dirs[pkgName] = rec.Directory
			}
		}
	}
	return dirs, nil
}

// semanticAppFanOut resolves, for every marketplace path key marked
// ResolveToApps, the full set of app IDs declared in the genome's layout --
// so a semantic key like "components" fans out into one resolved path per
// app instead of a single ambiguous path.
func semanticAppFanOut(mkt marketplace.Adapter, g module.Genome) (map[string][]string, error) {
	keys, err := mkt.LoadPathKeys()
	if err != nil {
		return nil, errors.Wrap(err, "loading path-key schema")
	}
	if len(g.Layout.Apps) == 0 {
		return nil, nil
	}
	appIDs := make([]string, len(g.Layout.Apps))
	for i, app := range g.Layout.Apps {
		appIDs[i] = app.ID
	}

	fanOut := make(map[string][]string)
	for _, k := range keys {
		if k.ResolveToApps {
			fanOut[k.Key] = appIDs
		}
	}
	return fanOut, nil
}
