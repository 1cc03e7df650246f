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

package marketplace

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/crossplane/crossplane-runtime/pkg/logging"

	"github.com/thearchitech/engine/internal/module"
)

const (
	manifestFile = "manifest.json"

	errReadManifest   = "failed to read marketplace manifest"
	errParseManifest  = "failed to parse marketplace manifest"
	errReadModuleMeta = "failed to read module metadata"
	errReadBlueprint  = "failed to read blueprint"
	errReadTemplate   = "failed to read template"
	errReadRecipeBook = "failed to read recipe book"

	recipeBooksDir = "recipe-books"
)

// moduleMetaFiles lists the metadata filenames tried per module directory,
// in order, mirroring the {adapter,connector,feature,framework}.json sibling files on disk.
var moduleMetaFiles = []string{"adapter.json", "connector.json", "feature.json", "framework.json"}

var blueprintFiles = []string{"blueprint.json", "blueprint.yaml", "blueprint.yml"}

type manifestEntry struct {
	PathKeys []PathKey `json:"pathKeys"`
}

// FSMarketplace implements Adapter over an afero.Fs rooted at a local
// marketplace directory, the way the teacher's Workspace is rooted at a
// project directory on an injected afero.Fs.
type FSMarketplace struct {
	fs   afero.Fs
	log  logging.Logger
	root string
}

// Option configures an FSMarketplace.
type Option func(*FSMarketplace)

// WithFS overrides the default OS filesystem.
func WithFS(fs afero.Fs) Option {
	return func(m *FSMarketplace) { m.fs = fs }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(m *FSMarketplace) { m.log = l }
}

// NewFSMarketplace constructs a marketplace rooted at root.
func NewFSMarketplace(root string, opts ...Option) *FSMarketplace {
	m := &FSMarketplace{
		fs:   afero.NewOsFs(),
		log:  logging.NewNopLogger(),
		root: root,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *FSMarketplace) modulePath(id module.ID, elem ...string) string {
	parts := append([]string{m.root, string(id)}, elem...)
	return filepath.Join(parts...)
}

func (m *FSMarketplace) ResolvePathDefaults(key string) (string, bool) {
	keys, err := m.LoadPathKeys()
	if err != nil {
		return "", false
	}
	for _, k := range keys {
		if k.Key == key {
			return k.Default, true
		}
	}
	return "", false
}

func (m *FSMarketplace) LoadPathKeys() ([]PathKey, error) {
	b, err := afero.ReadFile(m.fs, filepath.Join(m.root, manifestFile))
	if err != nil {
		return nil, errors.Wrap(err, errReadManifest)
	}
	var manifest manifestEntry
	if err := json.Unmarshal(b, &manifest); err != nil {
		return nil, errors.Wrap(err, errParseManifest)
	}
	return manifest.PathKeys, nil
}

func (m *FSMarketplace) LoadModuleConfig(id module.ID) (module.Module, error) {
	for _, name := range moduleMetaFiles {
		path := m.modulePath(id, name)
		b, err := afero.ReadFile(m.fs, path)
		if err != nil {
			continue
		}
		var mod module.Module
		if err := json.Unmarshal(b, &mod); err != nil {
			return module.Module{}, errors.Wrapf(err, "%s: %s", errReadModuleMeta, path)
		}
		mod.ID = id
		return mod, nil
	}
	return module.Module{}, errors.Wrapf(errors.New(errReadModuleMeta), "no metadata file found for %s", id)
}

func (m *FSMarketplace) LoadBlueprint(id module.ID) (module.Blueprint, error) {
	for _, name := range blueprintFiles {
		path := m.modulePath(id, name)
		b, err := afero.ReadFile(m.fs, path)
		if err != nil {
			continue
		}
		bp, err := decodeBlueprint(path, b)
		if err != nil {
			return module.Blueprint{}, errors.Wrapf(err, "%s: %s", errReadBlueprint, path)
		}
		return bp, nil
	}
	return module.Blueprint{}, errors.Wrapf(errors.New(errReadBlueprint), "no blueprint file found for %s", id)
}

func (m *FSMarketplace) LoadTemplate(id module.ID, name string) (string, error) {
	path := m.modulePath(id, "templates", name)
	b, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return "", errors.Wrapf(err, "%s: %s", errReadTemplate, path)
	}
	return string(b), nil
}

func (m *FSMarketplace) LoadRecipeBook(name string) (RecipeBook, error) {
	path := filepath.Join(m.root, recipeBooksDir, name+".json")
	b, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return RecipeBook{}, errors.Wrapf(err, "%s: %s", errReadRecipeBook, path)
	}
	var book RecipeBook
	if err := json.Unmarshal(b, &book); err != nil {
		return RecipeBook{}, errors.Wrapf(err, "%s: %s", errReadRecipeBook, path)
	}
	book.Name = name
	return book, nil
}
