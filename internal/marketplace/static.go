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
	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/thearchitech/engine/internal/module"
)

// StaticMarketplace is an in-memory Adapter for tests: every module's
// metadata, blueprint and templates are supplied up front.
type StaticMarketplace struct {
	PathKeys    []PathKey
	Modules     map[module.ID]module.Module
	Blueprints  map[module.ID]module.Blueprint
	Templates   map[module.ID]map[string]string
	RecipeBooks map[string]RecipeBook
}

// NewStaticMarketplace constructs an empty StaticMarketplace ready to be
// populated via its exported maps.
func NewStaticMarketplace() *StaticMarketplace {
	return &StaticMarketplace{
		Modules:     make(map[module.ID]module.Module),
		Blueprints:  make(map[module.ID]module.Blueprint),
		Templates:   make(map[module.ID]map[string]string),
		RecipeBooks: make(map[string]RecipeBook),
	}
}

func (m *StaticMarketplace) ResolvePathDefaults(key string) (string, bool) {
	for _, k := range m.PathKeys {
		if k.Key == key {
			return k.Default, true
		}
	}
	return "", false
}

func (m *StaticMarketplace) LoadPathKeys() ([]PathKey, error) {
	return m.PathKeys, nil
}

func (m *StaticMarketplace) LoadModuleConfig(id module.ID) (module.Module, error) {
	mod, ok := m.Modules[id]
	if !ok {
		return module.Module{}, errors.Errorf("no metadata registered for module %s", id)
	}
	return mod, nil
}

func (m *StaticMarketplace) LoadBlueprint(id module.ID) (module.Blueprint, error) {
	bp, ok := m.Blueprints[id]
	if !ok {
		return module.Blueprint{}, errors.Errorf("no blueprint registered for module %s", id)
	}
	return bp, nil
}

func (m *StaticMarketplace) LoadTemplate(id module.ID, name string) (string, error) {
	perModule, ok := m.Templates[id]
	if !ok {
		return "", errors.Errorf("no templates registered for module %s", id)
	}
	content, ok := perModule[name]
	if !ok {
		return "", errors.Errorf("template %q not registered for module %s", name, id)
	}
	return content, nil
}

func (m *StaticMarketplace) LoadRecipeBook(name string) (RecipeBook, error) {
	book, ok := m.RecipeBooks[name]
	if !ok {
		return RecipeBook{}, errors.Errorf("no recipe book registered for %s", name)
	}
	return book, nil
}
