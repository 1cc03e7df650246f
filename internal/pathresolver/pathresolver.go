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

// Package pathresolver computes the key -> []path table once per run and
// answers lookups against it, honoring the priority chain: user
// override, recipe book directory, marketplace adapter default, computed
// app path.
package pathresolver

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/thearchitech/engine/internal/marketplace"
	"github.com/thearchitech/engine/internal/module"
)

// MultiplePaths is returned by GetOne when a key resolves to more than one
// path.
var MultiplePaths = errors.New("key resolves to multiple paths")

// Resolver answers path-key queries from a table built once per run.
type Resolver struct {
	table map[string][]string
}

// Build computes the full key -> []path table for a genome.
//
// Priority (highest first): (1) genome.Paths user override, (2) recipe book
// packageStructure.directory (recipeDirs), (3) marketplace adapter default,
// (4) computed app path apps/<id>/<relative>. Semantic keys (those present
// in semanticApps) fan out into one resolved path per qualifying app.
func Build(g module.Genome, mkt marketplace.Adapter, recipeDirs map[string]string, semanticApps map[string][]string) (*Resolver, error) {
	keys, err := mkt.LoadPathKeys()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load path-key schema")
	}

	table := make(map[string][]string, len(keys))
	for _, k := range keys {
		if apps, ok := semanticApps[k.Key]; ok && len(apps) > 0 {
			var resolved []string
			for _, appID := range apps {
				resolved = append(resolved, resolveOne(k.Key, g, recipeDirs, mkt, appID))
			}
			sort.Strings(resolved)
			table[k.Key] = resolved
			continue
		}
		table[k.Key] = []string{resolveOne(k.Key, g, recipeDirs, mkt, "")}
	}

	return &Resolver{table: table}, nil
}

func resolveOne(key string, g module.Genome, recipeDirs map[string]string, mkt marketplace.Adapter, appID string) string {
	if override, ok := g.Paths[key]; ok {
		return override
	}
	if dir, ok := recipeDirs[key]; ok {
		return dir
	}
	if def, ok := mkt.ResolvePathDefaults(key); ok {
		return def
	}
	if appID != "" {
		return path.Join("apps", appID, strings.TrimPrefix(key, appID+"."))
	}
	return key
}

// Get returns every path bound to key.
func (r *Resolver) Get(key string) []string {
	return r.table[key]
}

// All returns the full key -> []path table, for template substitution
// roots that expose the resolved paths by dotted-path lookup.
func (r *Resolver) All() map[string][]string {
	return r.table
}

// GetOne returns the single path bound to key, or MultiplePaths if key fans
// out to more than one.
func (r *Resolver) GetOne(key string) (string, error) {
	paths := r.table[key]
	switch len(paths) {
	case 0:
		return "", errors.Errorf("no path registered for key %q", key)
	case 1:
		return paths[0], nil
	default:
		return "", MultiplePaths
	}
}

// Interpolate renders a template (e.g. "{packageName}") against vars,
// substituting every {name} occurrence, and returns key -> rendered
// template for every key in the table that has at least one path. Each key
// gets the same rendered string; the key's own paths are not used.
func (r *Resolver) Interpolate(keyTemplate string, vars map[string]string) map[string]string {
	out := make(map[string]string, len(r.table))
	for key, paths := range r.table {
		if len(paths) == 0 {
			continue
		}
		rendered := keyTemplate
		for name, val := range vars {
			rendered = strings.ReplaceAll(rendered, fmt.Sprintf("{%s}", name), val)
		}
		out[key] = rendered
	}
	return out
}
