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

// Package capability turns module prerequisites into a DAG, detects
// cycles, topologically sorts it into batches, and orders each topological
// level by tier (framework/adapter -> connector -> feature, features forced
// sequential). The tier order holds only within a level: a feature with no
// prerequisites can run in an earlier batch than a connector or adapter
// that sits at a deeper level.
package capability

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/thearchitech/engine/internal/errs"
	"github.com/thearchitech/engine/internal/module"
)

const capabilityPrefix = "capability:"

// Batch is one step of the execution plan: a set of module IDs and whether
// they may run concurrently.
type Batch struct {
	Modules             []module.ID
	CanExecuteInParallel bool
}

// Resolve builds the provider/consumer tables, checks for missing or
// conflicting capability providers, builds the prerequisite DAG, detects
// cycles, and returns the batches in topological + hierarchical order.
//
// overrides disambiguates a capability with more than one included
// provider by naming the module ID to prefer.
func Resolve(modules []module.Module, overrides map[string]module.ID) ([]Batch, error) {
	byID := make(map[module.ID]module.Module, len(modules))
	for _, m := range modules {
		byID[m.ID] = m
	}

	providers, err := resolveProviders(modules, overrides)
	if err != nil {
		return nil, err
	}

	edges, err := buildEdges(modules, byID, providers)
	if err != nil {
		return nil, err
	}

	if cycle := detectCycle(modules, edges); cycle != nil {
		return nil, &errs.CircularDependency{Path: cycle}
	}

	order, err := topoSort(modules, edges)
	if err != nil {
		return nil, err
	}

	return hierarchicalBatches(order, byID), nil
}

// resolveProviders maps each declared capability name to the single
// included module that should satisfy it, applying overrides and surfacing
// conflicts.
func resolveProviders(modules []module.Module, overrides map[string]module.ID) (map[string]module.ID, error) {
	byCapability := make(map[string][]module.ID)
	for _, m := range modules {
		for _, cap := range m.Provides {
			byCapability[cap.Name] = append(byCapability[cap.Name], m.ID)
		}
	}

	resolved := make(map[string]module.ID, len(byCapability))
	for name, ids := range byCapability {
		if override, ok := overrides[name]; ok {
			resolved[name] = override
			continue
		}
		if len(ids) == 1 {
			resolved[name] = ids[0]
			continue
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		strs := make([]string, len(ids))
		for i, id := range ids {
			strs[i] = string(id)
		}
		return nil, &errs.CapabilityConflict{Capability: name, Providers: strs}
	}
	return resolved, nil
}

// buildEdges returns, for each module, the set of module IDs it depends on
// (its prerequisite modules, directly named or resolved via capability).
func buildEdges(modules []module.Module, byID map[module.ID]module.Module, providers map[string]module.ID) (map[module.ID][]module.ID, error) {
	edges := make(map[module.ID][]module.ID, len(modules))
	for _, m := range modules {
		var deps []module.ID
		for _, prereq := range m.Prerequisites {
			if name, version, ok := parseCapabilityRef(prereq); ok {
				providerID, ok := providers[name]
				if !ok {
					return nil, &errs.MissingPrerequisite{ModuleID: string(m.ID), Capability: name}
				}
				if version != "" {
					if err := checkVersion(byID[providerID], version); err != nil {
						return nil, &errs.MissingPrerequisite{ModuleID: string(m.ID), Capability: name}
					}
				}
				deps = append(deps, providerID)
				continue
			}

			depID := module.ID(prereq)
			if _, ok := byID[depID]; !ok {
				return nil, &errs.MissingPrerequisite{ModuleID: string(m.ID), MissingModuleID: prereq}
			}
			deps = append(deps, depID)
		}
		edges[m.ID] = deps
	}
	return edges, nil
}

func parseCapabilityRef(prereq string) (name, version string, ok bool) {
	if !strings.HasPrefix(prereq, capabilityPrefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(prereq, capabilityPrefix)
	if idx := strings.Index(rest, "@"); idx >= 0 {
		return rest[:idx], rest[idx+1:], true
	}
	return rest, "", true
}

func checkVersion(provider module.Module, constraint string) error {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return err
	}
	v, err := semver.NewVersion(provider.Version)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return errVersionMismatch
	}
	return nil
}

var errVersionMismatch = &versionMismatchError{}

type versionMismatchError struct{}

func (*versionMismatchError) Error() string { return "provider version does not satisfy constraint" }
