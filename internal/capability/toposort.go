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

package capability

import (
	"sort"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/thearchitech/engine/internal/module"
)

// detectCycle runs DFS with an explicit recursion stack and returns the
// exact cycle path (e.g. [A, B, A]) the first time it finds a back-edge, or
// nil if the graph is acyclic.
func detectCycle(modules []module.Module, edges map[module.ID][]module.ID) []string {
	const (
		white = iota
		gray
		black
	)
	color := make(map[module.ID]int, len(modules))
	var stack []module.ID

	var visit func(id module.ID) []string
	visit = func(id module.ID) []string {
		color[id] = gray
		stack = append(stack, id)

		for _, dep := range edges[id] {
			switch color[dep] {
			case white:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			case gray:
				cycle := []string{string(dep)}
				for i := len(stack) - 1; i >= 0; i-- {
					cycle = append(cycle, string(stack[i]))
					if stack[i] == dep {
						break
					}
				}
				reverse(cycle)
				return cycle
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
		return nil
	}

	ids := make([]module.ID, 0, len(modules))
	for _, m := range modules {
		ids = append(ids, m.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if color[id] == white {
			if cycle := visit(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// topoSort runs Kahn's algorithm over edges (id -> its prerequisites) and
// returns the modules grouped into levels: all modules with no unresolved
// prerequisite share a level, then the next wave, and so on. A module must
// already have been confirmed acyclic by detectCycle before this runs.
func topoSort(modules []module.Module, edges map[module.ID][]module.ID) ([][]module.ID, error) {
	indegree := make(map[module.ID]int, len(modules))
	dependents := make(map[module.ID][]module.ID, len(modules))
	for _, m := range modules {
		indegree[m.ID] = 0
	}
	for id, deps := range edges {
		indegree[id] += len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var levels [][]module.ID
	remaining := len(modules)
	for remaining > 0 {
		var level []module.ID
		for _, m := range modules {
			if indegree[m.ID] == 0 {
				level = append(level, m.ID)
			}
		}
		if len(level) == 0 {
			return nil, errors.New("internal error: topological sort stalled despite acyclic graph")
		}
		sort.Slice(level, func(i, j int) bool { return level[i] < level[j] })

		for _, id := range level {
			indegree[id] = -1 // mark emitted, never revisited
			remaining--
			for _, dependent := range dependents[id] {
				indegree[dependent]--
			}
		}
		levels = append(levels, level)
	}
	return levels, nil
}

// tier returns the hierarchical ordering rank for a module's category:
// framework and adapter share the first tier, then connector, then feature.
func tier(c module.Category) int {
	switch c {
	case module.CategoryFramework, module.CategoryAdapter:
		return 0
	case module.CategoryConnector:
		return 1
	case module.CategoryFeature:
		return 2
	default:
		return 1
	}
}

// hierarchicalBatches re-partitions the topological levels so that no
// module runs in the same or an earlier batch than any of its
// higher-tier prerequisites, and so that every feature-tier module is its
// own strictly sequential batch (the feature rule wins even if a topo
// level would have allowed parallelism).
func hierarchicalBatches(levels [][]module.ID, byID map[module.ID]module.Module) []Batch {
	var batches []Batch

	for _, level := range levels {
		byTier := map[int][]module.ID{}
		for _, id := range level {
			t := tier(byID[id].Category)
			byTier[t] = append(byTier[t], id)
		}

		for t := 0; t <= 2; t++ {
			ids, ok := byTier[t]
			if !ok {
				continue
			}
			sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

			if t == 2 {
				for _, id := range ids {
					batches = append(batches, Batch{Modules: []module.ID{id}, CanExecuteInParallel: false})
				}
				continue
			}
			batches = append(batches, Batch{Modules: ids, CanExecuteInParallel: len(ids) > 1})
		}
	}

	return batches
}
