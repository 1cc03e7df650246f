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

package runctx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thearchitech/engine/internal/module"
)

func TestNewAssignsFreshRunIDAndEmptySink(t *testing.T) {
	g := module.Genome{Project: module.Project{Name: "acme"}}
	rc := New(g, "/proj", nil, nil, nil, nil, nil)

	assert.NotEqual(t, [16]byte{}, rc.RunID)
	assert.Empty(t, rc.Warnings.All())
}

func TestForModuleSnapshotsResolverPaths(t *testing.T) {
	g := module.Genome{Project: module.Project{Name: "acme"}}
	rc := New(g, "/proj", nil, nil, nil, nil, nil)

	mod := module.Module{ID: "adapters/auth"}
	tctx := rc.ForModule(mod)
	assert.Equal(t, "acme", tctx.Project.Name)
	assert.Equal(t, module.ID("adapters/auth"), tctx.Module.ID)
	assert.Nil(t, tctx.Paths)
}

func TestSinkAddAndAllReturnsSnapshot(t *testing.T) {
	s := &Sink{}
	s.Add(Warning{Kind: WarningParamConflict, Message: "conflict on key x", ModuleID: "a"})
	s.Add(Warning{Kind: WarningUnknownField, Message: "unknown field y"})

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, WarningParamConflict, all[0].Kind)
	assert.Equal(t, WarningUnknownField, all[1].Kind)
}

func TestSinkAddIsSafeForConcurrentUse(t *testing.T) {
	s := &Sink{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Add(Warning{Message: "w"})
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.All(), 50)
}
