// Copyright 2026 The lslpp Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package include

import (
	"github.com/lsl-tools/lslpp/internal/collections"
	"github.com/lsl-tools/lslpp/internal/token"
)

// State is the include/require bookkeeping shared by a root parse and all
// of its nested include/require parses (§3 "Include state", "Require state").
// It is held by reference — a child parser inherits the same *State, never
// a copy (§5, §9 "shared mutable state").
type State struct {
	IncludedFiles collections.Set[string]
	IncludeStack  []string
	Depth         int
	MaxDepth      int
	IncludePaths  []string

	Require RequireState
}

// RequireState is the Luau-only module-deduplication registry (§3). Module
// IDs are positive integers assigned in first-seen order.
type RequireState struct {
	PathToModuleID    map[string]int
	ModuleIDToWrapped map[int][]token.Token
	ModuleIDOrder     []int
	NextModuleID      int
}

// NewState returns a fresh State for a top-level parse.
func NewState(maxDepth int, includePaths []string) *State {
	return &State{
		IncludedFiles: collections.Set[string]{},
		MaxDepth:      maxDepth,
		IncludePaths:  includePaths,
		Require: RequireState{
			PathToModuleID:    map[string]int{},
			ModuleIDToWrapped: map[int][]token.Token{},
			NextModuleID:      1,
		},
	}
}

// PushInclude records entry into a nested file, for circular-include
// detection and depth limiting. The caller must call PopInclude on every
// exit path, including errors (§5 "guaranteed release on all exit paths").
func (s *State) PushInclude(resolvedPath string) {
	s.IncludeStack = append(s.IncludeStack, resolvedPath)
	s.Depth++
}

// PopInclude undoes the most recent PushInclude.
func (s *State) PopInclude() {
	s.IncludeStack = s.IncludeStack[:len(s.IncludeStack)-1]
	s.Depth--
}

// InStack reports whether resolvedPath is already on the include stack
// (i.e. including it now would be circular).
func (s *State) InStack(resolvedPath string) bool {
	for _, p := range s.IncludeStack {
		if p == resolvedPath {
			return true
		}
	}
	return false
}

// ModuleID returns the module id for resolvedPath, assigning the next one
// in sequence if this is the first time it has been required, and reports
// whether this was a first sighting.
func (s *State) ModuleID(resolvedPath string) (id int, firstSeen bool) {
	if id, ok := s.Require.PathToModuleID[resolvedPath]; ok {
		return id, false
	}
	id = s.Require.NextModuleID
	s.Require.NextModuleID++
	s.Require.PathToModuleID[resolvedPath] = id
	s.Require.ModuleIDOrder = append(s.Require.ModuleIDOrder, id)
	return id, true
}

// StoreWrapped stashes the wrapped token sequence for a module id, keyed in
// first-seen order.
func (s *State) StoreWrapped(id int, wrapped []token.Token) {
	s.Require.ModuleIDToWrapped[id] = wrapped
}

// OrderedModuleIDs returns module ids in ascending first-seen order, for
// synthesizing the __require_table declaration (§4.5).
func (s *State) OrderedModuleIDs() []int {
	return s.Require.ModuleIDOrder
}

// WrappedModule returns the wrapped token sequence previously stored for
// id via StoreWrapped.
func (s *State) WrappedModule(id int) []token.Token {
	return s.Require.ModuleIDToWrapped[id]
}
