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
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsl-tools/lslpp/internal/dialect"
	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/lexer"
)

func testHost(files map[string]string) *FSHost {
	mapFS := fstest.MapFS{}
	for name, content := range files {
		mapFS[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return NewFSHost(".", WithFS(mapFS))
}

func TestProcess_IncludeGuard(t *testing.T) {
	host := testHost(map[string]string{"a.lsl": "float x=1;"})
	state := NewState(5, []string{"."})
	diags := diag.New()

	r1, ok := Process(host, state, "a.lsl", "main.lsl", false, dialect.LSLConfig, diags, 1, 1)
	require.True(t, ok)
	assert.False(t, r1.AlreadySeen)
	assert.Equal(t, "float x=1;", r1.Source)

	r2, ok := Process(host, state, "a.lsl", "main.lsl", false, dialect.LSLConfig, diags, 2, 1)
	require.True(t, ok)
	assert.True(t, r2.AlreadySeen)
	assert.Empty(t, diags.All())
}

func TestProcess_CircularInclude(t *testing.T) {
	host := testHost(map[string]string{"a.lsl": "x", "b.lsl": "y"})
	state := NewState(5, []string{"."})
	diags := diag.New()

	state.PushInclude("a.lsl")
	defer state.PopInclude()

	_, ok := Process(host, state, "a.lsl", "b.lsl", false, dialect.LSLConfig, diags, 1, 1)
	assert.False(t, ok)
	codes := diags.Filter(func(d diag.Diagnostic) bool { return d.Code == diag.CodeCircularInclude })
	assert.Len(t, codes, 1)
}

func TestProcess_FileNotFound(t *testing.T) {
	host := testHost(map[string]string{})
	state := NewState(5, []string{"."})
	diags := diag.New()

	_, ok := Process(host, state, "missing.lsl", "main.lsl", false, dialect.LSLConfig, diags, 1, 1)
	assert.False(t, ok)
	codes := diags.Filter(func(d diag.Diagnostic) bool { return d.Code == diag.CodeFileNotFound })
	assert.Len(t, codes, 1)
}

func TestProcess_DepthExceeded(t *testing.T) {
	host := testHost(map[string]string{"a.lsl": "x"})
	state := NewState(1, []string{"."})
	state.PushInclude("dummy")
	defer state.PopInclude()
	diags := diag.New()

	_, ok := Process(host, state, "a.lsl", "main.lsl", false, dialect.LSLConfig, diags, 1, 1)
	assert.False(t, ok)
	codes := diags.Filter(func(d diag.Diagnostic) bool { return d.Code == diag.CodeIncludeDepthExceeded })
	assert.Len(t, codes, 1)
}

func TestProcess_ExtensionlessResolution(t *testing.T) {
	host := testHost(map[string]string{"mod.luau": "return {}"})
	state := NewState(5, []string{"."})
	diags := diag.New()

	r, ok := Process(host, state, "mod", "main.luau", true, dialect.LuauConfig, diags, 1, 1)
	require.True(t, ok)
	assert.Equal(t, "mod.luau", r.ResolvedPath)
	assert.Equal(t, "return {}", r.Source)
}

func TestProcess_RequireHasNoIncludeGuard(t *testing.T) {
	host := testHost(map[string]string{"d.luau": "return {}"})
	state := NewState(5, []string{"."})
	diags := diag.New()

	r1, ok := Process(host, state, "d", "main.luau", true, dialect.LuauConfig, diags, 1, 1)
	require.True(t, ok)
	assert.False(t, r1.AlreadySeen)

	r2, ok := Process(host, state, "d", "main.luau", true, dialect.LuauConfig, diags, 2, 1)
	require.True(t, ok)
	assert.False(t, r2.AlreadySeen) // require dedups via ModuleID, not the include guard
	assert.Equal(t, r1.Source, r2.Source)
}

func TestState_ModuleIDAssignment(t *testing.T) {
	state := NewState(5, []string{"."})

	idB, first := state.ModuleID("b.luau")
	assert.Equal(t, 1, idB)
	assert.True(t, first)

	idD, first := state.ModuleID("d.luau")
	assert.Equal(t, 2, idD)
	assert.True(t, first)

	idDAgain, first := state.ModuleID("d.luau")
	assert.Equal(t, idD, idDAgain)
	assert.False(t, first)

	assert.Equal(t, []int{1, 2}, state.OrderedModuleIDs())
}

func TestWrapAsModule(t *testing.T) {
	diags := diag.New()
	body := lexer.Tokens("return 1", "d.luau", dialect.LuauConfig, diags)
	require.Empty(t, diags.All())

	wrapped := WrapAsModule(body, "d.luau")
	var b strings.Builder
	for _, tok := range wrapped {
		b.WriteString(tok.Text)
	}
	assert.Equal(t, "(function() return 1 end)", b.String())
}
