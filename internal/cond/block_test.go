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

package cond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsl-tools/lslpp/internal/diag"
)

func TestStack_SimpleIfElse(t *testing.T) {
	s := NewStack()
	diags := diag.New()

	s.Push("if", true, 1)
	assert.True(t, s.IsActive())

	s.Else("test.src", 3, 1, diags)
	assert.False(t, s.IsActive())

	s.Endif("test.src", 4, 1, diags)
	assert.Equal(t, 0, s.Depth())
	assert.True(t, s.IsActive())
	assert.Empty(t, diags.All())
}

func TestStack_ElifChain(t *testing.T) {
	s := NewStack()
	diags := diag.New()

	s.Push("if", false, 1)
	assert.False(t, s.IsActive())

	s.Elif(false, "test.src", 2, 1, diags)
	assert.False(t, s.IsActive())

	s.Elif(true, "test.src", 3, 1, diags)
	assert.True(t, s.IsActive())

	s.Else("test.src", 4, 1, diags)
	assert.False(t, s.IsActive()) // any_branch_taken already true

	s.Endif("test.src", 5, 1, diags)
	assert.Empty(t, diags.All())
}

func TestStack_NestedActivePredicate(t *testing.T) {
	s := NewStack()
	s.Push("if", true, 1)
	s.Push("if", false, 2)
	assert.False(t, s.IsActive())
	s.Push("if", true, 3) // parent inactive -> still inactive regardless of own condition
	assert.False(t, s.IsActive())
}

func TestStack_MismatchedConditionalDiagnostics(t *testing.T) {
	diags := diag.New()
	s := NewStack()

	s.Push("if", true, 1)
	s.Else("test.src", 2, 1, diags)
	s.Elif(true, "test.src", 3, 1, diags)
	s.Endif("test.src", 4, 1, diags)

	codes := diags.Filter(func(d diag.Diagnostic) bool { return d.Code == diag.CodeMismatchedConditional })
	require.Len(t, codes, 1)
	assert.Contains(t, codes[0].Message, "#elif after #else")
	assert.Equal(t, 3, codes[0].Line)
}

func TestStack_EndifWithoutIf(t *testing.T) {
	diags := diag.New()
	s := NewStack()
	s.Endif("test.src", 1, 1, diags)
	codes := diags.Filter(func(d diag.Diagnostic) bool { return d.Code == diag.CodeMismatchedConditional })
	assert.Len(t, codes, 1)
}

func TestStack_UnterminatedFrames(t *testing.T) {
	s := NewStack()
	s.Push("if", true, 1)
	s.Push("ifdef", true, 2)
	frames := s.UnterminatedFrames()
	require.Len(t, frames, 2)
	assert.Equal(t, "if", frames[0].DirectiveKind)
	assert.Equal(t, "ifdef", frames[1].DirectiveKind)
}
