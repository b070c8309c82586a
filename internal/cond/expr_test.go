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

	"github.com/lsl-tools/lslpp/internal/dialect"
	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/lexer"
	"github.com/lsl-tools/lslpp/internal/token"
)

func lexTokens(t *testing.T, src string, d dialect.Config) []token.Token {
	t.Helper()
	diags := diag.New()
	toks := lexer.Tokens(src, "test.src", d, diags)
	require.Empty(t, diags.All())
	return toks
}

func TestEvaluate_Arithmetic(t *testing.T) {
	e := NewEvaluator(dialect.LSLConfig)
	diags := diag.New()
	// Scenario 1 from the end-to-end test set: (2+3)*4 == 20
	toks := lexTokens(t, "(2+3)*4 == 20", dialect.LSLConfig)
	assert.True(t, e.Evaluate(toks, "test.src", diags))
	assert.Empty(t, diags.All())
}

func TestEvaluate_LogicalOperators_LSL(t *testing.T) {
	e := NewEvaluator(dialect.LSLConfig)
	diags := diag.New()
	assert.True(t, e.Evaluate(lexTokens(t, "1 && 1", dialect.LSLConfig), "test.src", diags))
	assert.False(t, e.Evaluate(lexTokens(t, "1 && 0", dialect.LSLConfig), "test.src", diags))
	assert.True(t, e.Evaluate(lexTokens(t, "0 || 1", dialect.LSLConfig), "test.src", diags))
	assert.True(t, e.Evaluate(lexTokens(t, "!0", dialect.LSLConfig), "test.src", diags))
	assert.Empty(t, diags.All())
}

func TestEvaluate_LogicalOperators_Luau(t *testing.T) {
	e := NewEvaluator(dialect.LuauConfig)
	diags := diag.New()
	assert.True(t, e.Evaluate(lexTokens(t, "1 and 1", dialect.LuauConfig), "test.src", diags))
	assert.True(t, e.Evaluate(lexTokens(t, "0 or 1", dialect.LuauConfig), "test.src", diags))
	assert.True(t, e.Evaluate(lexTokens(t, "not 0", dialect.LuauConfig), "test.src", diags))
	assert.Empty(t, diags.All())
}

func TestEvaluate_NotEqualSpellings(t *testing.T) {
	e := NewEvaluator(dialect.LSLConfig)
	diags := diag.New()
	assert.True(t, e.Evaluate(lexTokens(t, "1 != 2", dialect.LSLConfig), "test.src", diags))
	assert.True(t, e.Evaluate(lexTokens(t, "1 ~= 2", dialect.LSLConfig), "test.src", diags))
	assert.Empty(t, diags.All())
}

func TestEvaluate_TrueFalseIdentifiers(t *testing.T) {
	e := NewEvaluator(dialect.LSLConfig)
	diags := diag.New()
	assert.True(t, e.Evaluate(lexTokens(t, "true", dialect.LSLConfig), "test.src", diags))
	assert.False(t, e.Evaluate(lexTokens(t, "false", dialect.LSLConfig), "test.src", diags))
	assert.False(t, e.Evaluate(lexTokens(t, "SOME_UNKNOWN_IDENT", dialect.LSLConfig), "test.src", diags))
	assert.Empty(t, diags.All())
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	e := NewEvaluator(dialect.LSLConfig)
	diags := diag.New()
	assert.False(t, e.Evaluate(lexTokens(t, "1 / 0", dialect.LSLConfig), "test.src", diags))
	codes := diags.Filter(func(d diag.Diagnostic) bool { return d.Code == diag.CodeDivisionByZero })
	assert.Len(t, codes, 1)
}

func TestEvaluate_ModuloByZero(t *testing.T) {
	e := NewEvaluator(dialect.LSLConfig)
	diags := diag.New()
	assert.False(t, e.Evaluate(lexTokens(t, "5 % 0", dialect.LSLConfig), "test.src", diags))
	codes := diags.Filter(func(d diag.Diagnostic) bool { return d.Code == diag.CodeDivisionByZero })
	assert.Len(t, codes, 1)
}

func TestEvaluate_MismatchedParenIsInvalidExpression(t *testing.T) {
	e := NewEvaluator(dialect.LSLConfig)
	diags := diag.New()
	assert.False(t, e.Evaluate(lexTokens(t, "(1 + 2", dialect.LSLConfig), "test.src", diags))
	codes := diags.Filter(func(d diag.Diagnostic) bool { return d.Code == diag.CodeInvalidExpression })
	assert.Len(t, codes, 1)
}

func TestEvaluate_TrailingTokensIsInvalidExpression(t *testing.T) {
	e := NewEvaluator(dialect.LSLConfig)
	diags := diag.New()
	assert.False(t, e.Evaluate(lexTokens(t, "1 1", dialect.LSLConfig), "test.src", diags))
	codes := diags.Filter(func(d diag.Diagnostic) bool { return d.Code == diag.CodeInvalidExpression })
	assert.Len(t, codes, 1)
}

func TestEvaluate_UnaryMinus(t *testing.T) {
	e := NewEvaluator(dialect.LSLConfig)
	diags := diag.New()
	assert.True(t, e.Evaluate(lexTokens(t, "-1 + 2 == 1", dialect.LSLConfig), "test.src", diags))
	assert.Empty(t, diags.All())
}

func TestEvaluate_PrecedenceOrdering(t *testing.T) {
	e := NewEvaluator(dialect.LSLConfig)
	diags := diag.New()
	// && binds tighter than ||
	assert.True(t, e.Evaluate(lexTokens(t, "0 || 1 && 1", dialect.LSLConfig), "test.src", diags))
	// * binds tighter than +
	assert.True(t, e.Evaluate(lexTokens(t, "1 + 2 * 3 == 7", dialect.LSLConfig), "test.src", diags))
	assert.Empty(t, diags.All())
}
