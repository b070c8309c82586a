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

package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsl-tools/lslpp/internal/dialect"
	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/token"
)

func scanAll(t *testing.T, input string, d dialect.Config) ([]token.Token, *diag.Collector) {
	t.Helper()
	diags := diag.New()
	return Tokens(input, "test.src", d, diags), diags
}

func TestNextToken_LSL(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantKnd token.Kind
		wantTxt string
	}{
		{"directive", "#include \"file.lsl\"", token.Directive, "#include"},
		{"directive with gaps", "#   define VARIABLE 123", token.Directive, "#   define"},
		{"line comment", "// hello", token.LineComment, "// hello"},
		{"block comment", "/* a\nb */ x", token.BlockCommentContent, "/* a\nb */"},
		{"number int", "123abc", token.Number, "123abc"},
		{"number float", "1.5f", token.Number, "1.5f"},
		{"string", "\"a\\\"b\"", token.String, "\"a\\\"b\""},
		{"identifier", "foo_bar1", token.Identifier, "foo_bar1"},
		{"vector literal", "<1,2,3>", token.VectorLiteral, "<1,2,3>"},
		{"rotation literal", "<1, 2, 3, 4>", token.VectorLiteral, "<1, 2, 3, 4>"},
		{"less-than operator", "<x", token.Operator, "<"},
		{"logical and", "&&", token.Operator, "&&"},
		{"paste operator", "##", token.Operator, "##"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			toks, diags := scanAll(t, tc.input, dialect.LSLConfig)
			require.NotEmpty(t, toks)
			assert.Equal(t, tc.wantKnd, toks[0].Kind)
			assert.Equal(t, tc.wantTxt, toks[0].Text)
			_ = diags
		})
	}
}

func TestNextToken_Luau(t *testing.T) {
	toks, _ := scanAll(t, `require("a")`, dialect.LuauConfig)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Directive, toks[0].Kind)
	assert.Equal(t, "require", toks[0].Text)
}

func TestLuauLongBracketComment(t *testing.T) {
	toks, diags := scanAll(t, "--[==[\nhello\n]==]", dialect.LuauConfig)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.BlockCommentContent, toks[0].Kind)
	assert.Equal(t, "--[==[\nhello\n]==]", toks[0].Text)
	assert.Empty(t, diags.All())
}

func TestLosslessConcatenation(t *testing.T) {
	inputs := []string{
		"#define FOO(a,b) a##b\nFOO(1,2)\n",
		"<1,2,bad\n",
		"\"unterminated\n",
		"\"escape at eof\\",
		"/* unterminated",
		"require(\"x\") -- trailing comment\n",
	}
	for _, in := range inputs {
		for _, d := range []dialect.Config{dialect.LSLConfig, dialect.LuauConfig} {
			toks, _ := scanAll(t, in, d)
			var b strings.Builder
			for _, tok := range toks {
				b.WriteString(tok.Text)
			}
			assert.Equal(t, in, b.String(), "lossless concatenation must reproduce input exactly for dialect %v", d.Tag)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	_, diags := scanAll(t, "\"abc\n", dialect.LSLConfig)
	codes := diags.Filter(func(d diag.Diagnostic) bool { return d.Code == diag.CodeUnterminatedString })
	assert.Len(t, codes, 1)
}

func TestUnterminatedString_EscapeAtEOF(t *testing.T) {
	toks, diags := scanAll(t, "x = \"\\", dialect.LSLConfig)
	codes := diags.Filter(func(d diag.Diagnostic) bool { return d.Code == diag.CodeUnterminatedString })
	assert.Len(t, codes, 1)
	require.NotEmpty(t, toks)
	last := toks[len(toks)-2] // before EOF
	assert.Equal(t, token.String, last.Kind)
	assert.Equal(t, "\"\\", last.Text)
}

func TestInvalidNumberLiteral(t *testing.T) {
	_, diags := scanAll(t, "1e", dialect.LSLConfig)
	codes := diags.Filter(func(d diag.Diagnostic) bool { return d.Code == diag.CodeInvalidNumberLiteral })
	assert.Len(t, codes, 1)
}

func TestVectorLiteralFallsBackToOperator(t *testing.T) {
	toks, _ := scanAll(t, "<x", dialect.LSLConfig)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Operator, toks[0].Kind)
	assert.Equal(t, "<", toks[0].Text)
}

func TestCRLFNewlinePreserved(t *testing.T) {
	toks, _ := scanAll(t, "a\r\nb", dialect.LSLConfig)
	require.Len(t, toks, 4) // identifier, newline, identifier, eof
	assert.Equal(t, token.Newline, toks[1].Kind)
	assert.Equal(t, "\r\n", toks[1].Text)
}
