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

package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lsl-tools/lslpp/internal/token"
)

func tok(kind token.Kind, text string, line int, srcFile string, system bool) token.Token {
	t := token.New(kind, text, token.Position{Line: line, Column: 1}, srcFile)
	t.IsSystem = system
	return t
}

func TestEmit_ConcatenatesTokenText(t *testing.T) {
	tokens := []token.Token{
		tok(token.Identifier, "float", 1, "main.lsl", false),
		tok(token.Whitespace, " ", 1, "main.lsl", false),
		tok(token.Identifier, "x", 1, "main.lsl", false),
		tok(token.Punctuation, ";", 1, "main.lsl", false),
		tok(token.Newline, "\n", 1, "main.lsl", false),
	}
	assert.Equal(t, "float x;\n", Emit(tokens))
}

func TestBuildLineMappings_NoMarkers(t *testing.T) {
	tokens := []token.Token{
		tok(token.Identifier, "a", 1, "main.lsl", false),
		tok(token.Newline, "\n", 1, "main.lsl", false),
		tok(token.Identifier, "b", 2, "main.lsl", false),
		tok(token.Newline, "\n", 2, "main.lsl", false),
	}
	got := BuildLineMappings(tokens, "main.lsl")
	assert.Equal(t, []LineMapping{
		{ProcessedLine: 1, SourceFile: "main.lsl", OriginalLine: 1},
		{ProcessedLine: 2, SourceFile: "main.lsl", OriginalLine: 2},
	}, got)
}

func TestBuildLineMappings_FollowsMarkerAcrossIncludeBoundary(t *testing.T) {
	marker := tok(token.LineComment, `// @line 1 "file:///root/a.lsl"`, 5, "main.lsl", true)
	tokens := []token.Token{
		tok(token.Identifier, "x", 5, "main.lsl", false),
		tok(token.Newline, "\n", 5, "main.lsl", false),
		marker,
		tok(token.Newline, "\n", 1, "a.lsl", true),
		tok(token.Identifier, "y", 1, "a.lsl", false),
		tok(token.Newline, "\n", 1, "a.lsl", false),
	}
	got := BuildLineMappings(tokens, "main.lsl")
	assert.Equal(t, []LineMapping{
		{ProcessedLine: 1, SourceFile: "main.lsl", OriginalLine: 1},
		{ProcessedLine: 2, SourceFile: "file:///root/a.lsl", OriginalLine: 1},
		{ProcessedLine: 3, SourceFile: "file:///root/a.lsl", OriginalLine: 1},
	}, got)
}

func TestParseLineDirectives_MatchesTokenBasedMapping(t *testing.T) {
	text := "x\n// @line 1 \"file:///root/a.lsl\"\ny\n"
	got := ParseLineDirectives(text, "main.lsl")
	assert.Equal(t, []LineMapping{
		{ProcessedLine: 1, SourceFile: "main.lsl", OriginalLine: 1},
		{ProcessedLine: 2, SourceFile: "file:///root/a.lsl", OriginalLine: 1},
		{ProcessedLine: 3, SourceFile: "file:///root/a.lsl", OriginalLine: 1},
	}, got)
}

func TestParseLineDirectives_IgnoresTrailingSplitArtifact(t *testing.T) {
	got := ParseLineDirectives("a\nb\n", "main.lsl")
	assert.Len(t, got, 2)
}
