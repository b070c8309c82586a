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

package ppparser

import (
	"fmt"

	"github.com/lsl-tools/lslpp/internal/token"
)

// emit appends t to the parser's output buffer, first inserting an @line
// provenance marker when the source line/file has jumped since the last
// emission (§4.5 "Provenance tracking"). Trivia tokens (whitespace,
// comments, newlines) pass straight through without tripping the latch,
// since a provenance marker only needs to precede the first significant
// token on a new output line.
func (p *Parser) emit(t token.Token) {
	if p.needsLineMarker(t) {
		p.output = append(p.output, p.lineMarkerTokens(t.Pos.Line, t.SrcFile)...)
		p.state.AtLineStart = true
	}
	p.output = append(p.output, t)

	p.state.LastSourceLine = t.Pos.Line
	p.state.LastSourceFile = t.SrcFile
	if t.Kind == token.Newline {
		p.state.AtLineStart = true
	} else if !t.IsTrivia() {
		p.state.AtLineStart = false
	}
}

// needsLineMarker reports whether t is the first significant token on a new
// output line and its source position has jumped discontinuously from the
// last emitted token's.
func (p *Parser) needsLineMarker(t token.Token) bool {
	if t.IsTrivia() || !p.state.AtLineStart {
		return false
	}
	if p.state.LastSourceFile == "" {
		return false // implicit origin at the very start of the main file
	}
	if t.SrcFile != p.state.LastSourceFile {
		return true
	}
	return t.Pos.Line-p.state.LastSourceLine > 1 || t.Pos.Line < p.state.LastSourceLine
}

// lineMarkerTokens builds the synthesized "<prefix> @line N \"uri\"\n" marker
// (§4.5 wire format) as a pair of system tokens: a line comment and a
// trailing newline.
func (p *Parser) lineMarkerTokens(line int, srcFile string) []token.Token {
	uri := srcFile
	if p.state.Host != nil {
		uri = p.state.Host.FileNameToURI(srcFile)
	}
	text := fmt.Sprintf("%s @line %d %q", p.state.Dialect.CommentPrefix(), line, uri)
	pos := token.Position{Line: line, Column: 1}
	marker := token.New(token.LineComment, text, pos, srcFile)
	marker.IsSystem = true
	nl := token.New(token.Newline, "\n", pos, srcFile)
	nl.IsSystem = true
	return []token.Token{marker, nl}
}

// resetProvenance re-arms the per-output-line latch, so the next emitted
// significant token gets a fresh @line marker if its file or line differs
// from the last recorded source position (needsLineMarker still decides).
// Used around #include boundaries (§4.5: "provenance tracking is reset"
// after inlining a child).
func (p *Parser) resetProvenance() {
	p.state.AtLineStart = true
}
