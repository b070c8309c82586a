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
	"strings"

	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/include"
	"github.com/lsl-tools/lslpp/internal/lexer"
	"github.com/lsl-tools/lslpp/internal/token"
)

// handleInclude implements #include (§4.4, §4.5 "Include handling"). On
// resolution failure the directive is a no-op: no tokens are inlined, but
// the parent parser keeps running so later errors can still be surfaced in
// the same pass (§7).
func (p *Parser) handleInclude(dirTok token.Token) {
	nameTok, ok := p.nextStringArgToken()
	if !ok {
		p.state.Diags.Errorf(diag.CodeMissingDirectiveArgument, p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column,
			"#include requires a quoted filename")
		return
	}
	filename := unquoteString(nameTok.Text)
	p.state.DetectedIncludes = append(p.state.DetectedIncludes, DetectedInclude{
		File: filename, Line: dirTok.Pos.Line, Column: dirTok.Pos.Column, IsRequire: false,
	})

	res, ok := include.Process(p.state.Host, p.state.Includes, filename, p.srcFile, false,
		p.state.Dialect, p.state.Diags, dirTok.Pos.Line, dirTok.Pos.Column)
	if !ok || res.AlreadySeen {
		return
	}

	p.inlineNestedFile(res.ResolvedPath, res.Source)
}

// handleRequire implements Luau's require("path") (§4.5 "Require handling").
// Unlike every other directive it is a bare expression embedded mid-line, so
// it never consumes the rest of the source line; the caller
// (dispatchDirective) already knows this and skips the trailing
// stream.restOfLine() call for it.
func (p *Parser) handleRequire(dirTok token.Token) {
	openIdx, ok := p.stream.peekSignificantFrom(p.stream.pos)
	if !ok || p.stream.tokens[openIdx].Kind != token.ParenOpen {
		p.state.Diags.Errorf(diag.CodeMissingDirectiveArgument, p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column,
			"require(...) requires a parenthesized string argument")
		return
	}
	p.stream.pos = openIdx + 1

	nameIdx, ok := p.stream.peekSignificantFrom(p.stream.pos)
	if !ok || p.stream.tokens[nameIdx].Kind != token.String {
		p.state.Diags.Errorf(diag.CodeMissingDirectiveArgument, p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column,
			"require(...) requires a quoted filename")
		return
	}
	nameTok := p.stream.tokens[nameIdx]
	p.stream.pos = nameIdx + 1

	closeIdx, ok := p.stream.peekSignificantFrom(p.stream.pos)
	if !ok || p.stream.tokens[closeIdx].Kind != token.ParenClose {
		p.state.Diags.Errorf(diag.CodeMissingDirectiveArgument, p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column,
			"require(...) missing closing ')'")
		return
	}
	p.stream.pos = closeIdx + 1

	filename := unquoteString(nameTok.Text)
	p.state.DetectedIncludes = append(p.state.DetectedIncludes, DetectedInclude{
		File: filename, Line: dirTok.Pos.Line, Column: dirTok.Pos.Column, IsRequire: true,
	})

	res, ok := include.Process(p.state.Host, p.state.Includes, filename, p.srcFile, true,
		p.state.Dialect, p.state.Diags, dirTok.Pos.Line, dirTok.Pos.Column)
	if !ok {
		return
	}

	id, firstSeen := p.state.Includes.ModuleID(res.ResolvedPath)
	if firstSeen {
		childTokens := lexer.Tokens(res.Source, res.ResolvedPath, p.state.Dialect, p.state.Diags)
		p.state.Includes.PushInclude(res.ResolvedPath)
		p.state.LastSourceFile = res.ResolvedPath
		p.state.LastSourceLine = 0
		p.state.AtLineStart = true
		child := NewParser(p.state, res.ResolvedPath, childTokens)
		child.Run()
		p.state.Includes.PopInclude()
		p.state.Includes.StoreWrapped(id, include.WrapAsModule(child.Output(), res.ResolvedPath))
	}

	// The synthesized call replaces require(...) mid-statement; restore the
	// call site's provenance so no marker lands inside the statement.
	p.state.LastSourceFile = dirTok.SrcFile
	p.state.LastSourceLine = dirTok.Pos.Line
	p.state.AtLineStart = false
	for _, t := range requireCallTokens(id, dirTok) {
		p.emit(t)
	}
}

// inlineNestedFile lexes and parses a resolved #include target, then
// splices its emitted tokens into the parent's output, framed by an @line
// marker pointing at line 1 of the included file (§4.5 "Include handling").
// Provenance tracking is reset afterward so the next parent token re-emits
// a marker back to the parent file.
func (p *Parser) inlineNestedFile(resolvedPath, source string) {
	childTokens := lexer.Tokens(source, resolvedPath, p.state.Dialect, p.state.Diags)
	p.state.Includes.PushInclude(resolvedPath)
	// The framing marker below covers the child's first line; prime the
	// provenance state so the child does not emit a duplicate of it.
	p.state.LastSourceFile = resolvedPath
	p.state.LastSourceLine = 0
	p.state.AtLineStart = true
	child := NewParser(p.state, resolvedPath, childTokens)
	child.Run()
	p.state.Includes.PopInclude()

	p.output = append(p.output, p.lineMarkerTokens(1, resolvedPath)...)
	p.output = append(p.output, child.Output()...)

	if last := lastNonEOF(childTokens); last != nil {
		p.state.LastSourceFile = resolvedPath
		p.state.LastSourceLine = last.Pos.Line
	}
	p.resetProvenance()
}

func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].Kind != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}

// nextStringArgToken returns the next significant token from the current
// position if it is a string literal, advancing past it.
func (p *Parser) nextStringArgToken() (token.Token, bool) {
	idx, ok := p.stream.peekSignificantFrom(p.stream.pos)
	if !ok || p.stream.tokens[idx].Kind != token.String {
		return token.Token{}, false
	}
	t := p.stream.tokens[idx]
	p.stream.pos = idx + 1
	return t, true
}

// unquoteString strips a string literal token's delimiters and resolves
// backslash escapes, mirroring the lexer's own escaping rule (§4.1 "Strings").
func unquoteString(text string) string {
	if len(text) < 2 {
		return text
	}
	inner := text[1 : len(text)-1]
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
			b.WriteByte(inner[i])
			continue
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}

// requireCallTokens synthesizes "__require_table[<id>]()" at a require(...)
// call site (§4.5 step 3).
func requireCallTokens(id int, at token.Token) []token.Token {
	pos := at.Pos
	sys := func(kind token.Kind, text string) token.Token {
		t := token.New(kind, text, pos, at.SrcFile)
		t.IsSystem = true
		return t
	}
	return []token.Token{
		sys(token.Identifier, requireTableName),
		sys(token.BracketOpen, "["),
		sys(token.Number, fmt.Sprintf("%d", id)),
		sys(token.BracketClose, "]"),
		sys(token.ParenOpen, "("),
		sys(token.ParenClose, ")"),
	}
}

const requireTableName = "__require_table"
