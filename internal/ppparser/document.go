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

	"github.com/lsl-tools/lslpp/internal/dialect"
	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/include"
	"github.com/lsl-tools/lslpp/internal/lexer"
	"github.com/lsl-tools/lslpp/internal/token"
)

// Document is the per-invocation orchestrator (§4.7): it lexes the root
// source, runs the root Parser, closes out any conditional frames still
// open at EOF, and — for Luau only, exactly once, at the top level —
// synthesizes the __require_table declaration ahead of the emitted tokens.
type Document struct {
	SourceFile string
	SourceText string

	// Tokens is the fully assembled output stream, ready for
	// assembler.Emit/BuildLineMappings. It is only meaningful when Success
	// is true; otherwise callers should fall back to SourceText (§4.5
	// "Failure policy").
	Tokens []token.Token

	Success          bool
	Diagnostics      []diag.Diagnostic
	DetectedIncludes []DetectedInclude
	DetectedMacros   []DetectedMacro
}

// Run processes one top-level document: source text plus a source-file
// identifier, dialect, host, and include-resolution limits (§6 Input /
// config.get keys).
func Run(source, srcFile string, d dialect.Config, host include.Host, maxIncludeDepth int, includePaths []string) *Document {
	diags := diag.New()
	state := NewSharedState(d, host, diags, maxIncludeDepth, includePaths)

	rootTokens := lexer.Tokens(source, srcFile, d, diags)
	root := NewParser(state, srcFile, rootTokens)
	root.Run()

	for _, frame := range state.Conditionals.UnterminatedFrames() {
		diags.Errorf(diag.CodeUnterminatedConditional, srcFile, frame.StartLine, 1,
			"unterminated #%s", frame.DirectiveKind)
	}

	out := root.Output()
	if d.Tag == dialect.Luau {
		out = synthesizeRequireTable(state, srcFile, out)
	}

	return &Document{
		SourceFile:       srcFile,
		SourceText:       source,
		Tokens:           out,
		Success:          !diags.HasErrors(),
		Diagnostics:      diags.All(),
		DetectedIncludes: state.DetectedIncludes,
		DetectedMacros:   state.DetectedMacros,
	}
}

// synthesizeRequireTable prepends the module-table declaration and
// per-module assignments, and appends the `= nil` trailer, around body
// (§4.5 "Require handling", final paragraph). It is only called once, by
// the top-level Document, never by a nested #include/require parse.
func synthesizeRequireTable(state *SharedState, srcFile string, body []token.Token) []token.Token {
	ids := state.Includes.OrderedModuleIDs()
	if len(ids) == 0 {
		return body
	}

	pos := token.Position{Line: 1, Column: 1}
	sys := func(kind token.Kind, text string) token.Token {
		t := token.New(kind, text, pos, srcFile)
		t.IsSystem = true
		return t
	}
	nl := func() token.Token { return sys(token.Newline, "\n") }

	var out []token.Token
	decl := fmt.Sprintf("local %s : { [number] -> any } = {}", requireTableName)
	out = append(out, sys(token.Identifier, decl), nl())

	for _, id := range ids {
		assign := fmt.Sprintf("%s[%d] = ", requireTableName, id)
		out = append(out, sys(token.Identifier, assign))
		out = append(out, state.Includes.WrappedModule(id)...)
		out = append(out, nl())
	}

	uri := srcFile
	if state.Host != nil {
		uri = state.Host.FileNameToURI(srcFile)
	}
	out = append(out, sys(token.LineComment, fmt.Sprintf("%s @line 1 %q", state.Dialect.CommentPrefix(), uri)), nl())
	out = append(out, body...)

	out = append(out, nl(), sys(token.Identifier, fmt.Sprintf("%s = nil :: any", requireTableName)), nl())
	return out
}
