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
	"github.com/lsl-tools/lslpp/internal/dialect"
	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/token"
)

// Result is the outcome of a successful Process call: the resolved path and
// the file's source text, not yet lexed. The caller (the parser driver)
// lexes Source and is responsible for pushing/popping the include stack
// around the nested parse of its tokens (§4.4 step 7).
type Result struct {
	ResolvedPath string
	Source       string
	AlreadySeen  bool // #include only: include-guard hit, emit nothing
}

// Process implements process_include (§4.4): depth check, host resolution,
// circular-include detection, include-guard dedup, and file read. It does
// not lex or push/pop the include stack — the caller does that around the
// nested parse, so depth/stack bookkeeping stays paired on every exit path
// even when Process itself fails partway through.
func Process(
	host Host,
	state *State,
	filename, sourceFile string,
	isRequire bool,
	d dialect.Config,
	diags *diag.Collector,
	line, col int,
) (Result, bool) {
	if state.Depth >= state.MaxDepth {
		diags.Errorf(diag.CodeIncludeDepthExceeded, sourceFile, line, col,
			"include depth exceeded maximum of %d while resolving %q", state.MaxDepth, filename)
		return Result{}, false
	}

	var from string
	searchPaths := state.IncludePaths
	if isRequire {
		from = sourceFile
		searchPaths = nil
	}

	resolved, ok := host.ResolveFile(filename, from, d.IncludeExtensions, searchPaths)
	if !ok {
		diags.Errorf(diag.CodeFileNotFound, sourceFile, line, col, "could not resolve %q", filename)
		return Result{}, false
	}

	if state.InStack(resolved) {
		diags.Errorf(diag.CodeCircularInclude, sourceFile, line, col, "circular include of %q", resolved)
		return Result{}, false
	}

	if !isRequire && state.IncludedFiles.Contains(resolved) {
		return Result{ResolvedPath: resolved, AlreadySeen: true}, true
	}

	text, ok := host.ReadFile(resolved)
	if !ok {
		diags.Errorf(diag.CodeFileReadError, sourceFile, line, col, "could not read %q", resolved)
		return Result{}, false
	}

	if !isRequire {
		state.IncludedFiles.Add(resolved)
	}

	return Result{ResolvedPath: resolved, Source: text}, true
}

// WrapAsModule wraps a required file's tokens in a zero-argument Luau
// function literal: "(function() <tokens> end)" (§4.5 step 2). The spaces
// around the body keep the wrapped text lexable: without them a trailing
// "return x" would fuse into "return xend".
func WrapAsModule(tokens []token.Token, srcFile string) []token.Token {
	pos := token.Position{Line: 1, Column: 1}
	open := []token.Token{
		systemToken(token.ParenOpen, "(", pos, srcFile),
		systemToken(token.Identifier, "function", pos, srcFile),
		systemToken(token.ParenOpen, "(", pos, srcFile),
		systemToken(token.ParenClose, ")", pos, srcFile),
		systemToken(token.Whitespace, " ", pos, srcFile),
	}
	closeToks := []token.Token{
		systemToken(token.Whitespace, " ", pos, srcFile),
		systemToken(token.Identifier, "end", pos, srcFile),
		systemToken(token.ParenClose, ")", pos, srcFile),
	}
	out := make([]token.Token, 0, len(open)+len(tokens)+len(closeToks))
	out = append(out, open...)
	out = append(out, tokens...)
	out = append(out, closeToks...)
	return out
}

func systemToken(kind token.Kind, text string, pos token.Position, srcFile string) token.Token {
	t := token.New(kind, text, pos, srcFile)
	t.IsSystem = true
	return t
}
