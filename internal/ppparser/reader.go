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

// Package ppparser is the parser driver (§4.5): it walks a lexed token
// stream, dispatches directives against the shared macro/conditional/include
// state, performs macro expansion at emission time, and tracks provenance
// for the output assembler.
package ppparser

import "github.com/lsl-tools/lslpp/internal/token"

// tokenStream is a thin peek/next wrapper over a flat token slice, in the
// spirit of a bufio.Scanner-backed reader but operating directly on already
// lexed tokens rather than raw bytes.
type tokenStream struct {
	tokens []token.Token
	pos    int
}

func newTokenStream(tokens []token.Token) *tokenStream {
	return &tokenStream{tokens: tokens}
}

// atEnd reports whether every token (including EOF) has been consumed.
func (ts *tokenStream) atEnd() bool { return ts.pos >= len(ts.tokens) }

// peek returns the token at the current position without consuming it.
func (ts *tokenStream) peek() (token.Token, bool) {
	if ts.atEnd() {
		return token.Token{}, false
	}
	return ts.tokens[ts.pos], true
}

// next consumes and returns the token at the current position.
func (ts *tokenStream) next() (token.Token, bool) {
	t, ok := ts.peek()
	if ok {
		ts.pos++
	}
	return t, ok
}

// peekSignificantFrom returns the index of the next non-trivia token at or
// after from, skipping whitespace/comments, or ok=false if none remains.
func (ts *tokenStream) peekSignificantFrom(from int) (int, bool) {
	for i := from; i < len(ts.tokens); i++ {
		if !ts.tokens[i].IsTrivia() {
			return i, true
		}
	}
	return -1, false
}

// restOfLine consumes and returns every token up to and including the next
// newline (or EOF), used to discard a directive's trailing source line
// after the driver has consumed its meaningful arguments.
func (ts *tokenStream) restOfLine() []token.Token {
	var out []token.Token
	for !ts.atEnd() {
		t, _ := ts.next()
		out = append(out, t)
		if t.Kind == token.Newline || t.Kind == token.EOF {
			break
		}
	}
	return out
}

// collectLineSignificant returns the significant (non-trivia) tokens up to
// but not including the next newline/EOF, without consuming the newline
// itself — used to read a directive's argument tokens.
func (ts *tokenStream) collectLineSignificant() []token.Token {
	var out []token.Token
	for {
		t, ok := ts.peek()
		if !ok || t.Kind == token.Newline || t.Kind == token.EOF {
			break
		}
		ts.next()
		if !t.IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}
