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
	"strings"

	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/macro"
	"github.com/lsl-tools/lslpp/internal/token"
)

// Parser walks one file's token stream against a shared parser state,
// dispatching directives and emitting (or skipping) ordinary tokens
// depending on the conditional-active predicate. A Parser is created fresh
// for the root document and for every nested #include/require (§4.5).
type Parser struct {
	state   *SharedState
	srcFile string
	stream  *tokenStream
	output  []token.Token
	halted  bool
}

// NewParser returns a Parser over tokens, sharing state with any sibling or
// parent parsers.
func NewParser(state *SharedState, srcFile string, tokens []token.Token) *Parser {
	return &Parser{state: state, srcFile: srcFile, stream: newTokenStream(tokens)}
}

// Output returns the tokens emitted so far.
func (p *Parser) Output() []token.Token { return p.output }

// Halted reports whether an error caused this parser to stop consuming
// tokens before reaching EOF.
func (p *Parser) Halted() bool { return p.halted }

// Run walks the token stream to EOF (or until halted by an unknown
// directive or by an error-severity diagnostic raised while expanding a
// macro; other errors are recorded and the walk continues) and returns
// whether it completed without halting.
func (p *Parser) Run() bool {
	for {
		t, ok := p.stream.peek()
		if !ok || t.Kind == token.EOF {
			if ok {
				p.stream.next()
			}
			break
		}

		if t.Kind == token.Directive {
			p.stream.next()
			p.dispatchDirective(t)
			if p.halted {
				break
			}
			continue
		}

		if !p.state.Conditionals.IsActive() {
			p.stream.next()
			continue
		}

		if t.Kind == token.Identifier && p.state.Macros.Enabled() && p.state.Macros.IsDefined(t.Text) {
			ctx := macro.ExpansionContext{Line: t.Pos.Line, Column: t.Pos.Column, SourceFile: p.srcFile}
			mark := len(p.state.Diags.All())
			result, consumed := p.state.Macros.ExpandAt(p.stream.tokens, p.stream.pos, ctx, p.state.Diags, true)
			p.stream.pos += consumed
			for _, rt := range result {
				p.emit(rt)
			}
			if p.errorOccurredSince(mark) {
				p.halted = true
				break
			}
			continue
		}

		p.stream.next()
		p.emit(t)
	}
	return !p.halted
}

// errorOccurredSince reports whether an Error-severity diagnostic was added
// to the shared collector after position markLen.
func (p *Parser) errorOccurredSince(markLen int) bool {
	all := p.state.Diags.All()
	for _, d := range all[markLen:] {
		if d.Severity == diag.Error {
			return true
		}
	}
	return false
}

// directiveName trims surrounding whitespace from a Directive token's text.
// It leaves the directive prefix in place; dispatchDirective strips the
// prefix and any whitespace gap after it (e.g. "#   define").
func directiveName(t token.Token) string {
	return strings.TrimSpace(t.Text)
}

func (p *Parser) dispatchDirective(tok token.Token) {
	name := strings.TrimSpace(strings.TrimPrefix(directiveName(tok), p.state.Dialect.DirectivePrefix))
	// Conditional directives always run so the block stack stays balanced;
	// everything else is inert inside an inactive branch (its argument
	// tokens are discarded with the rest of the directive line).
	active := p.state.Conditionals.IsActive()
	switch name {
	case "define":
		if active {
			p.handleDefine(tok)
		}
	case "undef":
		if active {
			p.handleUndef(tok)
		}
	case "include":
		if active {
			p.handleInclude(tok)
		}
	case "require":
		if active {
			p.handleRequire(tok)
		}
		return // inline/parenthesized: never consumes the rest of the line
	case "if", "ifdef", "ifndef":
		p.handleIfFamily(tok, name)
	case "elif":
		p.handleElif(tok)
	case "else":
		p.handleElse(tok)
	case "endif":
		p.handleEndif(tok)
	default:
		if active {
			p.state.Diags.Errorf(diag.CodeMalformedDirective, p.srcFile, tok.Pos.Line, tok.Pos.Column,
				"unknown directive %q", name)
			p.halted = true
		}
	}
	p.stream.restOfLine()
}
