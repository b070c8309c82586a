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
	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/macro"
	"github.com/lsl-tools/lslpp/internal/token"
)

// handleDefine implements #define for both object-like and function-like
// macros (§4.2). The directive name token has already been consumed; the
// macro name and, for function-like macros, an adjacent '(' parameter list
// follow on the same logical line.
func (p *Parser) handleDefine(dirTok token.Token) {
	nameIdx, ok := p.stream.peekSignificantFrom(p.stream.pos)
	if !ok || p.stream.tokens[nameIdx].Kind != token.Identifier {
		p.state.Diags.Errorf(diag.CodeMissingDirectiveArgument, p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column,
			"#define requires a macro name")
		return
	}
	nameTok := p.stream.tokens[nameIdx]
	p.stream.pos = nameIdx + 1

	var params []string
	isFunctionLike := false
	if next, ok := p.stream.peek(); ok && next.Kind == token.ParenOpen && isAdjacent(nameTok, next) {
		p.stream.next()
		isFunctionLike = true
		params, ok = p.parseParamList(dirTok)
		if !ok {
			return
		}
	}

	body := p.collectDefineBody()

	def := macro.Definition{
		Name:           nameTok.Text,
		Parameters:     params,
		IsFunctionLike: isFunctionLike,
		Body:           body,
	}
	p.state.Macros.Define(def, p.state.Diags, p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column)
	p.state.DetectedMacros = append(p.state.DetectedMacros, DetectedMacro{
		Name: nameTok.Text, Line: nameTok.Pos.Line, Column: nameTok.Pos.Column,
		IsFunctionLike: isFunctionLike, Parameters: params,
	})
}

// isAdjacent reports whether b immediately follows a with no intervening
// whitespace, the standard C-preprocessor rule distinguishing a
// function-like macro's parameter list ("NAME(") from an object-like
// macro whose body happens to start with a parenthesized expression
// ("NAME (expr)"). The grammar in §4.2 does not spell this rule out
// explicitly; it is implied by "function-like macros: NAME(params) BODY"
// giving no room for a space before '('.
func isAdjacent(a, b token.Token) bool {
	return a.Pos.Line == b.Pos.Line && b.Pos.Column == a.Pos.Column+len(a.Text)
}

// parseParamList reads a comma-separated identifier list up to the closing
// ')' that opened it (already consumed by the caller).
func (p *Parser) parseParamList(dirTok token.Token) ([]string, bool) {
	var params []string
	for {
		idx, ok := p.stream.peekSignificantFrom(p.stream.pos)
		if !ok {
			p.state.Diags.Errorf(diag.CodeInvalidMacroDefinition, p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column,
				"unterminated parameter list in #define")
			return nil, false
		}
		t := p.stream.tokens[idx]
		p.stream.pos = idx + 1
		switch {
		case t.Kind == token.ParenClose:
			return params, true
		case t.Kind == token.Identifier:
			params = append(params, t.Text)
			nidx, ok := p.stream.peekSignificantFrom(p.stream.pos)
			if !ok {
				p.state.Diags.Errorf(diag.CodeInvalidMacroDefinition, p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column,
					"unterminated parameter list in #define")
				return nil, false
			}
			n := p.stream.tokens[nidx]
			if n.Kind == token.ParenClose {
				p.stream.pos = nidx + 1
				return params, true
			}
			if n.Text == "," {
				p.stream.pos = nidx + 1
				continue
			}
			p.state.Diags.Errorf(diag.CodeInvalidMacroDefinition, p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column,
				"expected ',' or ')' in parameter list, found %q", n.Text)
			return nil, false
		default:
			p.state.Diags.Errorf(diag.CodeInvalidMacroDefinition, p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column,
				"expected parameter name, found %q", t.Text)
			return nil, false
		}
	}
}

// collectDefineBody reads a macro body up to (but not including) the
// terminating newline, merging any backslash-newline continuation lines
// into a single logical line first.
func (p *Parser) collectDefineBody() []token.Token {
	var body []token.Token
	for {
		t, ok := p.stream.peek()
		if !ok || t.Kind == token.EOF {
			break
		}
		if t.Kind == token.Newline {
			if len(body) > 0 && body[len(body)-1].Text == "\\" {
				body = body[:len(body)-1]
				p.stream.next()
				for {
					ws, ok := p.stream.peek()
					if !ok || ws.Kind != token.Whitespace {
						break
					}
					p.stream.next()
				}
				continue
			}
			break
		}
		p.stream.next()
		if !t.IsTrivia() || t.Kind == token.Whitespace || t.Kind == token.BlockCommentContent {
			body = append(body, t)
		}
	}
	return trimTrivia(body)
}

// trimTrivia strips leading/trailing whitespace tokens, leaving internal
// whitespace (significant for stringification/reconstruction) untouched.
func trimTrivia(tokens []token.Token) []token.Token {
	start := 0
	for start < len(tokens) && tokens[start].IsTrivia() {
		start++
	}
	end := len(tokens)
	for end > start && tokens[end-1].IsTrivia() {
		end--
	}
	return tokens[start:end]
}

// handleUndef implements #undef.
func (p *Parser) handleUndef(dirTok token.Token) {
	idx, ok := p.stream.peekSignificantFrom(p.stream.pos)
	if !ok || p.stream.tokens[idx].Kind != token.Identifier {
		p.state.Diags.Errorf(diag.CodeMissingDirectiveArgument, p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column,
			"#undef requires a macro name")
		return
	}
	p.stream.pos = idx + 1
	p.state.Macros.Undefine(p.stream.tokens[idx].Text)
}

// handleIfFamily implements #if, #ifdef, and #ifndef.
func (p *Parser) handleIfFamily(dirTok token.Token, kind string) {
	var cond bool
	switch kind {
	case "ifdef", "ifndef":
		idx, ok := p.stream.peekSignificantFrom(p.stream.pos)
		if !ok || p.stream.tokens[idx].Kind != token.Identifier {
			p.state.Diags.Errorf(diag.CodeMissingDirectiveArgument, p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column,
				"#%s requires a macro name", kind)
			p.state.Conditionals.Push(kind, false, dirTok.Pos.Line)
			return
		}
		p.stream.pos = idx + 1
		defined := p.state.Macros.IsDefined(p.stream.tokens[idx].Text)
		cond = defined
		if kind == "ifndef" {
			cond = !defined
		}
	default: // "if"
		// Inside an inactive branch the condition is unobservable; skip
		// evaluation so its expression contributes no diagnostics.
		if p.state.Conditionals.IsActive() {
			cond = p.evalConditionExpr(dirTok)
		}
	}
	p.state.Conditionals.Push(kind, cond, dirTok.Pos.Line)
}

// evalConditionExpr reads the rest of the directive's line and evaluates it
// in §4.3's order: the defined(...) pre-pass, then macro
// expansion, then integer expression evaluation.
func (p *Parser) evalConditionExpr(dirTok token.Token) bool {
	raw := p.stream.collectLineSignificant()
	withDefined := p.state.Macros.ApplyDefined(raw, p.state.Diags, p.srcFile)
	ctx := macro.ExpansionContext{Line: dirTok.Pos.Line, Column: dirTok.Pos.Column, SourceFile: p.srcFile}
	expanded := p.state.Macros.ExpandForCondition(withDefined, ctx, p.state.Diags)
	return p.state.CondEval.Evaluate(expanded, p.srcFile, p.state.Diags)
}

func (p *Parser) handleElif(dirTok token.Token) {
	cond := false
	if p.state.Conditionals.NeedsElifCondition() {
		cond = p.evalConditionExpr(dirTok)
	}
	p.state.Conditionals.Elif(cond, p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column, p.state.Diags)
}

func (p *Parser) handleElse(dirTok token.Token) {
	p.state.Conditionals.Else(p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column, p.state.Diags)
}

func (p *Parser) handleEndif(dirTok token.Token) {
	p.state.Conditionals.Endif(p.srcFile, dirTok.Pos.Line, dirTok.Pos.Column, p.state.Diags)
}
