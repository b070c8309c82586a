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

package macro

import (
	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/token"
)

// ExpandAt expands the macro invocation starting at tokens[idx] (which must
// be an Identifier already confirmed via Lookup to name a defined macro).
// It returns the replacement tokens and how many input tokens (starting at
// idx) were consumed. warnMissingCall controls whether a function-like
// macro referenced without a following '(' is reported as
// invalid-macro-invocation (driver emission, §4.5) or silently left as an
// identifier (conditional-expression context, §4.3).
func (e *Engine) ExpandAt(tokens []token.Token, idx int, ctx ExpansionContext, diags *diag.Collector, warnMissingCall bool) (result []token.Token, consumed int) {
	if !e.enabled {
		return []token.Token{tokens[idx]}, 1
	}
	return e.expandAt(tokens, idx, ctx, map[string]bool{}, diags, warnMissingCall)
}

func (e *Engine) expandAt(tokens []token.Token, idx int, ctx ExpansionContext, expanding map[string]bool, diags *diag.Collector, warnMissingCall bool) ([]token.Token, int) {
	name := tokens[idx].Text
	def, ok := e.defs[name]
	if !ok {
		diags.Warnf(diag.CodeUndefinedMacro, ctx.SourceFile, tokens[idx].Pos.Line, tokens[idx].Pos.Column,
			"use of undefined macro %q", name)
		return []token.Token{tokens[idx]}, 1
	}

	if expanding[name] {
		diags.Warnf(diag.CodeRecursiveExpansion, ctx.SourceFile, tokens[idx].Pos.Line, tokens[idx].Pos.Column,
			"recursive expansion of macro %q suppressed", name)
		return []token.Token{tokens[idx].Clone(token.WithKind(token.Identifier))}, 1
	}

	if def.Dynamic != nil {
		value := def.Dynamic(ctx)
		return []token.Token{synthesizeDynamicToken(value, ctx)}, 1
	}

	if !def.IsFunctionLike {
		nextExpanding := withName(expanding, name)
		body := e.expandAllIn(cloneTokens(def.Body), ctx, nextExpanding, diags, warnMissingCall)
		return body, 1
	}

	// Function-like macro: look for '(' after optional trivia.
	parenIdx, ok := nextSignificant(tokens, idx+1)
	if !ok || tokens[parenIdx].Kind != token.ParenOpen {
		if warnMissingCall {
			diags.Warnf(diag.CodeInvalidMacroInvocation, ctx.SourceFile, tokens[idx].Pos.Line, tokens[idx].Pos.Column,
				"function-like macro %q used without an argument list", name)
		}
		return []token.Token{tokens[idx]}, 1
	}

	args, afterParen, ok := collectArguments(tokens, parenIdx)
	if !ok {
		diags.Errorf(diag.CodeArgumentCountMismatch, ctx.SourceFile, tokens[idx].Pos.Line, tokens[idx].Pos.Column,
			"unterminated argument list for macro %q", name)
		return []token.Token{tokens[idx]}, afterParen - idx
	}

	if len(args) != len(def.Parameters) {
		// A single empty argument list against a zero-parameter macro is
		// not a mismatch: FOO() with #define FOO() body.
		if !(len(def.Parameters) == 0 && len(args) == 1 && len(significantOnly(args[0])) == 0) {
			diags.Errorf(diag.CodeArgumentCountMismatch, ctx.SourceFile, tokens[idx].Pos.Line, tokens[idx].Pos.Column,
				"macro %q expects %d argument(s), got %d", name, len(def.Parameters), len(args))
			return []token.Token{tokens[idx]}, afterParen - idx
		}
		args = nil
	}

	nextExpanding := withName(expanding, name)
	substituted := e.substituteBody(def.Body, def.Parameters, args, ctx, nextExpanding, diags, warnMissingCall)
	expanded := e.expandAllIn(substituted, ctx, nextExpanding, diags, warnMissingCall)
	return expanded, afterParen - idx
}

func significantOnly(tokens []token.Token) []token.Token {
	var out []token.Token
	for _, t := range tokens {
		if !t.IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}

func withName(expanding map[string]bool, name string) map[string]bool {
	out := make(map[string]bool, len(expanding)+1)
	for k := range expanding {
		out[k] = true
	}
	out[name] = true
	return out
}

func synthesizeDynamicToken(value string, ctx ExpansionContext) token.Token {
	kind := token.Identifier
	switch {
	case len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"':
		kind = token.String
	case isAllDigits(value):
		kind = token.Number
	}
	return token.New(kind, value, ctx.pos(), ctx.SourceFile)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// expandAllIn scans tokens for macro-invocation identifiers and replaces
// each with its expansion, in place, left to right.
func (e *Engine) expandAllIn(tokens []token.Token, ctx ExpansionContext, expanding map[string]bool, diags *diag.Collector, warnMissingCall bool) []token.Token {
	if !e.enabled {
		return tokens
	}
	var out []token.Token
	for i := 0; i < len(tokens); {
		t := tokens[i]
		if t.Kind == token.Identifier && e.IsDefined(t.Text) {
			replacement, consumed := e.expandAt(tokens, i, ctx, expanding, diags, warnMissingCall)
			out = append(out, replacement...)
			i += consumed
			continue
		}
		out = append(out, t)
		i++
	}
	return out
}

// substituteBody implements §4.2's function-like substitution rules:
// '#param' stringification, 'lhs ## rhs' pasting, and otherwise a
// fully-expanded copy of the matching argument (non-parameter tokens are
// copied verbatim).
func (e *Engine) substituteBody(body []token.Token, params []string, args [][]token.Token, ctx ExpansionContext, expanding map[string]bool, diags *diag.Collector, warnMissingCall bool) []token.Token {
	argByName := make(map[string][]token.Token, len(params))
	for i, p := range params {
		if i < len(args) {
			argByName[p] = args[i]
		}
	}
	isParam := func(t token.Token) ([]token.Token, bool) {
		if t.Kind != token.Identifier {
			return nil, false
		}
		raw, ok := argByName[t.Text]
		return raw, ok
	}

	var out []token.Token
	n := len(body)
	for i := 0; i < n; {
		t := body[i]

		if t.Kind == token.Operator && t.Text == "#" {
			if j, ok := nextSignificant(body, i+1); ok {
				if raw, isP := isParam(body[j]); isP {
					out = append(out, token.New(token.String, stringifyArg(raw), t.Pos, ctx.SourceFile))
					i = j + 1
					continue
				}
			}
			out = append(out, t)
			i++
			continue
		}

		if t.Kind == token.Operator && t.Text == "##" {
			j, ok := nextSignificant(body, i+1)
			if !ok {
				out = append(out, t)
				i++
				continue
			}
			var rhsFirst token.Token
			var rhsRest []token.Token
			if raw, isP := isParam(body[j]); isP {
				if len(raw) > 0 {
					rhsFirst = raw[0]
					rhsRest = raw[1:]
				}
			} else {
				rhsFirst = body[j]
			}
			li := lastSignificant(out)
			if li >= 0 {
				pasted := out[li].Clone(token.WithText(out[li].Text + rhsFirst.Text))
				out = out[:li+1]
				out[li] = pasted
			} else if rhsFirst.Text != "" {
				out = append(out, rhsFirst)
			}
			out = append(out, rhsRest...)
			i = j + 1
			continue
		}

		if raw, isP := isParam(t); isP {
			expanded := e.expandAllIn(cloneTokens(raw), ctx, expanding, diags, warnMissingCall)
			out = append(out, expanded...)
			i++
			continue
		}

		out = append(out, t)
		i++
	}
	return out
}

// collectArguments reads a parenthesized, comma-separated argument list
// starting at tokens[openIdx] (a ParenOpen). Commas nested inside balanced
// parentheses are literal, not argument separators. Returns the arguments
// (including interior whitespace/comment trivia, needed for stringification)
// and the index immediately after the closing ')'.
func collectArguments(tokens []token.Token, openIdx int) (args [][]token.Token, afterClose int, ok bool) {
	depth := 0
	var current []token.Token
	i := openIdx
	for ; i < len(tokens); i++ {
		t := tokens[i]
		switch t.Kind {
		case token.ParenOpen:
			depth++
			if depth == 1 {
				continue
			}
		case token.ParenClose:
			depth--
			if depth == 0 {
				args = append(args, trimTrivia(current))
				return args, i + 1, true
			}
		case token.Operator, token.Punctuation:
			if t.Text == "," && depth == 1 {
				args = append(args, trimTrivia(current))
				current = nil
				continue
			}
		}
		current = append(current, t)
	}
	return nil, i, false
}

func trimTrivia(tokens []token.Token) []token.Token {
	start := 0
	for start < len(tokens) && tokens[start].IsTrivia() {
		start++
	}
	end := len(tokens)
	for end > start && tokens[end-1].IsTrivia() {
		end--
	}
	if start >= end {
		return nil
	}
	return tokens[start:end]
}
