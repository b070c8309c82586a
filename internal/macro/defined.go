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

// ApplyDefined runs the `defined(X)` / `defined X` pre-pass (§4.2): every
// well-formed occurrence is replaced with the number literal "1" or "0"
// according to whether X is currently defined. Malformed forms are left in
// place and reported as invalid-defined-syntax.
func (e *Engine) ApplyDefined(tokens []token.Token, diags *diag.Collector, srcFile string) []token.Token {
	var out []token.Token
	for i := 0; i < len(tokens); {
		t := tokens[i]
		if t.Kind != token.Identifier || t.Text != "defined" {
			out = append(out, t)
			i++
			continue
		}

		j, ok := nextSignificant(tokens, i+1)
		if !ok {
			diags.Errorf(diag.CodeInvalidDefinedSyntax, srcFile, t.Pos.Line, t.Pos.Column, "defined operator missing operand")
			out = append(out, t)
			i++
			continue
		}

		if tokens[j].Kind == token.ParenOpen {
			nameIdx, ok := nextSignificant(tokens, j+1)
			if !ok || tokens[nameIdx].Kind != token.Identifier {
				diags.Errorf(diag.CodeInvalidDefinedSyntax, srcFile, t.Pos.Line, t.Pos.Column, "defined(...) missing identifier")
				out = append(out, t)
				i++
				continue
			}
			closeIdx, ok := nextSignificant(tokens, nameIdx+1)
			if !ok || tokens[closeIdx].Kind != token.ParenClose {
				diags.Errorf(diag.CodeInvalidDefinedSyntax, srcFile, t.Pos.Line, t.Pos.Column, "defined(...) missing closing ')'")
				out = append(out, t)
				i++
				continue
			}
			out = append(out, boolToken(e.IsDefined(tokens[nameIdx].Text), t))
			i = closeIdx + 1
			continue
		}

		if tokens[j].Kind == token.Identifier {
			out = append(out, boolToken(e.IsDefined(tokens[j].Text), t))
			i = j + 1
			continue
		}

		diags.Errorf(diag.CodeInvalidDefinedSyntax, srcFile, t.Pos.Line, t.Pos.Column, "defined operator missing identifier operand")
		out = append(out, t)
		i++
	}
	return out
}

func boolToken(v bool, at token.Token) token.Token {
	text := "0"
	if v {
		text = "1"
	}
	return token.New(token.Number, text, at.Pos, at.SrcFile)
}

// ExpandForCondition implements the macro-expansion step of §4.3's
// expression evaluation: simple macros expand to their body (an
// empty-bodied macro expands to "1" — the documented truthiness quirk),
// function-like macros used without arguments are left as identifiers, and
// unknown identifiers remain as identifiers.
func (e *Engine) ExpandForCondition(tokens []token.Token, ctx ExpansionContext, diags *diag.Collector) []token.Token {
	if !e.enabled {
		return tokens
	}
	return e.expandForCondition(tokens, ctx, map[string]bool{}, diags)
}

func (e *Engine) expandForCondition(tokens []token.Token, ctx ExpansionContext, expanding map[string]bool, diags *diag.Collector) []token.Token {
	var out []token.Token
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		if t.Kind != token.Identifier {
			out = append(out, t)
			continue
		}
		def, ok := e.defs[t.Text]
		if !ok {
			out = append(out, t)
			continue
		}
		if def.IsFunctionLike {
			out = append(out, t)
			continue
		}
		if expanding[t.Text] {
			diags.Warnf(diag.CodeRecursiveExpansion, ctx.SourceFile, t.Pos.Line, t.Pos.Column,
				"recursive expansion of macro %q suppressed", t.Text)
			out = append(out, t.Clone())
			continue
		}
		if def.Dynamic != nil {
			out = append(out, synthesizeDynamicToken(def.Dynamic(ctx), ctx))
			continue
		}
		body := significantOnly(def.Body)
		if len(body) == 0 {
			out = append(out, token.New(token.Number, "1", t.Pos, t.SrcFile))
			continue
		}
		nextExpanding := withName(expanding, t.Text)
		out = append(out, e.expandForCondition(cloneTokens(body), ctx, nextExpanding, diags)...)
	}
	return out
}
