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

// Package macro implements object-like and function-like macro definition
// and expansion: parameter substitution, '#' stringification, '##' token
// pasting, recursive expansion with cycle detection, and dialect-agnostic
// predefined/dynamic macros (§4.2).
package macro

import (
	"fmt"
	"strings"

	"github.com/lsl-tools/lslpp/internal/collections"
	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/token"
)

// ExpansionContext is the {line, column, source_file} tuple threaded into
// dynamic macro generators and used to position synthesized tokens.
type ExpansionContext struct {
	Line, Column int
	SourceFile   string
}

func (ctx ExpansionContext) pos() token.Position { return token.Position{Line: ctx.Line, Column: ctx.Column} }

// Definition is a stored macro. Dynamic is non-nil only for built-in macros
// such as __LINE__/__FILE__; Body is unused in that case.
type Definition struct {
	Name           string
	Parameters     []string
	IsFunctionLike bool
	Body           []token.Token
	Dynamic        func(ExpansionContext) string
	IsSystem       bool
}

// Engine stores macro definitions and performs expansion. An Engine is not
// safe for concurrent use; the preprocessor is single-threaded per §5.
type Engine struct {
	defs    map[string]Definition
	enabled bool
}

// NewEngine returns an Engine preloaded with the dialect-agnostic dynamic
// macros __LINE__ and __FILE__.
func NewEngine() *Engine {
	e := &Engine{defs: make(map[string]Definition), enabled: true}
	e.defs["__LINE__"] = Definition{
		Name: "__LINE__", IsSystem: true,
		Dynamic: func(ctx ExpansionContext) string { return fmt.Sprintf("%d", ctx.Line) },
	}
	e.defs["__FILE__"] = Definition{
		Name: "__FILE__", IsSystem: true,
		Dynamic: func(ctx ExpansionContext) string { return fmt.Sprintf("%q", ctx.SourceFile) },
	}
	return e
}

// SetEnabled toggles the engine-wide enabled flag; when disabled, Define and
// Expand* are no-ops (Expand* returns the identifier unexpanded).
func (e *Engine) SetEnabled(enabled bool) { e.enabled = enabled }

// Enabled reports the engine-wide enabled flag.
func (e *Engine) Enabled() bool { return e.enabled }

// IsDefined reports whether name has a current definition.
func (e *Engine) IsDefined(name string) bool {
	_, ok := e.defs[name]
	return ok
}

// Lookup returns the current definition for name, if any.
func (e *Engine) Lookup(name string) (Definition, bool) {
	d, ok := e.defs[name]
	return d, ok
}

// Undefine removes name's definition, if any (#undef). Undefining an
// unknown name is not an error.
func (e *Engine) Undefine(name string) { delete(e.defs, name) }

// ClearNonSystem removes all user-defined macros, keeping the dynamic /
// system ones predefined at construction.
func (e *Engine) ClearNonSystem() {
	for name, d := range e.defs {
		if !d.IsSystem {
			delete(e.defs, name)
		}
	}
}

// Define installs a macro definition, silently replacing any prior
// definition of the same name. Parameters must be unique identifiers;
// violating that is reported via diags and the definition is rejected.
func (e *Engine) Define(def Definition, diags *diag.Collector, srcFile string, line, col int) {
	if !e.enabled {
		return
	}
	if def.IsFunctionLike {
		if dups := collections.FindDuplicates(def.Parameters); len(dups) > 0 {
			diags.Errorf(diag.CodeInvalidMacroDefinition, srcFile, line, col,
				"duplicate parameter %q in definition of %s", dups[0], def.Name)
			return
		}
	}
	e.defs[def.Name] = def
}

// stringifyArg implements the '#' stringification operator: the
// concatenated text of the argument's tokens, with \ and " escaped, wrapped
// in double quotes.
func stringifyArg(argTokens []token.Token) string {
	var raw strings.Builder
	for _, t := range argTokens {
		raw.WriteString(t.Text)
	}
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(strings.TrimSpace(raw.String()))
	return `"` + escaped + `"`
}

// cloneTokens returns a fresh copy of tokens' backing slice so substitution
// never mutates a macro's stored body or a caller's argument tokens.
func cloneTokens(tokens []token.Token) []token.Token {
	out := make([]token.Token, len(tokens))
	copy(out, tokens)
	return out
}

func lastSignificant(tokens []token.Token) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		if !tokens[i].IsTrivia() {
			return i
		}
	}
	return -1
}

func nextSignificant(tokens []token.Token, from int) (int, bool) {
	for i := from; i < len(tokens); i++ {
		if !tokens[i].IsTrivia() {
			return i, true
		}
	}
	return -1, false
}
