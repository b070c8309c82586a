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

// Package lexer implements the dialect-aware scanner described in §4.1: a
// single-pass, greedy-match tokenizer that turns LSL or Luau source text
// into a flat, lossless token stream terminated by an EOF token.
package lexer

import (
	"strings"

	"github.com/lsl-tools/lslpp/internal/dialect"
	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/token"
)

// Lexer scans a single source file. It holds no cross-file state; the
// parser driver creates one Lexer per file (top-level or included/required).
type Lexer struct {
	data    string
	pos     int
	cur     cursor
	dialect dialect.Config
	srcFile string
	diags   *diag.Collector

	// atLineStart is true when only newlines/whitespace have been consumed
	// since the last line break. A '#' directive prefix only opens a
	// directive at the start of a line; elsewhere '#' and '##' are the
	// stringify/paste operators.
	atLineStart bool
}

// New constructs a Lexer over source, reporting lex-phase diagnostics
// against srcFile into diags.
func New(source, srcFile string, d dialect.Config, diags *diag.Collector) *Lexer {
	return &Lexer{data: source, cur: cursorInit(), dialect: d, srcFile: srcFile, diags: diags, atLineStart: true}
}

// Tokens scans the entire input and returns every token, EOF included.
func Tokens(source, srcFile string, d dialect.Config, diags *diag.Collector) []token.Token {
	lx := New(source, srcFile, d, diags)
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) eof() bool { return lx.pos >= len(lx.data) }

func (lx *Lexer) rest() string { return lx.data[lx.pos:] }

func (lx *Lexer) at(i int) byte {
	if lx.pos+i >= len(lx.data) {
		return 0
	}
	return lx.data[lx.pos+i]
}

// consume advances the lexer past the given text (which must be a prefix of
// the remaining input) and returns the token located at the pre-advance
// position.
func (lx *Lexer) consume(kind token.Kind, text string) token.Token {
	pos := lx.cur.pos()
	tok := token.New(kind, text, pos, lx.srcFile)
	lx.pos += len(text)
	lx.cur = lx.cur.advancedBy(text)
	switch kind {
	case token.Newline:
		lx.atLineStart = true
	case token.Whitespace:
		// indentation before a directive is fine
	default:
		lx.atLineStart = false
	}
	return tok
}

func (lx *Lexer) errf(code string, pos token.Position, format string, args ...any) {
	lx.diags.Errorf(code, lx.srcFile, pos.Line, pos.Column, format, args...)
}

// Next scans and returns the next token, or an EOF token once the input is
// exhausted.
func (lx *Lexer) Next() token.Token {
	if lx.eof() {
		return token.EOFToken(lx.cur.pos(), lx.srcFile)
	}

	switch c := lx.at(0); {
	case c == '\r' || c == '\n':
		return lx.scanNewline()
	case isHSpace(c):
		return lx.scanWhitespace()
	case lx.dialect.UseLongBracket && strings.HasPrefix(lx.rest(), lx.dialect.LineCommentPrefix):
		return lx.scanLuaComment()
	case !lx.dialect.UseLongBracket && strings.HasPrefix(lx.rest(), lx.dialect.BlockCommentStart):
		return lx.scanCBlockComment()
	case !lx.dialect.UseLongBracket && strings.HasPrefix(lx.rest(), lx.dialect.LineCommentPrefix):
		return lx.scanLineComment()
	case isStringDelim(c, lx.dialect.StringDelimiters):
		return lx.scanString(c)
	case lx.dialect.DirectivePrefix != "" && lx.atLineStart &&
		strings.HasPrefix(lx.rest(), lx.dialect.DirectivePrefix) && lx.directiveFollows():
		return lx.scanPrefixedDirective()
	case lx.dialect.SupportsVectors && c == '<':
		if tok, ok := lx.tryScanVectorLiteral(); ok {
			return tok
		}
		return lx.scanOperatorOrPunctuation()
	case isIdentStart(c):
		return lx.scanIdentifierOrDirectiveKeyword()
	case isDigit(c) || (c == '.' && isDigit(lx.at(1))):
		return lx.scanNumber()
	default:
		return lx.scanOperatorOrPunctuation()
	}
}

func isHSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\v' || c == '\f' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isStringDelim(c byte, delims []byte) bool {
	for _, d := range delims {
		if c == d {
			return true
		}
	}
	return false
}

func (lx *Lexer) scanNewline() token.Token {
	if lx.at(0) == '\r' && lx.at(1) == '\n' {
		return lx.consume(token.Newline, "\r\n")
	}
	return lx.consume(token.Newline, string(lx.at(0)))
}

func (lx *Lexer) scanWhitespace() token.Token {
	n := 0
	for isHSpace(lx.at(n)) {
		n++
	}
	return lx.consume(token.Whitespace, lx.rest()[:n])
}

func (lx *Lexer) scanLineComment() token.Token {
	n := 0
	for lx.at(n) != 0 && lx.at(n) != '\n' && lx.at(n) != '\r' {
		n++
	}
	return lx.consume(token.LineComment, lx.rest()[:n])
}

// scanCBlockComment handles C-style /* ... */ comments, which may span
// newlines. An unterminated comment still yields a content token covering
// the rest of the input, plus an unterminated-block-comment diagnostic.
func (lx *Lexer) scanCBlockComment() token.Token {
	startPos := lx.cur.pos()
	start := lx.dialect.BlockCommentStart
	rest := lx.rest()
	end := strings.Index(rest[len(start):], lx.dialect.BlockCommentEnd)
	if end < 0 {
		lx.errf(diag.CodeUnterminatedBlockComment, startPos, "unterminated block comment")
		return lx.consume(token.BlockCommentContent, rest)
	}
	full := rest[:len(start)+end+len(lx.dialect.BlockCommentEnd)]
	return lx.consume(token.BlockCommentContent, full)
}

// scanLuaComment handles Lua/Luau comments: a line comment "--...", or if
// immediately followed by a long bracket "[=*[", a (possibly multi-line)
// long comment terminated by the matching "]=*]".
func (lx *Lexer) scanLuaComment() token.Token {
	startPos := lx.cur.pos()
	prefix := lx.dialect.LineCommentPrefix
	rest := lx.rest()[len(prefix):]
	if strings.HasPrefix(rest, "[") {
		if level, ok := longBracketLevel(rest); ok {
			open := "[" + strings.Repeat("=", level) + "["
			close := "]" + strings.Repeat("=", level) + "]"
			body := rest[len(open):]
			if idx := strings.Index(body, close); idx >= 0 {
				full := lx.rest()[:len(prefix)+len(open)+idx+len(close)]
				return lx.consume(token.BlockCommentContent, full)
			}
			lx.errf(diag.CodeUnterminatedBlockComment, startPos, "unterminated long-bracket comment")
			return lx.consume(token.BlockCommentContent, lx.rest())
		}
	}
	n := len(prefix)
	for lx.at(n) != 0 && lx.at(n) != '\n' && lx.at(n) != '\r' {
		n++
	}
	return lx.consume(token.LineComment, lx.rest()[:n])
}

// longBracketLevel reports the '=' count of a Lua long bracket opener
// "[=*[" at the start of s, or false if s does not open one.
func longBracketLevel(s string) (int, bool) {
	if !strings.HasPrefix(s, "[") {
		return 0, false
	}
	i := 1
	for i < len(s) && s[i] == '=' {
		i++
	}
	if i < len(s) && s[i] == '[' {
		return i - 1, true
	}
	return 0, false
}

// scanString consumes a string literal starting at the given delimiter.
// '\' escapes the following character; an unterminated string (bare newline
// or EOF) still emits the text collected so far, plus a diagnostic.
func (lx *Lexer) scanString(delim byte) token.Token {
	startPos := lx.cur.pos()
	n := 1
	for {
		c := lx.at(n)
		if c == 0 {
			lx.errf(diag.CodeUnterminatedString, startPos, "unterminated string literal")
			break
		}
		if c == '\n' || c == '\r' {
			lx.errf(diag.CodeUnterminatedString, startPos, "unterminated string literal")
			break
		}
		if c == '\\' {
			if lx.at(n+1) == 0 {
				// Escape at end of input: the string is unterminated, and
				// only the backslash itself remains to collect.
				lx.errf(diag.CodeUnterminatedString, startPos, "unterminated string literal")
				n++
				break
			}
			n += 2
			continue
		}
		if c == delim {
			n++
			break
		}
		n++
	}
	return lx.consume(token.String, lx.rest()[:n])
}

// directiveFollows reports whether an identifier starts after the directive
// prefix (and any horizontal whitespace). A bare '#' or '##' at line start is
// an operator, not a directive.
func (lx *Lexer) directiveFollows() bool {
	n := len(lx.dialect.DirectivePrefix)
	for isHSpace(lx.at(n)) {
		n++
	}
	return isIdentStart(lx.at(n))
}

// scanPrefixedDirective handles LSL-style '#' + identifier directives. The
// caller has already checked directiveFollows.
func (lx *Lexer) scanPrefixedDirective() token.Token {
	n := len(lx.dialect.DirectivePrefix)
	for isHSpace(lx.at(n)) {
		n++
	}
	for isIdentCont(lx.at(n)) {
		n++
	}
	return lx.consume(token.Directive, lx.rest()[:n])
}

// scanIdentifierOrDirectiveKeyword scans a bare identifier, promoting it to
// a Directive token when the dialect treats that keyword as prefixless
// directive syntax (Luau's require).
func (lx *Lexer) scanIdentifierOrDirectiveKeyword() token.Token {
	n := 0
	for isIdentCont(lx.at(n)) {
		n++
	}
	text := lx.rest()[:n]
	if lx.dialect.DirectiveKeywords != nil && lx.dialect.DirectiveKeywords[text] {
		return lx.consume(token.Directive, text)
	}
	return lx.consume(token.Identifier, text)
}

// scanNumber scans an integer/float literal per §4.1: optional integer
// part, optional .fraction, optional eE[+-]?digits exponent, optional alpha
// suffix. A malformed exponent (no digits after 'e'/'E') still produces a
// token, plus an invalid-number-literal diagnostic.
func (lx *Lexer) scanNumber() token.Token {
	startPos := lx.cur.pos()
	n := 0
	for isDigit(lx.at(n)) {
		n++
	}
	if lx.at(n) == '.' && isDigit(lx.at(n+1)) {
		n++
		for isDigit(lx.at(n)) {
			n++
		}
	} else if lx.at(n) == '.' && !isIdentStart(lx.at(n+1)) {
		n++
	}
	valid := true
	if lx.at(n) == 'e' || lx.at(n) == 'E' {
		expStart := n
		n++
		if lx.at(n) == '+' || lx.at(n) == '-' {
			n++
		}
		digitsStart := n
		for isDigit(lx.at(n)) {
			n++
		}
		if n == digitsStart {
			valid = false
			n = expStart + 1 // keep the 'e' as part of the (invalid) literal
		}
	}
	for isIdentCont(lx.at(n)) {
		n++
	}
	text := lx.rest()[:n]
	if !valid {
		lx.errf(diag.CodeInvalidNumberLiteral, startPos, "invalid number literal %q: exponent has no digits", text)
	}
	return lx.consume(token.Number, text)
}

// tryScanVectorLiteral performs a transactional lookahead for LSL's
// <a,b,c> / <a,b,c,d> vector/rotation literals. Whitespace (including
// newlines) is permitted between components. On failure the lexer is left
// untouched so the caller can fall through to operator handling.
func (lx *Lexer) tryScanVectorLiteral() (token.Token, bool) {
	startPos := lx.cur.pos()
	n := 1 // skip '<'
	componentsSeen := 0
	crossedNewline := false

	skipWS := func() {
		for {
			c := lx.at(n)
			if c == ' ' || c == '\t' || c == '\v' || c == '\f' {
				n++
				continue
			}
			if c == '\n' || c == '\r' {
				crossedNewline = true
				n++
				continue
			}
			return
		}
	}
	scanComponent := func() bool {
		m := n
		if lx.at(m) == '+' || lx.at(m) == '-' {
			m++
		}
		start := m
		if isDigit(lx.at(m)) {
			for isDigit(lx.at(m)) {
				m++
			}
			if lx.at(m) == '.' {
				m++
				for isDigit(lx.at(m)) {
					m++
				}
			}
		} else if isIdentStart(lx.at(m)) {
			for isIdentCont(lx.at(m)) {
				m++
			}
		} else {
			return false
		}
		if m == start {
			return false
		}
		n = m
		return true
	}

	skipWS()
	if !scanComponent() {
		return token.Token{}, false
	}
	componentsSeen++

	for componentsSeen < 4 {
		skipWS()
		if lx.at(n) == ',' {
			n++
			skipWS()
			if !scanComponent() {
				return token.Token{}, false
			}
			componentsSeen++
			continue
		}
		break
	}
	skipWS()
	if componentsSeen < 3 {
		return token.Token{}, false
	}
	if lx.at(n) != '>' {
		if crossedNewline && componentsSeen >= 3 {
			lx.errf(diag.CodeUnterminatedVectorLiteral, startPos, "unterminated vector literal")
			text := lx.rest()[:n]
			return lx.consume(token.VectorLiteral, text), true
		}
		return token.Token{}, false
	}
	n++ // consume '>'
	return lx.consume(token.VectorLiteral, lx.rest()[:n]), true
}

// scanOperatorOrPunctuation dispatches brackets to their dedicated kinds and
// longest-matches everything else against the dialect's operator table.
func (lx *Lexer) scanOperatorOrPunctuation() token.Token {
	c := lx.at(0)
	switch c {
	case '{':
		return lx.consume(token.BraceOpen, "{")
	case '}':
		return lx.consume(token.BraceClose, "}")
	case '(':
		return lx.consume(token.ParenOpen, "(")
	case ')':
		return lx.consume(token.ParenClose, ")")
	case '[':
		return lx.consume(token.BracketOpen, "[")
	case ']':
		return lx.consume(token.BracketClose, "]")
	}

	best := ""
	for _, op := range lx.dialect.Operators {
		if strings.HasPrefix(lx.rest(), op) && len(op) > len(best) {
			best = op
		}
	}
	if best != "" {
		return lx.consume(token.Operator, best)
	}
	if c == 0 {
		return token.EOFToken(lx.cur.pos(), lx.srcFile)
	}
	return lx.consume(token.Unknown, string(c))
}
