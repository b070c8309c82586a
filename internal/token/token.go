// Package token defines the lexical token vocabulary shared by the LSL and
// Luau dialects of the preprocessor. Tokens are immutable once constructed;
// every field needed to losslessly reconstruct the source text is carried on
// the value itself.
package token

import "fmt"

// Kind classifies a Token. The lexer is dialect-aware but emits a single
// shared Kind vocabulary so that downstream stages (macro engine, conditional
// evaluator, output assembler) do not need to know which dialect produced a
// token.
type Kind int

const (
	Unknown Kind = iota
	EOF

	Whitespace
	Newline
	LineComment
	BlockCommentStart
	BlockCommentContent
	BlockCommentEnd

	Directive
	Identifier
	Number
	String
	VectorLiteral // LSL only

	Operator
	Punctuation

	BraceOpen
	BraceClose
	ParenOpen
	ParenClose
	BracketOpen
	BracketClose
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case EOF:
		return "eof"
	case Whitespace:
		return "whitespace"
	case Newline:
		return "newline"
	case LineComment:
		return "line-comment"
	case BlockCommentStart:
		return "block-comment-start"
	case BlockCommentContent:
		return "block-comment-content"
	case BlockCommentEnd:
		return "block-comment-end"
	case Directive:
		return "directive"
	case Identifier:
		return "identifier"
	case Number:
		return "number"
	case String:
		return "string"
	case VectorLiteral:
		return "vector-literal"
	case Operator:
		return "operator"
	case Punctuation:
		return "punctuation"
	case BraceOpen:
		return "brace-open"
	case BraceClose:
		return "brace-close"
	case ParenOpen:
		return "paren-open"
	case ParenClose:
		return "paren-close"
	case BracketOpen:
		return "bracket-open"
	case BracketClose:
		return "bracket-close"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Position is a 1-based line/column location within a single source file.
// Token positions always refer to the token's original file: provenance
// across file boundaries is carried by emitted @line markers, never by
// rewriting a token's Position.
type Position struct {
	Line, Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Token is an immutable lexical unit. Text is preserved byte-exact so that
// concatenating every token's Text in order reconstructs the input exactly
// (the "lossless lexing" invariant).
type Token struct {
	Kind     Kind
	Text     string
	Pos      Position
	Length   int
	SrcFile  string // file this token's Pos is relative to
	IsSystem bool   // true for tokens synthesized by the preprocessor (e.g. @line markers)
}

// New constructs a Token, deriving Length from Text when not already sized.
func New(kind Kind, text string, pos Position, srcFile string) Token {
	return Token{Kind: kind, Text: text, Pos: pos, Length: len(text), SrcFile: srcFile}
}

// Clone returns a copy of t with field overrides applied via opts, in order.
// Tokens are never mutated in place; transformations of an existing token
// (such as token pasting) go through Clone so the original token the clone
// was derived from is left untouched.
func (t Token) Clone(opts ...func(*Token)) Token {
	c := t
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithText overrides the clone's Text (and recomputes Length).
func WithText(text string) func(*Token) {
	return func(t *Token) {
		t.Text = text
		t.Length = len(text)
	}
}

// WithKind overrides the clone's Kind.
func WithKind(kind Kind) func(*Token) {
	return func(t *Token) { t.Kind = kind }
}

// WithPos overrides the clone's Position.
func WithPos(pos Position) func(*Token) {
	return func(t *Token) { t.Pos = pos }
}

// IsTrivia reports whether a token carries no semantic content of its own
// (whitespace, comments) and should be skipped by parsers/evaluators that
// only care about significant tokens.
func (t Token) IsTrivia() bool {
	switch t.Kind {
	case Whitespace, Newline, LineComment, BlockCommentStart, BlockCommentContent, BlockCommentEnd:
		return true
	default:
		return false
	}
}

// EOFToken returns the terminal EOF token for a source file at the given
// position. Its Text is empty, which keeps the lossless-concatenation
// invariant intact (concatenating all token text, including EOF, must equal
// the original input).
func EOFToken(pos Position, srcFile string) Token {
	return Token{Kind: EOF, Text: "", Pos: pos, SrcFile: srcFile}
}
