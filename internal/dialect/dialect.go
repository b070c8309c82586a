// Package dialect defines the per-language lexical and operator tables that
// let the rest of the preprocessor stay dialect-agnostic. LSL is a C-like
// dialect with a '#' directive prefix; Luau is Lua-like and spells its only
// directive as a bare identifier, require.
package dialect

import "fmt"

// Tag identifies a supported dialect.
type Tag string

const (
	LSL  Tag = "lsl"
	Luau Tag = "luau"
)

// LogicalOperators carries the dialect-specific spellings of the three
// boolean operators used by conditional expressions.
type LogicalOperators struct {
	Or, And, Not string
}

// Config is an immutable per-dialect record. Two instances are predefined,
// LSLConfig and LuauConfig; callers should treat both as read-only.
type Config struct {
	Tag Tag

	LineCommentPrefix  string
	BlockCommentStart  string
	BlockCommentEnd    string
	UseLongBracket     bool // Lua-style --[=*[ ... ]=*] comments
	SupportsVectors    bool // LSL vector/rotation literals: <a,b,c>, <a,b,c,d>

	DirectivePrefix   string          // "#" for LSL, "" for Luau
	DirectiveKeywords map[string]bool // prefixless directive keywords, e.g. {"require": true}

	// Operators lists operator spellings, multi- and single-character. The
	// lexer picks the longest entry that matches, so their order does not
	// matter.
	Operators []string

	StringDelimiters []byte // bytes that open/close a string literal

	Logical LogicalOperators

	// IncludeExtensions lists file extensions (without the leading dot) that
	// the include/require resolver appends when searching for a file that
	// omitted its extension.
	IncludeExtensions []string
}

// LSLConfig is the C-like dialect: '#' directives, C-style /* */ and //
// comments, and vector/rotation literals.
var LSLConfig = Config{
	Tag:               LSL,
	LineCommentPrefix: "//",
	BlockCommentStart: "/*",
	BlockCommentEnd:   "*/",
	UseLongBracket:    false,
	SupportsVectors:   true,
	DirectivePrefix:   "#",
	DirectiveKeywords: nil,
	Operators: []string{
		"##", "==", "!=", "~=", "<=", ">=", "&&", "||",
		"+", "-", "*", "/", "%", "!", "<", ">", "=", "#", ",", ";", ".", ":",
	},
	StringDelimiters:  []byte{'"'},
	Logical:           LogicalOperators{Or: "||", And: "&&", Not: "!"},
	IncludeExtensions: []string{"lsl"},
}

// LuauConfig is the Lua-like dialect: require(...) is the only directive,
// spelled as a bare keyword rather than with a prefix, and comments may use
// Lua's long-bracket form.
var LuauConfig = Config{
	Tag:               Luau,
	LineCommentPrefix: "--",
	BlockCommentStart: "--[",
	BlockCommentEnd:   "]",
	UseLongBracket:    true,
	SupportsVectors:   false,
	DirectivePrefix:   "",
	DirectiveKeywords: map[string]bool{"require": true},
	Operators: []string{
		"==", "~=", "<=", ">=", "..", "...",
		"+", "-", "*", "/", "%", "^", "#", "<", ">", "=", ",", ";", ".", ":",
	},
	StringDelimiters:  []byte{'"', '\''},
	Logical:           LogicalOperators{Or: "or", And: "and", Not: "not"},
	IncludeExtensions: []string{"luau", "lua"},
}

// For returns the predefined Config for tag, or an error if tag is unknown.
func For(tag Tag) (Config, error) {
	switch tag {
	case LSL:
		return LSLConfig, nil
	case Luau:
		return LuauConfig, nil
	default:
		return Config{}, fmt.Errorf("dialect: unknown dialect tag %q", tag)
	}
}

// CommentPrefix returns the single-line comment prefix used to format @line
// provenance markers emitted into the output stream.
func (c Config) CommentPrefix() string { return c.LineCommentPrefix }
