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

// Package assembler implements the output assembler (§4.6): reconstructing
// source text from an emitted token stream, and building the processed-line
// → original-file:line mapping table that the @line provenance markers
// woven into that stream describe.
package assembler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lsl-tools/lslpp/internal/token"
)

// Emit concatenates every token's text in order. Byte-exact: no
// normalization of whitespace, comments, or line endings beyond what the
// driver itself synthesized (the @line markers).
func Emit(tokens []token.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// LineMapping records, for one 1-based processed output line, the original
// source file and line it was produced from.
type LineMapping struct {
	ProcessedLine int
	SourceFile    string
	OriginalLine  int
}

// lineDirectiveRegex matches a provenance marker's payload,
// "@line N \"uri\"", anywhere in the text it is applied to (a marker
// token's full text or, for ParseLineDirectives, a whole line, comment
// prefix included), tolerating any run of whitespace between '@line' and
// its arguments.
var lineDirectiveRegex = regexp.MustCompile(`@line\s+(\d+)\s+"((?:[^"\\]|\\.)*)"`)

// BuildLineMappings walks an emitted token stream and records, for every
// newline token, the (source_file, source_line) in effect for the
// processed line that newline terminates. Tracking starts by assuming
// (source_file=mainFile, line=1) and is updated whenever an @line marker
// (recognized by IsSystem plus the '@line' payload, rather than by
// re-parsing dialect comment syntax) is encountered.
func BuildLineMappings(tokens []token.Token, mainFile string) []LineMapping {
	var out []LineMapping
	processedLine := 1
	curFile := mainFile
	curLine := 1

	for _, t := range tokens {
		if t.IsSystem && t.Kind == token.LineComment {
			if file, line, ok := parseMarkerText(t.Text); ok {
				curFile = file
				curLine = line
				continue
			}
		}
		if t.Kind == token.Newline {
			out = append(out, LineMapping{ProcessedLine: processedLine, SourceFile: curFile, OriginalLine: curLine})
			processedLine++
			if !t.IsSystem {
				curLine++
			}
			continue
		}
	}
	return out
}

// parseMarkerText extracts the file/line payload of a single "<prefix>
// @line N \"uri\"" marker's text.
func parseMarkerText(text string) (file string, line int, ok bool) {
	m := lineDirectiveRegex.FindStringSubmatch(text)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return "", 0, false
	}
	return unescapeURI(m[2]), n, true
}

// ParseLineDirectives is the reverse operation described in §4.6: given an
// arbitrary preprocessed text (not a token stream — for tools that only
// have the output string), it recovers the line-mapping table from the
// @line markers in the text. It agrees with BuildLineMappings for marker
// lines and source lines; it differs on lines ended by a synthesized
// newline that follows no marker (the require-table lines), which it
// counts toward the source line and BuildLineMappings does not, and it
// also records a final line that has no trailing newline.
func ParseLineDirectives(text, mainFile string) []LineMapping {
	lines := strings.Split(text, "\n")
	var out []LineMapping
	curFile := mainFile
	curLine := 1
	for i, raw := range lines {
		if i == len(lines)-1 && raw == "" {
			break // trailing split artifact from a final newline, not a line
		}
		if file, line, ok := parseMarkerText(raw); ok {
			curFile = file
			curLine = line
			out = append(out, LineMapping{ProcessedLine: i + 1, SourceFile: curFile, OriginalLine: curLine})
			continue
		}
		out = append(out, LineMapping{ProcessedLine: i + 1, SourceFile: curFile, OriginalLine: curLine})
		curLine++
	}
	return out
}

func unescapeURI(s string) string {
	return strings.NewReplacer(`\"`, `"`, `\\`, `\`).Replace(s)
}
