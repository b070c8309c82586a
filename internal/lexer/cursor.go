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

package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/lsl-tools/lslpp/internal/token"
)

// cursor tracks a 1-based line/column position as the scanner consumes
// bytes. Kept separate from token.Position so token.Position can stay a
// plain, behaviorless value type shared across packages.
type cursor struct {
	line, column int
}

func cursorInit() cursor { return cursor{line: 1, column: 1} }

func (c cursor) pos() token.Position { return token.Position{Line: c.line, Column: c.column} }

// advancedBy returns a new cursor moved past consumed, accounting for any
// newlines it contains (block comments, long-bracket comments and vector
// literals can span several lines in one bite).
func (c cursor) advancedBy(consumed string) cursor {
	newlines := strings.Count(consumed, "\n")
	if newlines == 0 {
		c.column += utf8.RuneCountInString(consumed)
		return c
	}
	tailStart := 1 + strings.LastIndex(consumed, "\n")
	c.line += newlines
	c.column = 1 + utf8.RuneCountInString(consumed[tailStart:])
	return c
}
