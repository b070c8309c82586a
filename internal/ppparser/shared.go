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
	"github.com/lsl-tools/lslpp/internal/cond"
	"github.com/lsl-tools/lslpp/internal/dialect"
	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/include"
	"github.com/lsl-tools/lslpp/internal/macro"
)

// DetectedInclude records one #include or require(...) site encountered
// during a parse, for the Output.detected_includes field (§6).
type DetectedInclude struct {
	File      string
	Line      int
	Column    int
	IsRequire bool
}

// DetectedMacro records one #define site, for Output.detected_macros (§6).
type DetectedMacro struct {
	Name           string
	Line           int
	Column         int
	IsFunctionLike bool
	Parameters     []string
}

// SharedState is the single parser-state instance referenced by a root
// parser and every nested parser it spawns for #include/require (§3, §9):
// the macro table, conditional stack, include/require bookkeeping, and
// diagnostic collector are never copied, only borrowed by reference.
//
// Output token buffers are intentionally NOT part of SharedState: each
// Parser owns its own, and the #include handler explicitly splices a
// child's buffer into its parent's (mirroring "included files ... tokens
// appended into the parent's emission stream"), while a require's nested
// parse's buffer is captured separately and never spliced at all (its
// tokens go into the wrapped module table instead). Provenance tracking
// (last source line/file, the per-output-line latch), by contrast, spans
// the whole document and does live here.
type SharedState struct {
	Dialect      dialect.Config
	Macros       *macro.Engine
	CondEval     *cond.Evaluator
	Conditionals *cond.Stack
	Includes     *include.State
	Host         include.Host
	Diags        *diag.Collector

	DetectedIncludes []DetectedInclude
	DetectedMacros   []DetectedMacro

	LastSourceLine int
	LastSourceFile string
	AtLineStart    bool
}

// NewSharedState constructs the shared state for a fresh top-level parse.
func NewSharedState(d dialect.Config, host include.Host, diags *diag.Collector, maxIncludeDepth int, includePaths []string) *SharedState {
	return &SharedState{
		Dialect:      d,
		Macros:       macro.NewEngine(),
		CondEval:     cond.NewEvaluator(d),
		Conditionals: cond.NewStack(),
		Includes:     include.NewState(maxIncludeDepth, includePaths),
		Host:         host,
		Diags:        diags,
		AtLineStart:  true,
	}
}
