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

// Package lslpp is a C-style preprocessor for the LSL and Luau scripting
// dialects. Preprocess runs the five-stage pipeline — lexer, conditional
// evaluator, macro engine, include/require resolver, output assembler —
// over a single source document and its Host-resolved dependencies.
package lslpp

import (
	"fmt"

	"github.com/lsl-tools/lslpp/internal/assembler"
	"github.com/lsl-tools/lslpp/internal/dialect"
	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/include"
	"github.com/lsl-tools/lslpp/internal/ppparser"
)

// DetectedInclude records one #include or require(...) site encountered
// during a run.
type DetectedInclude = ppparser.DetectedInclude

// DetectedMacro records one #define site encountered during a run.
type DetectedMacro = ppparser.DetectedMacro

// Diagnostic is a single reported lexer/parser/macro/conditional/include
// issue; see internal/diag for severities and stable codes.
type Diagnostic = diag.Diagnostic

// Output is the result of one Preprocess call (§6).
type Output struct {
	Content          string
	Success          bool
	Language         dialect.Tag
	LineMappings     []assembler.LineMapping
	Diagnostics      []Diagnostic
	DetectedIncludes []DetectedInclude
	DetectedMacros   []DetectedMacro
}

// Preprocess transforms source (identified by sourceFile, for diagnostics
// and relative include/require resolution) according to dialectTag, using
// host to resolve, read, and describe files (§6 "Host capability set").
func Preprocess(source, sourceFile string, dialectTag dialect.Tag, host include.Host) (Output, error) {
	d, err := dialect.For(dialectTag)
	if err != nil {
		return Output{}, err
	}

	if enabled, ok := host.ConfigGet(include.KeyPreprocessorEnabled); ok {
		if b, ok := enabled.(bool); ok && !b {
			return Output{Content: source, Success: true, Language: dialectTag}, nil
		}
	}

	maxDepth := 5
	if v, ok := host.ConfigGet(include.KeyMaxIncludeDepth); ok {
		if n, ok := v.(int); ok && n > 0 {
			maxDepth = n
		}
	}
	includePaths := []string{"."}
	if v, ok := host.ConfigGet(include.KeyIncludePaths); ok {
		if paths, ok := v.([]string); ok && len(paths) > 0 {
			includePaths = paths
		}
	}

	doc := ppparser.Run(source, sourceFile, d, host, maxDepth, includePaths)

	out := Output{
		Success:          doc.Success,
		Language:         dialectTag,
		Diagnostics:      doc.Diagnostics,
		DetectedIncludes: doc.DetectedIncludes,
		DetectedMacros:   doc.DetectedMacros,
	}
	if !doc.Success {
		out.Content = doc.SourceText
		return out, nil
	}
	out.Content = assembler.Emit(doc.Tokens)
	out.LineMappings = assembler.BuildLineMappings(doc.Tokens, sourceFile)
	return out, nil
}

// FormatDiagnostic renders d in the "file:line:col: severity: message [code]"
// form used by cmd/lslpp and suitable for terminal output or editor
// problem-matcher parsing.
func FormatDiagnostic(d Diagnostic) string {
	if d.Code == "" {
		return fmt.Sprintf("%s:%d:%d: %s: %s", d.SourceFile, d.Line, d.Column, d.Severity, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]", d.SourceFile, d.Line, d.Column, d.Severity, d.Message, d.Code)
}
