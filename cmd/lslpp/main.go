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

// Command lslpp drives the lslpp preprocessor over one or more LSL or Luau
// source files and prints the transformed output plus any diagnostics.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/lsl-tools/lslpp"
	"github.com/lsl-tools/lslpp/internal/diag"
	"github.com/lsl-tools/lslpp/internal/dialect"
	"github.com/lsl-tools/lslpp/internal/include"
)

var (
	dialectFlag  = flag.String("dialect", "lsl", "source dialect: lsl or luau")
	maxDepth     = flag.Int("max-depth", 5, "maximum #include/require nesting depth")
	outDir       = flag.String("o", "", "write transformed output to DIR/<basename> instead of stdout")
	colorMode    = flag.String("color", "auto", "diagnostic coloring: auto, always, or never")
	showMappings = flag.Bool("show-mappings", false, "print the processed-line -> source-line mapping table instead of the transformed source")
)

type includePaths []string

func (p *includePaths) String() string     { return fmt.Sprint([]string(*p)) }
func (p *includePaths) Set(v string) error { *p = append(*p, v); return nil }

func main() {
	var paths includePaths
	flag.Var(&paths, "I", "additional include search path (repeatable)")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		log.Fatal("usage: lslpp -dialect={lsl,luau} [-I path]... FILE...")
	}

	dialectTag, err := parseDialectFlag(*dialectFlag)
	if err != nil {
		log.Fatal(err)
	}
	if len(paths) == 0 {
		paths = includePaths{"."}
	}
	useColor := shouldColor(*colorMode)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	exitCodes := make([]bool, len(files))
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			ok, err := processFile(f, dialectTag, []string(paths), useColor)
			if err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			exitCodes[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	for _, ok := range exitCodes {
		if !ok {
			os.Exit(1)
		}
	}
}

func parseDialectFlag(s string) (dialect.Tag, error) {
	switch s {
	case "lsl":
		return dialect.LSL, nil
	case "luau":
		return dialect.Luau, nil
	default:
		return "", fmt.Errorf("unknown -dialect %q (want lsl or luau)", s)
	}
}

func shouldColor(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
}

// processFile preprocesses one file and reports whether it succeeded
// (success=false, i.e. at least one error diagnostic, is not a Go error —
// it is reported via diagnostics and a non-zero process exit, per §6).
func processFile(path string, dialectTag dialect.Tag, includePaths []string, useColor bool) (bool, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	dir := filepath.Dir(path)
	host := include.NewFSHost(dir,
		include.WithIncludePaths(includePaths),
		include.WithMaxIncludeDepth(*maxDepth),
	)

	out, err := lslpp.Preprocess(string(src), filepath.Base(path), dialectTag, host)
	if err != nil {
		return false, err
	}

	for _, d := range out.Diagnostics {
		fmt.Fprintln(os.Stderr, formatDiagnostic(d, useColor))
	}

	if *showMappings {
		for _, m := range out.LineMappings {
			fmt.Printf("%d -> %s:%d\n", m.ProcessedLine, m.SourceFile, m.OriginalLine)
		}
		return out.Success, nil
	}

	if *outDir != "" {
		dest := filepath.Join(*outDir, filepath.Base(path))
		if err := os.WriteFile(dest, []byte(out.Content), 0o644); err != nil {
			return false, err
		}
	} else {
		fmt.Print(out.Content)
	}
	return out.Success, nil
}

func formatDiagnostic(d lslpp.Diagnostic, useColor bool) string {
	msg := lslpp.FormatDiagnostic(d)
	if !useColor {
		return msg
	}
	const (
		red    = "\x1b[31m"
		yellow = "\x1b[33m"
		reset  = "\x1b[0m"
	)
	color := yellow
	if d.Severity == diag.Error {
		color = red
	}
	return color + msg + reset
}
