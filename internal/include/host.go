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

// Package include implements file inclusion and Luau module resolution: the
// Host capability interface the core preprocessor uses to touch the outside
// world, include guards, circular-include detection, and the require-table
// bookkeeping described in §4.4.
package include

import (
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Config keys recognized by Host.ConfigGet (§6).
const (
	KeyPreprocessorEnabled = "preprocessor-enabled"
	KeyIncludePaths        = "include-paths"
	KeyMaxIncludeDepth     = "max-include-depth"
)

// Host is the only surface the preprocessor core touches outside its own
// types: file resolution, reading, existence checks, URI conversion, and
// workspace/config introspection. Implementations may be backed by a real
// filesystem, an editor's in-memory buffers, or a test double.
type Host interface {
	// ResolveFile searches searchPaths (plus, when from is non-empty, the
	// directory containing from) for a file named filename, trying each of
	// extensions in turn when filename has no extension of its own. It
	// returns the normalized path and whether resolution succeeded.
	ResolveFile(filename, from string, extensions, searchPaths []string) (string, bool)
	// ReadFile returns the complete contents of a path returned by
	// ResolveFile.
	ReadFile(normalizedPath string) (string, bool)
	// Exists reports whether normalizedPath refers to a readable file.
	Exists(normalizedPath string) bool
	// FileNameToURI formats a normalized path as a URI for provenance markers.
	FileNameToURI(normalizedPath string) string
	// URIToFileName parses a URI produced by FileNameToURI (or an @line
	// marker written by another tool) back into a normalized path.
	URIToFileName(uri string) (string, bool)
	// ListWorkspaceFolders returns the open workspace roots, if any; used
	// only to improve provenance formatting.
	ListWorkspaceFolders() []string
	// ConfigGet returns a host-configured value for one of the Key*
	// constants above, or ok=false to fall back to the documented default.
	ConfigGet(key string) (any, bool)
}

// FSHost is the default Host, backed by an fs.FS rooted at a real directory
// tree. Search paths and workspace folders are slash-separated, relative to
// the root.
type FSHost struct {
	fsys             fs.FS
	root             string
	workspaceFolders []string
	config           map[string]any
}

// FSHostOption configures an FSHost at construction.
type FSHostOption func(*FSHost)

// WithIncludePaths overrides the default ["."] include-path list.
func WithIncludePaths(paths []string) FSHostOption {
	return func(h *FSHost) { h.config[KeyIncludePaths] = paths }
}

// WithMaxIncludeDepth overrides the default max-include-depth of 5.
func WithMaxIncludeDepth(depth int) FSHostOption {
	return func(h *FSHost) { h.config[KeyMaxIncludeDepth] = depth }
}

// WithPreprocessorEnabled overrides the default preprocessor-enabled of true.
func WithPreprocessorEnabled(enabled bool) FSHostOption {
	return func(h *FSHost) { h.config[KeyPreprocessorEnabled] = enabled }
}

// WithWorkspaceFolders sets the folders returned by ListWorkspaceFolders.
func WithWorkspaceFolders(folders []string) FSHostOption {
	return func(h *FSHost) { h.workspaceFolders = folders }
}

// WithFS overrides the backing fs.FS, e.g. with an fstest.MapFS in tests.
func WithFS(fsys fs.FS) FSHostOption {
	return func(h *FSHost) { h.fsys = fsys }
}

// NewFSHost returns a Host rooted at root on the real filesystem.
func NewFSHost(root string, opts ...FSHostOption) *FSHost {
	h := &FSHost{
		fsys: os.DirFS(root),
		root: root,
		config: map[string]any{
			KeyPreprocessorEnabled: true,
			KeyIncludePaths:        []string{"."},
			KeyMaxIncludeDepth:     5,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *FSHost) ConfigGet(key string) (any, bool) {
	v, ok := h.config[key]
	return v, ok
}

func (h *FSHost) ListWorkspaceFolders() []string { return h.workspaceFolders }

func (h *FSHost) Exists(normalizedPath string) bool {
	info, err := fs.Stat(h.fsys, normalizedPath)
	return err == nil && !info.IsDir()
}

func (h *FSHost) ReadFile(normalizedPath string) (string, bool) {
	data, err := fs.ReadFile(h.fsys, normalizedPath)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (h *FSHost) FileNameToURI(normalizedPath string) string {
	return (&url.URL{Scheme: "file", Path: path.Join("/", filepath.ToSlash(filepath.Join(h.root, normalizedPath)))}).String()
}

func (h *FSHost) URIToFileName(uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	rel, err := filepath.Rel(path.Join("/", filepath.ToSlash(h.root)), u.Path)
	if err != nil {
		return u.Path, true
	}
	return filepath.ToSlash(rel), true
}

// ResolveFile implements §4.4 step 2: extensionless filenames are tried
// against each of extensions in turn, searched first relative to from (used
// by require, which resolves only relative to the requiring file) and then
// across searchPaths (used by #include). Entries of searchPaths may be
// doublestar glob patterns (e.g. "vendor/**"); each matching directory is
// searched in the order doublestar reports it.
func (h *FSHost) ResolveFile(filename, from string, extensions, searchPaths []string) (string, bool) {
	candidates := candidateNames(filename, extensions)

	if from != "" {
		dir := path.Dir(filepath.ToSlash(from))
		if p, ok := h.tryDir(dir, candidates); ok {
			return p, true
		}
	}

	for _, sp := range searchPaths {
		dirs, err := doublestar.Glob(h.fsys, sp)
		if err != nil || len(dirs) == 0 {
			dirs = []string{sp}
		}
		for _, dir := range dirs {
			if p, ok := h.tryDir(dir, candidates); ok {
				return p, true
			}
		}
	}
	return "", false
}

func (h *FSHost) tryDir(dir string, candidates []string) (string, bool) {
	for _, name := range candidates {
		p := path.Clean(path.Join(dir, name))
		if h.Exists(p) {
			return p, true
		}
	}
	return "", false
}

// candidateNames returns filename itself first (in case it already carries
// an extension), followed by filename+"."+ext for each configured extension.
func candidateNames(filename string, extensions []string) []string {
	out := []string{filename}
	for _, ext := range extensions {
		out = append(out, filename+"."+ext)
	}
	return out
}
