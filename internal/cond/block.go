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

// Package cond implements the conditional-compilation stack machine
// (#if/#ifdef/#ifndef/#elif/#else/#endif) and the integer expression
// evaluator that drives #if/#elif conditions (§4.3).
package cond

import "github.com/lsl-tools/lslpp/internal/diag"

// Block is a single frame of the conditional-nesting stack.
type Block struct {
	ParentActive   bool
	BranchActive   bool
	InElse         bool
	InElif         bool
	AnyBranchTaken bool
	StartLine      int
	DirectiveKind  string // "if", "ifdef", or "ifndef"
}

// Stack is the conditional-block stack shared by one parse (and, by
// reference, its nested include/require parses — see §5).
type Stack struct {
	frames []Block
}

// NewStack returns an empty conditional stack.
func NewStack() *Stack { return &Stack{} }

// IsActive reports whether tokens at the current position should be
// emitted: the stack is empty, or every frame has parent_active && branch_active.
func (s *Stack) IsActive() bool {
	for _, f := range s.frames {
		if !(f.ParentActive && f.BranchActive) {
			return false
		}
	}
	return true
}

// Depth returns the current nesting depth.
func (s *Stack) Depth() int { return len(s.frames) }

// Push opens a new #if/#ifdef/#ifndef frame. cond is the already-evaluated
// branch condition.
func (s *Stack) Push(kind string, cond bool, line int) {
	parentActive := s.IsActive()
	s.frames = append(s.frames, Block{
		ParentActive:   parentActive,
		BranchActive:   parentActive && cond,
		StartLine:      line,
		DirectiveKind:  kind,
		AnyBranchTaken: parentActive && cond,
	})
}

// Elif processes an #elif branch against the innermost open frame.
func (s *Stack) Elif(cond bool, srcFile string, line, col int, diags *diag.Collector) {
	if len(s.frames) == 0 {
		diags.Errorf(diag.CodeMismatchedConditional, srcFile, line, col, "#elif without matching #if")
		return
	}
	top := &s.frames[len(s.frames)-1]
	if top.InElse {
		diags.Errorf(diag.CodeMismatchedConditional, srcFile, line, col, "#elif after #else")
		return
	}
	top.InElif = true
	top.BranchActive = top.ParentActive && !top.AnyBranchTaken && cond
	if top.BranchActive {
		top.AnyBranchTaken = true
	}
}

// Else processes an #else branch against the innermost open frame.
func (s *Stack) Else(srcFile string, line, col int, diags *diag.Collector) {
	if len(s.frames) == 0 {
		diags.Errorf(diag.CodeMismatchedConditional, srcFile, line, col, "#else without matching #if")
		return
	}
	top := &s.frames[len(s.frames)-1]
	if top.InElse {
		diags.Errorf(diag.CodeMismatchedConditional, srcFile, line, col, "#else after #else")
		return
	}
	top.InElse = true
	top.BranchActive = top.ParentActive && !top.AnyBranchTaken
	if top.BranchActive {
		top.AnyBranchTaken = true
	}
}

// Endif pops the innermost frame.
func (s *Stack) Endif(srcFile string, line, col int, diags *diag.Collector) {
	if len(s.frames) == 0 {
		diags.Errorf(diag.CodeMismatchedConditional, srcFile, line, col, "#endif without matching #if")
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// NeedsElifCondition reports whether an #elif's condition expression can
// still influence the innermost frame: the frame exists, has not seen #else,
// its parent is active, and no earlier branch was taken. When it cannot, the
// caller skips evaluation so never-taken branches contribute no diagnostics.
func (s *Stack) NeedsElifCondition() bool {
	if len(s.frames) == 0 {
		return false
	}
	top := s.frames[len(s.frames)-1]
	return !top.InElse && top.ParentActive && !top.AnyBranchTaken
}

// UnterminatedFrames returns the frames still open at end of input, in
// outer-to-inner order, so the caller can emit one unterminated-conditional
// diagnostic per frame.
func (s *Stack) UnterminatedFrames() []Block {
	out := make([]Block, len(s.frames))
	copy(out, s.frames)
	return out
}
