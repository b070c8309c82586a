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

package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_AddAndContains(t *testing.T) {
	s := Set[string]{}
	assert.False(t, s.Contains("a.lsl"))

	s.Add("a.lsl")
	assert.True(t, s.Contains("a.lsl"))
	assert.False(t, s.Contains("b.lsl"))

	// Adding again is a no-op.
	s.Add("a.lsl")
	assert.Len(t, s, 1)
}

func TestSetOf(t *testing.T) {
	s := SetOf(1, 2, 2, 3)
	assert.Len(t, s, 3)
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(4))
}

func TestFindDuplicates(t *testing.T) {
	assert.Nil(t, FindDuplicates([]string{"a", "b", "c"}))
	assert.Equal(t, []string{"a"}, FindDuplicates([]string{"a", "b", "a"}))
	assert.Equal(t, []string{"x", "x"}, FindDuplicates([]string{"x", "x", "x"}))
}
