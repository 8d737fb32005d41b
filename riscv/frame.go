// This file is part of mindc.
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

package riscv

import "github.com/mkpreference/minidecaf/ir"

// savedRegBytes is the space reserved for the saved ra and fp, at fixed
// offsets -4 and -8 (spec.md §3 Frame slot table).
const savedRegBytes = 2 * ir.WordSize

// Frame is one function's stack-slot manager (spec.md §4.G). User slots
// start at -12 and grow downward in 4-byte units; -4 and -8 are reserved for
// the saved ra/fp, never handed out by Reserve.
type Frame struct {
	initialCursor int
	cursor        int
}

// NewFrame creates a frame manager with the cursor at its starting offset.
func NewFrame() *Frame {
	return &Frame{initialCursor: -12, cursor: -12}
}

// Reserve assigns t a fixed frame slot if it does not already have one.
func (f *Frame) Reserve(t *ir.Temp) {
	if t.IsOffsetFixed {
		return
	}
	t.Offset = f.cursor
	t.IsOffsetFixed = true
	f.cursor -= ir.WordSize
}

// GetSlotToWrite is the same as Reserve: spec.md §4.G permits reusing slots
// of temporaries no longer live as an optional optimization, but a naive
// always-allocate implementation is explicitly correct, which is what this
// does.
func (f *Frame) GetSlotToWrite(t *ir.Temp, live map[*ir.Temp]struct{}) {
	f.Reserve(t)
}

// GetStackFrameSize returns the total user bytes reserved so far.
func (f *Frame) GetStackFrameSize() int {
	if f.cursor > f.initialCursor {
		return 0
	}
	return f.initialCursor - f.cursor
}

// TotalFrameSize returns GetStackFrameSize plus the saved ra/fp slots.
func (f *Frame) TotalFrameSize() int {
	return f.GetStackFrameSize() + savedRegBytes
}
