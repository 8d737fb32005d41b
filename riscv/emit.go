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

import (
	"fmt"
	"io"
	"strings"
)

// Writer formats RISC-V assembly text, column-aligned the way asm.Disassemble
// (asm/asm.go) formats ngaro mnemonics: a fixed instruction indent, a padded
// mnemonic column, comma-separated operands.
type Writer struct {
	w        io.Writer
	err      error
	comments bool
}

// NewWriter wraps w for assembly emission.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// EnableComments turns on the "# comment" tail (spec.md §6): dumped TAC
// instructions and the allocator's loads/spills. The "-O" CLI flag
// (SPEC_FULL.md §6) leaves this off.
func (wr *Writer) EnableComments() { wr.comments = true }

// Err returns the first write error encountered, if any.
func (wr *Writer) Err() error { return wr.err }

func (wr *Writer) write(s string) {
	if wr.err != nil {
		return
	}
	_, wr.err = io.WriteString(wr.w, s)
}

// Label emits a label definition flush against the left margin, e.g. "main:".
func (wr *Writer) Label(name string) {
	wr.write(name)
	wr.write(":\n")
}

// Instr emits one instruction: 10-space indent, mnemonic padded to 6 columns,
// comma-separated operands.
func (wr *Writer) Instr(mnemonic string, operands ...string) {
	line := "          " + pad6(mnemonic)
	if len(operands) > 0 {
		line += strings.Join(operands, ", ")
	}
	wr.write(strings.TrimRight(line, " ") + "\n")
}

// Comment emits a trailing "# text" comment on its own line, unless
// comments are disabled (the "-O" flag).
func (wr *Writer) Comment(format string, args ...interface{}) {
	if !wr.comments {
		return
	}
	wr.write("          # " + fmt.Sprintf(format, args...) + "\n")
}

// Directive emits a raw assembler directive line (".text", ".globl name", ...).
func (wr *Writer) Directive(format string, args ...interface{}) {
	wr.write(fmt.Sprintf(format, args...) + "\n")
}

func pad6(s string) string {
	if len(s) >= 6 {
		return s + " "
	}
	return s + strings.Repeat(" ", 6-len(s))
}
