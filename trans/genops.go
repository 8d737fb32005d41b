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

package trans

import "github.com/mkpreference/minidecaf/ir"

// GenLoadImm4 emits "LOAD_IMM4 dst, v" and returns dst (spec.md §4.B/§4.C).
func (h *Helper) GenLoadImm4(v int) *ir.Temp {
	dst := h.NewTempI4()
	h.emit(&ir.Instr{Op: ir.OpLoadImm4, Dst: ir.TempOperand(dst), Src1: ir.ImmOperand(v)})
	return dst
}

// GenLoadSymbolAddr emits "LOAD_SYMBOL dst, name" and returns dst: the
// address of a global variable, not its value.
func (h *Helper) GenLoadSymbolAddr(name string) *ir.Temp {
	dst := h.NewTempI4()
	h.emit(&ir.Instr{Op: ir.OpLoadSymbol, Dst: ir.TempOperand(dst), Src1: ir.SymOperand(name)})
	return dst
}

// GenLoad emits "LOAD dst, offset(base)" and returns dst.
func (h *Helper) GenLoad(base *ir.Temp, offset int) *ir.Temp {
	dst := h.NewTempI4()
	h.emit(&ir.Instr{Op: ir.OpLoad, Dst: ir.TempOperand(dst), Src1: ir.TempOperand(base), Src2: ir.ImmOperand(offset)})
	return dst
}

// GenStore emits "STORE offset(base), val". No value is produced.
func (h *Helper) GenStore(base *ir.Temp, offset int, val *ir.Temp) {
	h.emit(&ir.Instr{Op: ir.OpStore, Dst: ir.TempOperand(base), Src1: ir.ImmOperand(offset), Src2: ir.TempOperand(val)})
}

// GenAssign emits "ASSIGN dst, src" and returns dst: the Temp identity of an
// assignment expression's value is the lhs Temp itself (spec.md §4.C).
func (h *Helper) GenAssign(dst, src *ir.Temp) *ir.Temp {
	h.emit(&ir.Instr{Op: ir.OpAssign, Dst: ir.TempOperand(dst), Src1: ir.TempOperand(src)})
	return dst
}

// GenUnary emits the unary op (NEG/BNOT/LNOT) against src into a fresh dst.
func (h *Helper) GenUnary(op ir.Op, src *ir.Temp) *ir.Temp {
	dst := h.NewTempI4()
	h.emit(&ir.Instr{Op: op, Dst: ir.TempOperand(dst), Src1: ir.TempOperand(src)})
	return dst
}

// GenBinary emits a binary op (arithmetic, comparison, or LAND/LOR) against
// a, b into a fresh dst.
func (h *Helper) GenBinary(op ir.Op, a, b *ir.Temp) *ir.Temp {
	dst := h.NewTempI4()
	h.emit(&ir.Instr{Op: op, Dst: ir.TempOperand(dst), Src1: ir.TempOperand(a), Src2: ir.TempOperand(b)})
	return dst
}

// GenJump emits an unconditional JUMP to target.
func (h *Helper) GenJump(target *ir.Label) {
	h.emit(&ir.Instr{Op: ir.OpJump, Dst: ir.LabelOperand(target)})
}

// GenJZero emits "JZERO cond, target": jump to target when cond == 0.
func (h *Helper) GenJZero(cond *ir.Temp, target *ir.Label) {
	h.emit(&ir.Instr{Op: ir.OpJZero, Dst: ir.TempOperand(cond), Src1: ir.LabelOperand(target)})
}

// GenLabel emits a LABEL marker, starting a new basic block at this point.
func (h *Helper) GenLabel(l *ir.Label) {
	h.emit(&ir.Instr{Op: ir.OpLabel, Dst: ir.LabelOperand(l)})
}

// GenParam emits one PARAM for a call argument. Callers must emit the
// contiguous PARAM run for a call immediately before GenCall (spec.md §4.C —
// the code generator's call-site protocol relies on this contiguity).
func (h *Helper) GenParam(t *ir.Temp) {
	h.emit(&ir.Instr{Op: ir.OpParam, Dst: ir.TempOperand(t)})
}

// GenCall emits "CALL callee" and returns a fresh Temp holding the return
// value.
func (h *Helper) GenCall(callee string) *ir.Temp {
	dst := h.NewTempI4()
	h.emit(&ir.Instr{Op: ir.OpCall, Dst: ir.TempOperand(dst), Src1: ir.SymOperand(callee)})
	return dst
}

// GenPush emits a raw stack PUSH of t (available for completeness per
// spec.md's TAC tag list; the call-site protocol in riscv/codegen.go does
// its argument/live-temp marshalling directly at the assembly level instead
// of through PUSH/POP TAC, matching spec.md §4.H's description).
func (h *Helper) GenPush(t *ir.Temp) {
	h.emit(&ir.Instr{Op: ir.OpPush, Dst: ir.TempOperand(t)})
}

// GenPop emits a raw stack POP into a fresh Temp.
func (h *Helper) GenPop() *ir.Temp {
	dst := h.NewTempI4()
	h.emit(&ir.Instr{Op: ir.OpPop, Dst: ir.TempOperand(dst)})
	return dst
}

// GenReturn emits "RETURN t".
func (h *Helper) GenReturn(t *ir.Temp) {
	h.emit(&ir.Instr{Op: ir.OpReturn, Dst: ir.TempOperand(t)})
}
