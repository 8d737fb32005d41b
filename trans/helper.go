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

// Package trans provides TransHelper: the factory for temporaries and
// labels, and the one-method-per-TAC-tag emission API the lower package
// drives (spec.md §4.A, §4.B). It owns the Piece list for one compilation,
// bracketed by StartFunc/EndFunc the way vm.New's functional-option builder
// (vm/vm.go) owns one VM instance's state.
package trans

import (
	"github.com/mkpreference/minidecaf/internal/diag"
	"github.com/mkpreference/minidecaf/ir"
)

// Helper is the TransHelper of spec.md §4.A/§4.B.
type Helper struct {
	pool *ir.Pool

	firstPiece, lastPiece *ir.Piece

	// current function being built; nil outside StartFunc/EndFunc.
	cur     *ir.Piece
	curTail *ir.Chain
}

// NewHelper creates an empty Helper, ready to lower one compilation unit.
func NewHelper() *Helper {
	return &Helper{pool: ir.NewPool()}
}

// NewTempI4 allocates a fresh 4-byte temporary.
func (h *Helper) NewTempI4() *ir.Temp { return h.pool.NewTempI4() }

// NewLabel allocates a fresh synthetic control-flow label.
func (h *Helper) NewLabel() *ir.Label { return h.pool.NewLabel() }

// NewEntryLabel derives a function's stable entry label from its source
// name.
func (h *Helper) NewEntryLabel(name string) *ir.Label { return ir.NewEntryLabel(name) }

// Pieces returns the Piece list built so far, in emission order.
func (h *Helper) Pieces() *ir.Piece { return h.firstPiece }

// Pool returns the temporary/label pool backing this compilation, so that
// later stages (the code generator's "__LLn" block labels) can share its
// counter (spec.md §9: "the uniqueness obligation is per-compilation, not
// per-function").
func (h *Helper) Pool() *ir.Pool { return h.pool }

func (h *Helper) appendPiece(p *ir.Piece) {
	if h.lastPiece == nil {
		h.firstPiece = p
	} else {
		h.lastPiece.Next = p
	}
	h.lastPiece = p
}

// StartFunc opens a new function Piece with the given entry label. The
// function's formal parameters are registered afterwards, one MarkParameter
// call each, in declaration order (spec.md §4.B).
func (h *Helper) StartFunc(entry *ir.Label) {
	if h.cur != nil {
		diag.Fail("trans: StartFunc called while a function is still open")
	}
	h.cur = &ir.Piece{Kind: ir.PieceFunc, Entry: entry}
	h.curTail = &ir.Chain{}
}

// MarkParameter associates a Temp with its positional argument slot, for
// later frame layout by the code generator (spec.md §4.B).
func (h *Helper) MarkParameter(t *ir.Temp) {
	if h.cur == nil {
		diag.Fail("trans: MarkParameter called outside StartFunc/EndFunc")
	}
	h.cur.Params = append(h.cur.Params, t)
	h.emit(&ir.Instr{Op: ir.OpMarkParameters, Dst: ir.TempOperand(t)})
}

// EndFunc closes the function opened by StartFunc and appends it to the
// Piece list.
func (h *Helper) EndFunc() {
	if h.cur == nil {
		diag.Fail("trans: EndFunc called with no function open")
	}
	h.cur.Body = h.curTail.Head()
	h.appendPiece(h.cur)
	h.cur, h.curTail = nil, nil
}

// Global appends a global-variable Piece (no open function required).
func (h *Helper) Global(name string, init int) {
	h.appendPiece(&ir.Piece{Kind: ir.PieceGlobal, Name: name, Init: init})
}

func (h *Helper) emit(in *ir.Instr) *ir.Instr {
	if h.cur == nil {
		diag.Fail("trans: emission outside StartFunc/EndFunc")
	}
	return h.curTail.Append(in)
}
