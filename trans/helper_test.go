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

package trans_test

import (
	"testing"

	"github.com/mkpreference/minidecaf/ir"
	"github.com/mkpreference/minidecaf/trans"
)

func TestHelper_FuncAndGlobalPieces(t *testing.T) {
	h := trans.NewHelper()

	h.Global("g", 7)

	entry := h.NewEntryLabel("main")
	h.StartFunc(entry)
	a := h.NewTempI4()
	h.MarkParameter(a)
	b := h.GenLoadImm4(5)
	sum := h.GenBinary(ir.OpAdd, a, b)
	h.GenReturn(sum)
	h.EndFunc()

	pieces := h.Pieces()
	if pieces == nil || pieces.Kind != ir.PieceGlobal || pieces.Name != "g" || pieces.Init != 7 {
		t.Fatalf("expected first piece to be global g=7, got %#v", pieces)
	}
	fn := pieces.Next
	if fn == nil || fn.Kind != ir.PieceFunc || fn.Entry.Name != "main" {
		t.Fatalf("expected second piece to be func main, got %#v", fn)
	}
	if fn.Next != nil {
		t.Fatalf("expected exactly two pieces")
	}
	if len(fn.Params) != 1 || fn.Params[0] != a {
		t.Fatalf("expected one param (a), got %#v", fn.Params)
	}

	var ops []ir.Op
	for in := fn.Body; in != nil; in = in.Next {
		ops = append(ops, in.Op)
	}
	want := []ir.Op{ir.OpMarkParameters, ir.OpLoadImm4, ir.OpAdd, ir.OpReturn}
	if len(ops) != len(want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("op %d: expected %v, got %v", i, want[i], ops[i])
		}
	}
}

func TestHelper_StartFuncWhileOpenPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic from nested StartFunc")
		}
	}()
	h := trans.NewHelper()
	h.StartFunc(h.NewEntryLabel("f"))
	h.StartFunc(h.NewEntryLabel("g"))
}

func TestHelper_EmitOutsideFuncPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic from emission outside StartFunc/EndFunc")
		}
	}()
	h := trans.NewHelper()
	h.GenLoadImm4(1)
}

func TestHelper_GenCallReturnsFreshTemp(t *testing.T) {
	h := trans.NewHelper()
	h.StartFunc(h.NewEntryLabel("main"))
	arg := h.GenLoadImm4(3)
	h.GenParam(arg)
	ret := h.GenCall("f")
	h.GenReturn(ret)
	h.EndFunc()

	if ret == arg {
		t.Fatalf("expected GenCall to return a fresh temp, got the argument temp %v", arg)
	}

	body := h.Pieces().Body
	var ops []ir.Op
	for in := body; in != nil; in = in.Next {
		ops = append(ops, in.Op)
	}
	want := []ir.Op{ir.OpLoadImm4, ir.OpParam, ir.OpCall, ir.OpReturn}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("op %d: expected %v, got %v", i, want[i], ops[i])
		}
	}
}
