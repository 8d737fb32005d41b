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

package ir_test

import (
	"testing"

	"github.com/mkpreference/minidecaf/ir"
)

func TestPool_NewTempI4(t *testing.T) {
	p := ir.NewPool()
	a := p.NewTempI4()
	b := p.NewTempI4()
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct ids, got %d == %d", a.ID(), b.ID())
	}
	if a.Size != ir.WordSize {
		t.Fatalf("expected Size %d, got %d", ir.WordSize, a.Size)
	}
	if got := len(p.Temps()); got != 2 {
		t.Fatalf("expected 2 temps tracked, got %d", got)
	}
}

func TestPool_Labels(t *testing.T) {
	p := ir.NewPool()
	l1 := p.NewLabel()
	l2 := p.NewLabel()
	if l1.Name == l2.Name {
		t.Fatalf("expected distinct synthetic label names, got %q twice", l1.Name)
	}
	bl := p.NewBlockLabel()
	if bl.Name[:4] != "__LL" {
		t.Fatalf("expected block label prefixed __LL, got %q", bl.Name)
	}
}

func TestNewEntryLabel(t *testing.T) {
	if got := ir.NewEntryLabel("main").Name; got != "main" {
		t.Fatalf("expected unadorned \"main\", got %q", got)
	}
	if got := ir.NewEntryLabel("fib").Name; got != "_fib" {
		t.Fatalf("expected \"_fib\", got %q", got)
	}
}

func TestChain_AppendOrder(t *testing.T) {
	var c ir.Chain
	i1 := &ir.Instr{Op: ir.OpLoadImm4}
	i2 := &ir.Instr{Op: ir.OpReturn}
	c.Append(i1)
	c.Append(i2)
	if c.Head() != i1 {
		t.Fatalf("expected head == i1")
	}
	if c.Tail() != i2 {
		t.Fatalf("expected tail == i2")
	}
	if i1.Next != i2 {
		t.Fatalf("expected i1.Next == i2")
	}
}

func TestInstr_String(t *testing.T) {
	in := &ir.Instr{Op: ir.OpAdd, Dst: ir.ImmOperand(0), Src1: ir.ImmOperand(2), Src2: ir.ImmOperand(3)}
	if got, want := in.String(), "ADD 0 2 3"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestOperand_String(t *testing.T) {
	p := ir.NewPool()
	tmp := p.NewTempI4()
	cases := []struct {
		o    ir.Operand
		want string
	}{
		{ir.TempOperand(tmp), tmp.String()},
		{ir.ImmOperand(42), "42"},
		{ir.SymOperand("g"), "g"},
	}
	for _, c := range cases {
		if got := c.o.String(); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}
