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

package cfg_test

import (
	"testing"

	"github.com/mkpreference/minidecaf/cfg"
	"github.com/mkpreference/minidecaf/ir"
	"github.com/mkpreference/minidecaf/trans"
)

// buildIfElse lowers the shape of "if (n) return a; else return b;" by hand,
// exercising the JZero/fallthrough/label resolution paths together.
func buildIfElse(t *testing.T) (*trans.Helper, *ir.Piece) {
	t.Helper()
	h := trans.NewHelper()
	h.StartFunc(h.NewEntryLabel("main"))
	n := h.NewTempI4()
	h.MarkParameter(n)
	elseLbl := h.NewLabel()
	endLbl := h.NewLabel()
	h.GenJZero(n, elseLbl)
	a := h.GenLoadImm4(1)
	h.GenReturn(a)
	h.GenJump(endLbl)
	h.GenLabel(elseLbl)
	b := h.GenLoadImm4(2)
	h.GenReturn(b)
	h.GenLabel(endLbl)
	h.EndFunc()
	return h, h.Pieces()
}

func TestBuild_PartitionsOnLabelsAndTerminators(t *testing.T) {
	_, piece := buildIfElse(t)
	g := cfg.Build(piece.Body)
	if len(g.Blocks()) < 3 {
		t.Fatalf("expected at least 3 blocks (entry, else, end), got %d", len(g.Blocks()))
	}
	entry := g.Block(g.Entry)
	if entry.EndKind != cfg.ByJZero {
		t.Fatalf("expected entry block to end with JZERO, got %v", entry.EndKind)
	}
	if entry.Next[0] < 0 || entry.Next[1] < 0 {
		t.Fatalf("expected both JZERO successors resolved, got %v", entry.Next)
	}
}

func TestSimplify_DropsUnreachableBlock(t *testing.T) {
	h := trans.NewHelper()
	h.StartFunc(h.NewEntryLabel("main"))
	dead := h.NewLabel()
	v := h.GenLoadImm4(7)
	h.GenReturn(v)
	h.GenLabel(dead) // unreachable: nothing jumps here
	v2 := h.GenLoadImm4(9)
	h.GenReturn(v2)
	h.EndFunc()

	g := cfg.Build(h.Pieces().Body)
	before := len(g.Blocks())
	cfg.Simplify(g)
	after := len(g.Blocks())
	if after >= before {
		t.Fatalf("expected Simplify to drop the unreachable block, before=%d after=%d", before, after)
	}
	for _, b := range g.Blocks() {
		for _, n := range b.Next {
			if n >= len(g.Blocks()) {
				t.Fatalf("successor id %d out of range after remap (len=%d)", n, len(g.Blocks()))
			}
		}
	}
}

func TestLiveness_ParamDeadAfterReturn(t *testing.T) {
	h := trans.NewHelper()
	h.StartFunc(h.NewEntryLabel("main"))
	n := h.NewTempI4()
	h.MarkParameter(n)
	one := h.GenLoadImm4(1)
	sum := h.GenBinary(ir.OpAdd, n, one)
	h.GenReturn(sum)
	h.EndFunc()

	g := cfg.Build(h.Pieces().Body)
	cfg.Simplify(g)
	cfg.Liveness(g)

	entry := g.Block(g.Entry)
	if _, ok := entry.LiveIn[n]; !ok {
		t.Fatalf("expected param n live-in at block entry")
	}
	// after the ADD consumes n, n must not be live-out of the whole block.
	if _, ok := entry.LiveOut[n]; ok {
		t.Fatalf("expected n dead after its last use, got live-out")
	}
	if _, ok := entry.LiveOut[sum]; ok {
		t.Fatalf("expected sum dead after RETURN consumes it")
	}
}

func TestLiveness_LoopCarriedTempStaysLive(t *testing.T) {
	// while (i < 10) { i = i + 1; } return i;
	h := trans.NewHelper()
	h.StartFunc(h.NewEntryLabel("main"))
	i := h.GenLoadImm4(0)
	top := h.NewLabel()
	end := h.NewLabel()
	h.GenLabel(top)
	ten := h.GenLoadImm4(10)
	cond := h.GenBinary(ir.OpLes, i, ten)
	h.GenJZero(cond, end)
	one := h.GenLoadImm4(1)
	next := h.GenBinary(ir.OpAdd, i, one)
	i = h.GenAssign(i, next)
	h.GenJump(top)
	h.GenLabel(end)
	h.GenReturn(i)
	h.EndFunc()

	g := cfg.Build(h.Pieces().Body)
	cfg.Simplify(g)
	cfg.Liveness(g)

	loopHeader := -1
	for _, b := range g.Blocks() {
		if b.EntryLabel == top {
			loopHeader = b.ID
		}
	}
	if loopHeader < 0 {
		t.Fatalf("expected to find the loop header block")
	}
	if _, ok := g.Block(loopHeader).LiveIn[i]; !ok {
		t.Fatalf("expected i live-in at loop header (loop-carried across the back edge)")
	}
}
