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

package cfg

import "github.com/mkpreference/minidecaf/ir"

// readTemps appends the Temp an operand reads, if any, to out.
func readTemps(o ir.Operand, out []*ir.Temp) []*ir.Temp {
	if o.Kind == ir.OperandTemp {
		out = append(out, o.Temp)
	}
	return out
}

// useDef returns the Temps an instruction reads (use) and the single Temp it
// writes (def, or nil), per spec.md §4.E / §3's operand-slot conventions.
func useDef(in *ir.Instr) (use []*ir.Temp, def *ir.Temp) {
	switch in.Op {
	case ir.OpLoadImm4, ir.OpLoadSymbol:
		def = in.Dst.Temp
	case ir.OpLoad:
		use = readTemps(in.Src1, use)
		def = in.Dst.Temp
	case ir.OpStore:
		use = readTemps(in.Dst, use)
		use = readTemps(in.Src2, use)
	case ir.OpAssign, ir.OpNeg, ir.OpBNot, ir.OpLNot:
		use = readTemps(in.Src1, use)
		def = in.Dst.Temp
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod,
		ir.OpEqu, ir.OpNeq, ir.OpLes, ir.OpLeq, ir.OpGtr, ir.OpGeq,
		ir.OpLAnd, ir.OpLOr:
		use = readTemps(in.Src1, use)
		use = readTemps(in.Src2, use)
		def = in.Dst.Temp
	case ir.OpJump, ir.OpLabel:
		// no operands read or written.
	case ir.OpJZero:
		use = readTemps(in.Dst, use)
	case ir.OpCall:
		def = in.Dst.Temp
	case ir.OpPush, ir.OpParam, ir.OpReturn:
		use = readTemps(in.Dst, use)
	case ir.OpPop:
		def = in.Dst.Temp
	case ir.OpMarkParameters:
		// the caller supplies the parameter's value: nothing is read or
		// written here, so a parameter is live on entry to the function.
	}
	return use, def
}

// computeUseDef fills in a block's LiveUse/LiveDef from its instruction
// body plus its terminator operand (spec.md §4.E: "LiveUse = temporaries
// read before being written in the block; LiveDef = temporaries written").
func computeUseDef(b *Block) {
	defined := map[*ir.Temp]struct{}{}
	for in := b.Body; in != nil; in = in.Next {
		use, def := useDef(in)
		for _, t := range use {
			if _, ok := defined[t]; !ok {
				b.LiveUse[t] = struct{}{}
			}
		}
		if def != nil {
			defined[def] = struct{}{}
			b.LiveDef[def] = struct{}{}
		}
	}
	switch b.EndKind {
	case ByJZero, ByReturn:
		if b.Var.Kind == ir.OperandTemp {
			t := b.Var.Temp
			if _, ok := defined[t]; !ok {
				b.LiveUse[t] = struct{}{}
			}
		}
	}
}

// Liveness runs the classical backward fixed-point dataflow (spec.md §4.E)
// over every block in g, then a per-instruction backward sweep that
// populates each Instr.LiveOut.
func Liveness(g *Graph) {
	for _, b := range g.blocks {
		computeUseDef(b)
	}

	order := reversePostorder(g)
	for changed := true; changed; {
		changed = false
		for _, id := range order {
			b := g.blocks[id]
			out := map[*ir.Temp]struct{}{}
			for _, s := range b.Next {
				if s < 0 {
					continue
				}
				for t := range g.blocks[s].LiveIn {
					out[t] = struct{}{}
				}
			}
			in := map[*ir.Temp]struct{}{}
			for t := range b.LiveUse {
				in[t] = struct{}{}
			}
			for t := range out {
				if _, isDef := b.LiveDef[t]; !isDef {
					in[t] = struct{}{}
				}
			}
			if !setEqual(out, b.LiveOut) || !setEqual(in, b.LiveIn) {
				changed = true
			}
			b.LiveOut = out
			b.LiveIn = in
		}
	}

	for _, b := range g.blocks {
		sweepInstrLiveOut(b)
	}
}

// sweepInstrLiveOut attaches a per-instruction LiveOut to every TAC
// instruction in b, sweeping backward from the block's LiveOut (spec.md
// §4.E).
func sweepInstrLiveOut(b *Block) {
	live := cloneSet(b.LiveOut)
	// the terminator is not in the TAC chain and has no LiveOut slot of its
	// own, but the operand it reads (JZERO's tested value, RETURN's value) is
	// live after the last body instruction.
	if (b.EndKind == ByJZero || b.EndKind == ByReturn) && b.Var.Kind == ir.OperandTemp {
		live[b.Var.Temp] = struct{}{}
	}
	// collect the block's body instructions into a slice for backward
	// iteration.
	var instrs []*ir.Instr
	for in := b.Body; in != nil; in = in.Next {
		instrs = append(instrs, in)
	}
	for i := len(instrs) - 1; i >= 0; i-- {
		in := instrs[i]
		in.LiveOut = cloneSet(live)
		use, def := useDef(in)
		if def != nil {
			delete(live, def)
		}
		for _, t := range use {
			live[t] = struct{}{}
		}
	}
}

func cloneSet(s map[*ir.Temp]struct{}) map[*ir.Temp]struct{} {
	c := make(map[*ir.Temp]struct{}, len(s))
	for t := range s {
		c[t] = struct{}{}
	}
	return c
}

func setEqual(a, b map[*ir.Temp]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for t := range a {
		if _, ok := b[t]; !ok {
			return false
		}
	}
	return true
}

// reversePostorder returns block ids in reverse-postorder from the entry
// block, the traversal order spec.md §4.E recommends for fast convergence.
func reversePostorder(g *Graph) []int {
	visited := make([]bool, len(g.blocks))
	var post []int
	var visit func(id int)
	visit = func(id int) {
		if id < 0 || visited[id] {
			return
		}
		visited[id] = true
		for _, n := range g.blocks[id].Next {
			visit(n)
		}
		post = append(post, id)
	}
	visit(g.Entry)
	// any block unreachable from entry (should not occur post-Simplify) is
	// still included so liveness never indexes an un-visited block.
	for id := range g.blocks {
		visit(id)
	}
	order := make([]int, len(post))
	for i, id := range post {
		order[len(post)-1-i] = id
	}
	return order
}
