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

package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/mkpreference/minidecaf/cfg"
	"github.com/mkpreference/minidecaf/ir"
)

// dumpTAC implements the "-S" stage selector (spec.md §6): one line per
// instruction, grouped per Piece, in a flat text dump.
func dumpTAC(w io.Writer, pieces *ir.Piece) error {
	for p := pieces; p != nil; p = p.Next {
		switch p.Kind {
		case ir.PieceGlobal:
			if _, err := fmt.Fprintf(w, "GLOBAL %s = %d\n", p.Name, p.Init); err != nil {
				return err
			}
		case ir.PieceFunc:
			if _, err := fmt.Fprintf(w, "FUNC %s:\n", p.Entry.Name); err != nil {
				return err
			}
			for in := p.Body; in != nil; in = in.Next {
				if _, err := fmt.Fprintf(w, "  %s\n", in); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// dumpCFG implements the "-cfg" stage selector (spec.md §6): basic blocks
// and their liveness sets, one function at a time.
func dumpCFG(w io.Writer, pieces *ir.Piece) error {
	for p := pieces; p != nil; p = p.Next {
		if p.Kind != ir.PieceFunc {
			continue
		}
		if _, err := fmt.Fprintf(w, "FUNC %s:\n", p.Entry.Name); err != nil {
			return err
		}
		g := cfg.Build(p.Body)
		cfg.Simplify(g)
		cfg.Liveness(g)
		for _, b := range g.Blocks() {
			if err := dumpBlock(w, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func dumpBlock(w io.Writer, b *cfg.Block) error {
	if _, err := fmt.Fprintf(w, "  block %d (entry=%v, end=%v, next=%v):\n", b.ID, b.EntryLabel, b.EndKind, b.Next); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "    LiveIn=%s LiveOut=%s\n", tempSetString(b.LiveIn), tempSetString(b.LiveOut)); err != nil {
		return err
	}
	for in := b.Body; in != nil; in = in.Next {
		if _, err := fmt.Fprintf(w, "    %-32s LiveOut=%s\n", in.String(), tempSetString(in.LiveOut)); err != nil {
			return err
		}
	}
	return nil
}

func tempSetString(set map[*ir.Temp]struct{}) string {
	temps := make([]*ir.Temp, 0, len(set))
	for t := range set {
		temps = append(temps, t)
	}
	sort.Slice(temps, func(i, j int) bool { return temps[i].ID() < temps[j].ID() })
	s := "{"
	for i, t := range temps {
		if i > 0 {
			s += " "
		}
		s += t.String()
	}
	return s + "}"
}
