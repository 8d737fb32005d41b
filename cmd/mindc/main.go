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

// Command mindc compiles a single Mind source file to 32-bit RISC-V
// assembly (spec.md §6). Its flag surface mirrors cmd/retro's: a plain
// flag.FlagSet, an atExit error reporter gated by -debug, no subcommands.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/mkpreference/minidecaf/cfg"
	"github.com/mkpreference/minidecaf/frontend"
	"github.com/mkpreference/minidecaf/internal/diag"
	"github.com/mkpreference/minidecaf/lower"
	"github.com/mkpreference/minidecaf/riscv"
	"github.com/pkg/errors"
)

var (
	stopAtTAC bool
	stopAtCFG bool
	optimize  bool
	debug     bool
	outName   string
)

func atExit(err error) {
	if err == nil {
		return
	}
	if debug {
		fmt.Fprintf(os.Stderr, "\n%+v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "\n%v\n", err)
	}
	os.Exit(1)
}

func main() {
	var err error
	defer func() { atExit(err) }()

	flag.BoolVar(&stopAtTAC, "S", false, "stop after TAC generation and dump it")
	flag.BoolVar(&stopAtCFG, "cfg", false, "stop after flow-graph/liveness and dump it")
	flag.BoolVar(&optimize, "O", false, "suppress TAC and allocator comments")
	flag.StringVar(&outName, "o", "", "output `filename` (default stdout)")
	flag.BoolVar(&debug, "debug", false, "print a verbose error chain on fatal exit")
	flag.Parse()

	if flag.NArg() != 1 {
		err = errors.Errorf("usage: mindc [flags] <source.mind>")
		return
	}
	srcName := flag.Arg(0)

	src, ferr := os.Open(srcName)
	if ferr != nil {
		err = errors.Wrap(ferr, "mindc")
		return
	}
	defer src.Close()

	out := os.Stdout
	if outName != "" {
		f, ferr := os.Create(outName)
		if ferr != nil {
			err = errors.Wrap(ferr, "mindc")
			return
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	defer w.Flush()

	err = compile(srcName, src, w)
}

// compile runs the full pipeline: parse, lower, then either dump an
// intermediate stage (-S/-cfg) or emit assembly.
func compile(srcName string, src *os.File, w *bufio.Writer) (err error) {
	defer diag.Recover(&err)

	prog, perr := frontend.Parse(srcName, src)
	if perr != nil {
		return errors.Wrap(perr, "mindc")
	}

	helper := lower.Program(prog)
	pieces := helper.Pieces()

	switch {
	case stopAtTAC:
		return dumpTAC(w, pieces)
	case stopAtCFG:
		return dumpCFG(w, pieces)
	default:
		return riscv.Generate(helper.Pool(), pieces, w, riscv.WithComments(!optimize))
	}
}

// peephole is a no-op hook over a function's flow graph. Nothing calls it:
// "-O" only turns off the assembly comments.
func peephole(g *cfg.Graph) {}
