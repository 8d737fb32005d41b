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

package riscv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mkpreference/minidecaf/frontend"
	"github.com/mkpreference/minidecaf/lower"
	"github.com/mkpreference/minidecaf/riscv"
)

func generate(t *testing.T, src string, opts ...riscv.Option) string {
	t.Helper()
	prog, err := frontend.Parse("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	h := lower.Program(prog)
	var buf bytes.Buffer
	if err := riscv.Generate(h.Pool(), h.Pieces(), &buf, opts...); err != nil {
		t.Fatalf("generate error: %v", err)
	}
	return buf.String()
}

func TestGenerate_ConstantReturn(t *testing.T) {
	out := generate(t, "int main() { return 42; }")
	for _, want := range []string{".globl main", "main:", "li", "ret"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestGenerate_GlobalDataSection(t *testing.T) {
	out := generate(t, "int g = 7;\nint main() { return g; }")
	if !strings.Contains(out, ".data") {
		t.Fatalf("expected a .data section, got:\n%s", out)
	}
	if !strings.Contains(out, ".word 7") {
		t.Fatalf("expected \".word 7\" global initializer, got:\n%s", out)
	}
}

func TestGenerate_CallSiteUsesCallInstruction(t *testing.T) {
	out := generate(t, `
		int fact(int n) {
			if (n <= 1) return 1;
			return n * fact(n - 1);
		}
		int main() { return fact(5); }`)
	if !strings.Contains(out, "call  _fact") {
		t.Fatalf("expected a \"call  _fact\" instruction, got:\n%s", out)
	}
	if !strings.Contains(out, ".globl _fact") {
		t.Fatalf("expected a \".globl _fact\" directive, got:\n%s", out)
	}
}

func TestGenerate_CommentsToggle(t *testing.T) {
	withComments := generate(t, "int main() { return 1 + 2; }", riscv.WithComments(true))
	if !strings.Contains(withComments, "#") {
		t.Fatalf("expected a \"#\" diagnostic comment with WithComments(true), got:\n%s", withComments)
	}

	withoutComments := generate(t, "int main() { return 1 + 2; }", riscv.WithComments(false))
	if strings.Contains(withoutComments, "#") {
		t.Fatalf("expected no \"#\" diagnostic comment with WithComments(false), got:\n%s", withoutComments)
	}

	bare := generate(t, "int main() { return 1 + 2; }")
	if strings.Contains(bare, "#") {
		t.Fatalf("expected comments off by default, got:\n%s", bare)
	}
}

func TestGenerate_WhileLoopBranches(t *testing.T) {
	out := generate(t, `
		int main() {
			int i = 0;
			while (i < 3) {
				i = i + 1;
			}
			return i;
		}`)
	for _, want := range []string{"beqz", "j     __LL"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
