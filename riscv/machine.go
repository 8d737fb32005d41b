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

// Package riscv turns a function's CFG and liveness sets into 32-bit RISC-V
// assembly text: the machine description (register bank), the stack frame
// manager, and the table-driven code generator (spec.md §4.F/§4.G/§4.H).
package riscv

import (
	"strconv"

	"github.com/mkpreference/minidecaf/internal/diag"
	"github.com/mkpreference/minidecaf/ir"
)

// Reg is a symbolic RISC-V register name.
type Reg string

// The register bank. Only the Temps and Tn registers ever enter allocation;
// the rest are fixed-purpose and are never selected (spec.md §3's register
// bank entry invariant).
const (
	RegZero Reg = "zero"
	RegRA   Reg = "ra"
	RegSP   Reg = "sp"
	RegGP   Reg = "gp"
	RegTP   Reg = "tp"
	RegFP   Reg = "fp"
)

var tempRegs = []Reg{"t0", "t1", "t2", "t3", "t4", "t5", "t6", "s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11"}

// RegA0 holds a call's return value and the function's own return value on
// the way out (spec.md §4.H). The full a0-a7 bank is not used for argument
// passing: the call-site protocol marshals arguments on the stack.
const RegA0 Reg = "a0"

type regEntry struct {
	name    Reg
	general bool // participates in allocation
	bound   *ir.Temp
	dirty   bool
}

// Machine holds the register bank for one function's codegen. It is reset at
// every block boundary (spec.md §4.H step 4: "for each block: reset the
// register bank").
type Machine struct {
	regs      []*regEntry
	byTemp    map[*ir.Temp]*regEntry
	rrCursor  int // round-robin cursor for selectRegToSpill tier (iii)
	frame     *Frame
	w         *Writer
}

// NewMachine creates a register bank with every temp-register/t0-t6/s1-s11
// general and every other register fixed-purpose.
func NewMachine(frame *Frame, w *Writer) *Machine {
	m := &Machine{byTemp: map[*ir.Temp]*regEntry{}, frame: frame, w: w}
	for _, r := range tempRegs {
		m.regs = append(m.regs, &regEntry{name: r, general: true})
	}
	return m
}

// Reset unbinds every register without spilling, for the start of a new
// block (spec.md §4.H step 4); liveness recomputation at block boundaries
// makes any carried binding stale.
func (m *Machine) Reset() {
	for _, r := range m.regs {
		r.bound = nil
		r.dirty = false
	}
	m.byTemp = map[*ir.Temp]*regEntry{}
}

// acquireFree finds a free register or makes one free by spilling, without
// binding it to any temporary. Used by the call-site protocol to reload a
// value from a call-save stack slot rather than from the temp's normal frame
// slot (codegen.go).
func (m *Machine) acquireFree(avoid1, avoid2 *regEntry, live map[*ir.Temp]struct{}) *regEntry {
	r := m.findFree()
	if r == nil {
		r = m.SelectRegToSpill(avoid1, avoid2, live)
		m.SpillReg(r, live)
	}
	return r
}

func (m *Machine) findFree() *regEntry {
	for _, r := range m.regs {
		if r.bound == nil {
			return r
		}
	}
	return nil
}

func isAvoided(r *regEntry, avoid1, avoid2 *regEntry) bool {
	return r == avoid1 || r == avoid2
}

// GetRegForRead implements spec.md §4.F getRegForRead.
func (m *Machine) GetRegForRead(t *ir.Temp, avoid *regEntry, live map[*ir.Temp]struct{}) *regEntry {
	if r, ok := m.byTemp[t]; ok {
		return r
	}
	r := m.findFree()
	if r == nil {
		victim := m.SelectRegToSpill(avoid, nil, live)
		m.SpillReg(victim, live)
		r = victim
	}
	m.bind(r, t)
	if t.IsOffsetFixed {
		m.w.Instr("lw", string(r.name), offset(t))
		m.w.Comment("load %s from (fp%d) into %s", t, t.Offset, r.name)
	} else {
		m.w.Instr("mv", string(r.name), string(RegZero))
		m.w.Comment("zero-init %s into %s", t, r.name)
	}
	r.dirty = false
	return r
}

// GetRegForWrite implements spec.md §4.F getRegForWrite. A nil temp, or one
// not present in live, means the write is dead: it returns nil, and the
// emitter skips the instruction.
func (m *Machine) GetRegForWrite(t *ir.Temp, avoid1, avoid2 *regEntry, live map[*ir.Temp]struct{}) *regEntry {
	if t == nil {
		return nil
	}
	if _, ok := live[t]; !ok {
		return nil
	}
	r, ok := m.byTemp[t]
	if !ok {
		r = m.findFree()
		if r == nil {
			r = m.SelectRegToSpill(avoid1, avoid2, live)
			m.SpillReg(r, live)
		}
		m.bind(r, t)
	}
	r.dirty = true
	return r
}

// bind associates t with r. Callers only ever pass an r that was just
// confirmed free (via findFree or SpillReg), so there is no prior binding to
// evict.
func (m *Machine) bind(r *regEntry, t *ir.Temp) {
	r.bound = t
	m.byTemp[t] = r
}

// SelectRegToSpill implements spec.md §4.F's three-tier policy.
func (m *Machine) SelectRegToSpill(avoid1, avoid2 *regEntry, live map[*ir.Temp]struct{}) *regEntry {
	eligible := make([]*regEntry, 0, len(m.regs))
	for _, r := range m.regs {
		if !isAvoided(r, avoid1, avoid2) {
			eligible = append(eligible, r)
		}
	}
	if len(eligible) == 0 {
		diag.Fail("riscv: register bank exhausted, no eligible register to spill")
	}
	// tier (i): not in live.
	for _, r := range eligible {
		if r.bound == nil {
			continue
		}
		if _, ok := live[r.bound]; !ok {
			return r
		}
	}
	// tier (ii): clean.
	for _, r := range eligible {
		if !r.dirty {
			return r
		}
	}
	// tier (iii): round-robin.
	for i := 0; i < len(eligible); i++ {
		idx := (m.rrCursor + i) % len(eligible)
		r := eligible[idx]
		m.rrCursor = (idx + 1) % len(eligible)
		return r
	}
	diag.Fail("riscv: register bank exhausted")
	return nil
}

// SpillReg implements spec.md §4.F spillReg.
func (m *Machine) SpillReg(r *regEntry, live map[*ir.Temp]struct{}) {
	if r.bound == nil {
		return
	}
	if r.dirty {
		if _, ok := live[r.bound]; ok {
			m.frame.Reserve(r.bound)
			m.w.Instr("sw", string(r.name), offset(r.bound))
			m.w.Comment("spill %s from %s to (fp%d)", r.bound, r.name, r.bound.Offset)
		}
	}
	delete(m.byTemp, r.bound)
	r.bound = nil
	r.dirty = false
}

// SpillDirtyRegs implements spec.md §4.F spillDirtyRegs. The code generator
// calls it at every block terminator. It is not called before a CALL:
// emitCall saves and reloads the live temporaries through its own call-save
// area and leaves the reloaded registers dirty.
func (m *Machine) SpillDirtyRegs(live map[*ir.Temp]struct{}) {
	for _, r := range m.regs {
		if r.bound == nil {
			continue
		}
		if r.dirty {
			if _, ok := live[r.bound]; ok {
				m.frame.Reserve(r.bound)
				m.w.Instr("sw", string(r.name), offset(r.bound))
				m.w.Comment("spill %s from %s to (fp%d)", r.bound, r.name, r.bound.Offset)
			}
		}
		delete(m.byTemp, r.bound)
		r.bound = nil
		r.dirty = false
	}
}

func offset(t *ir.Temp) string {
	return strconv.Itoa(t.Offset) + "(fp)"
}
