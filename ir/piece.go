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

package ir

// PieceKind distinguishes the two top-level emission units.
type PieceKind int

const (
	PieceFunc PieceKind = iota
	PieceGlobal
)

// Piece is a top-level emission unit, linked in emission order via Next.
type Piece struct {
	Kind PieceKind
	Next *Piece

	// Func fields.
	Entry      *Label
	Body       *Instr // head of the TAC chain, nil for an empty body
	FrameBytes int    // filled in by the code generator, not the translator
	Params     []*Temp

	// Global fields.
	Name string
	Init int
}
