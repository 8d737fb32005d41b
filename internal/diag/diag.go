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

// Package diag holds the backend's fatal-assertion machinery (spec.md §7).
// The core never recovers from a Bug: it is a programmer error, equivalent
// to a failed assertion, and is expected to abort the process. Recover only
// exists at the single outermost boundary (cmd/mindc) so the CLI can print a
// clean message instead of a raw Go panic trace.
package diag

import "github.com/pkg/errors"

// Bug marks an internal invariant violation: an unreachable TAC opcode, a
// malformed CFG successor, register-bank exhaustion with both avoid slots
// pinned, or similar. Bug is never returned as an error value; it is always
// panicked, mirroring the assertion-failure contract of spec.md §7.
type Bug struct {
	err error
}

func (b *Bug) Error() string { return b.err.Error() }

// Unwrap lets the standard library's errors.Is / errors.As see through Bug.
func (b *Bug) Unwrap() error { return b.err }

// Fail panics with a Bug built from a formatted message, wrapped with
// github.com/pkg/errors the way vm/core.go wraps panics caught by Run's
// recover.
func Fail(format string, args ...interface{}) {
	panic(&Bug{err: errors.Errorf(format, args...)})
}

// Recover turns a panicked *Bug into an error, for the single top-level
// recover site in cmd/mindc. Any other panic value is re-panicked: only Bug
// is a documented control-flow mechanism, not a general replacement for
// error returns.
func Recover(err *error) {
	if e := recover(); e != nil {
		b, ok := e.(*Bug)
		if !ok {
			panic(e)
		}
		*err = errors.WithStack(b)
	}
}
