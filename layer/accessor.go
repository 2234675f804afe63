// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layer

import "github.com/aclements/go-cellbind/dataset"

// An Accessor resolves the cell identifier of a raw record. Distinct
// Accessor pointers stand for distinct bindings: the binder and the
// geometry cache compare Accessors by pointer identity to detect
// binding changes, so callers must obtain them from IDAccessor rather
// than constructing their own.
type Accessor struct {
	idx int
}

// Value returns the cell identifier of row, or nil if the accessor's
// field is unbound or out of range.
func (a *Accessor) Value(row dataset.Row) dataset.Value {
	if a == nil || a.idx < 0 || a.idx >= len(row) {
		return nil
	}
	return row[a.idx]
}

// IDAccessor returns the accessor for the layer's cell identifier
// column. The result is memoized on the bound field index: as long as
// the index is unchanged, IDAccessor returns the identical pointer,
// even if the rest of the column configuration was rebuilt. Rebinding
// the column to a different index yields a fresh pointer, which is
// what invalidates reuse in Bind.
func (l *Layer) IDAccessor() *Accessor {
	idx := l.Columns.CellID.Idx
	if l.lastAcc == nil || l.lastIdx != idx {
		l.lastAcc = &Accessor{idx: idx}
		l.lastIdx = idx
	}
	return l.lastAcc
}
