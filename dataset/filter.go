// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

// Select returns the indices of the rows of d for which every
// predicate returns true, in row order. With no predicates it selects
// every row. The result indexes d.Rows, so it remains meaningful as
// long as d's rows are not reordered.
func Select(d *Dataset, preds ...func(Row) bool) []int {
	idxs := make([]int, 0, len(d.Rows))
rows:
	for i, row := range d.Rows {
		for _, pred := range preds {
			if !pred(row) {
				continue rows
			}
		}
		idxs = append(idxs, i)
	}
	return idxs
}

// InRange returns a predicate that keeps rows whose field f coerces
// to a number in [min, max]. Rows with no numeric interpretation of f
// are dropped.
func InRange(f Field, min, max float64) func(Row) bool {
	return func(row Row) bool {
		v, ok := Float(cell(row, f.Idx))
		return ok && min <= v && v <= max
	}
}

// NonNil returns a predicate that keeps rows whose field f is
// present.
func NonNil(f Field) func(Row) bool {
	return func(row Row) bool {
		return cell(row, f.Idx) != nil
	}
}
