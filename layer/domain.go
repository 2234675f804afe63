// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layer

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/aclements/go-cellbind/dataset"
	"github.com/aclements/go-cellbind/scale"
)

// ChannelDomain computes a channel's domain from the data it will
// encode, for configurations that don't fix the domain explicitly.
// filtered selects the rows to consider; nil means all rows.
//
// For Ordinal scales the result is the sorted unique category keys
// and a nil numeric domain. For Quantile scales it is the full sample
// of finite values, which the scale needs to place its thresholds.
// For all other kinds it is the [min, max] extent of the finite
// values. Rows with no numeric interpretation are skipped; if nothing
// remains, both results are nil and the scale falls back to its
// default domain.
func ChannelDomain(d *dataset.Dataset, filtered []int, f dataset.Field, kind scale.Kind) (domain []float64, categories []string) {
	if kind == scale.Ordinal {
		seen := make(map[string]bool)
		each(d, filtered, func(row dataset.Row) {
			v := fieldValue(row, f.Idx)
			if v == nil {
				return
			}
			key := scale.Category(v)
			if !seen[key] {
				seen[key] = true
				categories = append(categories, key)
			}
		})
		sort.Strings(categories)
		return nil, categories
	}

	var xs []float64
	each(d, filtered, func(row dataset.Row) {
		x, ok := dataset.Float(fieldValue(row, f.Idx))
		if !ok || math.IsNaN(x) || math.IsInf(x, 0) {
			return
		}
		xs = append(xs, x)
	})
	if len(xs) == 0 {
		return nil, nil
	}
	if kind == scale.Quantile {
		return xs, nil
	}
	lo, hi := stats.Bounds(xs)
	return []float64{lo, hi}, nil
}

// each visits the selected rows of d in order.
func each(d *dataset.Dataset, filtered []int, fn func(dataset.Row)) {
	if filtered == nil {
		for _, row := range d.Rows {
			fn(row)
		}
		return
	}
	for _, ri := range filtered {
		if ri < 0 || ri >= len(d.Rows) {
			continue
		}
		fn(d.Rows[ri])
	}
}
