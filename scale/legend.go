// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scale

import (
	"image/color"

	"github.com/aclements/go-moremath/vec"
)

// A Legend summarizes a scale for display. Labels always has one
// entry per legend row. Colors and Sizes are the visual values of
// each row for color and numeric scales respectively. For continuous
// scales, Values holds the domain value of each row; for bucketed
// scales it holds the bucket boundaries, which is one longer than
// Labels for Quantize scales and one shorter for Quantile scales.
type Legend struct {
	Labels []string
	Values []float64
	Colors []color.RGBA
	Sizes  []float64
}

func legendMax(max int) int {
	if max <= 0 {
		return 5
	}
	return max
}

// categories lists an ordinal scale's categories in range order.
func categories(idx map[string]int, max int) []string {
	cats := make([]string, len(idx))
	for cat, i := range idx {
		cats[i] = cat
	}
	if len(cats) == 0 {
		cats = []string{""}
	}
	if max = legendMax(max); len(cats) > max {
		cats = cats[:max]
	}
	return cats
}

// bucketLabels renders one label per bucket of a quantizer, plus the
// boundary values the labels were derived from.
func bucketLabels(q quantizer, n int) (labels []string, bounds []float64) {
	if len(q.thresholds) > 0 {
		// Quantile buckets: open-ended first and last.
		bounds = q.thresholds
		labels = append(labels, "< "+tickLabel(bounds[0]))
		for i := 1; i < len(bounds); i++ {
			labels = append(labels, tickLabel(bounds[i-1])+" - "+tickLabel(bounds[i]))
		}
		labels = append(labels, ">= "+tickLabel(bounds[len(bounds)-1]))
		return labels, bounds
	}
	if q.lo == q.hi || n <= 1 {
		return []string{tickLabel(q.lo)}, []float64{q.lo, q.hi}
	}
	bounds = vec.Linspace(q.lo, q.hi, n+1)
	for i := 0; i < n; i++ {
		labels = append(labels, tickLabel(bounds[i])+" - "+tickLabel(bounds[i+1]))
	}
	return labels, bounds
}
