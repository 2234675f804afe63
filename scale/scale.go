// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scale builds visual channel scales.
//
// A channel scale maps raw field values through a configured domain
// onto a visual range: colors for a color channel, numbers for size
// or coverage channels. Scales never fail at mapping time. Degenerate
// configurations produce defined values instead of errors: a
// zero-width domain maps every value to the midpoint of a continuous
// range or to the first element of a discrete range, and values
// outside the domain clamp to the range ends.
package scale

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	mscale "github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
)

// A Kind identifies how raw field values are mapped onto a channel's
// range.
type Kind int

const (
	// Linear positions values proportionally within the domain
	// interval.
	Linear Kind = iota

	// Sqrt is like Linear with a square root transform, which
	// spreads out small values. Negative values transform
	// symmetrically to negative positions.
	Sqrt

	// Log is like Linear with a base-10 log transform. Domains
	// and values are clamped to positive numbers.
	Log

	// Quantize divides the domain interval into equal-width
	// buckets, one per range element.
	Quantize

	// Quantile divides a domain sample into equal-population
	// buckets, one per range element.
	Quantile

	// Ordinal assigns each domain category its own range element.
	Ordinal
)

var kindNames = []string{"linear", "sqrt", "log", "quantize", "quantile", "ordinal"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the Kind named by s.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if s == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown scale kind %q", s)
}

// Discrete reports whether k maps values to distinct range elements
// rather than interpolating between them.
func (k Kind) Discrete() bool {
	return k == Quantize || k == Quantile || k == Ordinal
}

// A continuum maps raw numeric values onto [0, 1] through a
// kind-specific transform and a linear scale over the transformed
// domain.
type continuum struct {
	kind Kind
	lin  mscale.Linear
}

func newContinuum(kind Kind, domain []float64) continuum {
	lo, hi := domainBounds(domain)
	c := continuum{kind: kind}
	lo, hi = c.fwd(lo), c.fwd(hi)
	c.lin = mscale.Linear{Min: lo, Max: hi}
	return c
}

// fwd maps a domain value into transform space.
func (c continuum) fwd(x float64) float64 {
	switch c.kind {
	case Sqrt:
		// Negative values transform symmetrically, like a
		// power scale with exponent 1/2.
		return math.Copysign(math.Sqrt(math.Abs(x)), x)
	case Log:
		if x <= 0 {
			x = logFloor
		}
		return math.Log10(x)
	}
	return x
}

// inv maps a transform-space position back to domain space.
func (c continuum) inv(t float64) float64 {
	switch c.kind {
	case Sqrt:
		return math.Copysign(t*t, t)
	case Log:
		return math.Pow(10, t)
	}
	return t
}

// pos maps x onto [0, 1]. A zero-width domain maps everything to the
// midpoint so that degenerate configurations still produce a defined
// visual value. Values outside the domain clamp to the ends.
func (c continuum) pos(x float64) float64 {
	x = c.fwd(x)
	if c.lin.Min == c.lin.Max {
		return 0.5
	}
	p := c.lin.Map(x)
	if math.IsNaN(p) {
		return 0.5
	}
	if p < 0 {
		return 0
	} else if p > 1 {
		return 1
	}
	return p
}

// ticks returns up to max rounded tick positions covering the domain,
// in domain space. A zero-width domain yields a single tick.
func (c continuum) ticks(max int) []float64 {
	if c.lin.Min == c.lin.Max {
		return []float64{c.inv(c.lin.Min)}
	}
	major, _ := c.lin.Ticks(mscale.TickOptions{Max: max})
	if c.kind == Linear {
		return major
	}
	out := make([]float64, len(major))
	for i, t := range major {
		out[i] = c.inv(t)
	}
	return out
}

// logFloor stands in for non-positive values on log scales, which
// have no log-space image.
const logFloor = 1e-9

// domainBounds extracts the endpoints of a configured domain,
// defaulting to [0, 1] when the domain is absent and reordering
// reversed endpoints.
func domainBounds(domain []float64) (lo, hi float64) {
	lo, hi = 0, 1
	if len(domain) > 0 {
		lo = domain[0]
		hi = domain[len(domain)-1]
	}
	if math.IsNaN(lo) || math.IsInf(lo, 0) {
		lo = 0
	}
	if math.IsNaN(hi) || math.IsInf(hi, 0) {
		hi = lo
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return
}

// A quantizer buckets numeric values for the discrete numeric scale
// kinds. Quantize sets lo and hi; Quantile sets thresholds.
type quantizer struct {
	lo, hi     float64
	thresholds []float64
}

func newQuantizer(kind Kind, domain []float64, n int) quantizer {
	if kind == Quantile {
		return quantizer{thresholds: quantiles(domain, n)}
	}
	lo, hi := domainBounds(domain)
	return quantizer{lo: lo, hi: hi}
}

// level buckets a value into one of n discrete levels for Quantize
// and Quantile scales. A degenerate configuration yields level 0 so
// discrete scales fall back to their first range element.
func (q quantizer) level(x float64, n int) int {
	if n <= 1 {
		return 0
	}
	if len(q.thresholds) > 0 {
		// Equal-population buckets. Ties at a threshold fall in
		// the lower bucket.
		i := sort.SearchFloat64s(q.thresholds, x)
		if i >= n {
			i = n - 1
		}
		return i
	}
	if q.lo == q.hi {
		return 0
	}
	// Equal-width buckets, following the usual binning of a
	// normalized position.
	level := int((x - q.lo) / (q.hi - q.lo) * float64(n))
	if level < 0 {
		level = 0
	} else if level >= n {
		level = n - 1
	}
	return level
}

// quantiles returns the n-1 thresholds that divide sample into n
// equal-population buckets. An empty sample yields no thresholds, so
// everything falls in bucket 0.
func quantiles(sample []float64, n int) []float64 {
	var xs []float64
	for _, x := range sample {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		xs = append(xs, x)
	}
	if len(xs) == 0 || n <= 1 {
		return nil
	}
	sort.Float64s(xs)
	s := stats.Sample{Xs: xs}
	ts := make([]float64, n-1)
	for i := range ts {
		ts[i] = s.Quantile(float64(i+1) / float64(n))
	}
	return ts
}

// toFloat coerces a raw field value to a finite float64. Numeric
// strings coerce like numbers do, matching the lenient treatment of
// columns that typed ingestion left as strings.
func toFloat(v interface{}) (float64, bool) {
	var x float64
	switch v := v.(type) {
	case float64:
		x = v
	case float32:
		x = float64(v)
	case int:
		x = float64(v)
	case int64:
		x = float64(v)
	case uint64:
		x = float64(v)
	case bool:
		if v {
			x = 1
		}
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		x = f
	default:
		return 0, false
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

// Category converts a raw field value to its ordinal category key.
// Strings are their own key; other values use their printed form, so
// a category list configured as strings matches numeric columns too.
func Category(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// index builds the category lookup for an Ordinal scale. Duplicate
// categories collapse onto their first occurrence, so assigned
// indices stay dense. A nil categories list yields a nil map, which
// maps everything to the first range element.
func index(categories []string) map[string]int {
	if len(categories) == 0 {
		return nil
	}
	m := make(map[string]int, len(categories))
	for _, c := range categories {
		if _, ok := m[c]; !ok {
			m[c] = len(m)
		}
	}
	return m
}

// tickLabel formats a tick value for a legend.
func tickLabel(x float64) string {
	return fmt.Sprintf("%.6g", x)
}
