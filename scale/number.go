// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scale

// A Number maps raw field values to numbers from a configured range,
// for channels like elevation and coverage.
//
// Continuous kinds interpolate between the range endpoints; discrete
// kinds pick range elements. The zero value is not meaningful; use
// NewNumber or NewOrdinalNumber.
type Number struct {
	kind  Kind
	cont  continuum
	quant quantizer
	idx   map[string]int
	rng   []float64
}

// NewNumber returns a scale mapping numeric values in domain onto
// rng. For continuous kinds only the range endpoints matter, and they
// may be inverted to map increasing values downward. For Quantile
// scales the domain is the full value sample. An empty range yields
// nil, which callers treat as an inactive scale.
func NewNumber(kind Kind, domain, rng []float64) *Number {
	if len(rng) == 0 {
		return nil
	}
	n := &Number{kind: kind, rng: rng}
	if kind.Discrete() {
		n.quant = newQuantizer(kind, domain, len(rng))
	} else {
		n.cont = newContinuum(kind, domain)
	}
	return n
}

// NewOrdinalNumber returns a scale assigning each category its own
// element of rng, in order. Categories beyond the range wrap around.
func NewOrdinalNumber(categories []string, rng []float64) *Number {
	if len(rng) == 0 {
		return nil
	}
	return &Number{kind: Ordinal, idx: index(categories), rng: rng}
}

// Map returns the number for raw field value v. It reports false when
// v has no interpretation under the scale; callers fall back to their
// channel default.
func (n *Number) Map(v interface{}) (float64, bool) {
	switch n.kind {
	case Ordinal:
		if v == nil {
			return 0, false
		}
		i, ok := n.idx[Category(v)]
		if !ok && n.idx != nil {
			return 0, false
		}
		return n.rng[i%len(n.rng)], true
	case Quantize, Quantile:
		x, ok := toFloat(v)
		if !ok {
			return 0, false
		}
		return n.rng[n.quant.level(x, len(n.rng))], true
	}
	x, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	lo, hi := n.rng[0], n.rng[len(n.rng)-1]
	return lo + n.cont.pos(x)*(hi-lo), true
}

// Legend returns at most max entries summarizing the scale.
func (n *Number) Legend(max int) Legend {
	var l Legend
	switch n.kind {
	case Ordinal:
		l.Labels = categories(n.idx, max)
		for i := range l.Labels {
			l.Sizes = append(l.Sizes, n.rng[i%len(n.rng)])
		}
	case Quantize, Quantile:
		l.Labels, l.Values = bucketLabels(n.quant, len(n.rng))
		for i := range l.Labels {
			l.Sizes = append(l.Sizes, n.rng[i%len(n.rng)])
		}
	default:
		for _, t := range n.cont.ticks(legendMax(max)) {
			s, _ := n.Map(t)
			l.Labels = append(l.Labels, tickLabel(t))
			l.Values = append(l.Values, t)
			l.Sizes = append(l.Sizes, s)
		}
	}
	return l
}
