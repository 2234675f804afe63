// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scale

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/aclements/go-gg/palette"
	"golang.org/x/image/colornames"
)

// A Color maps raw field values to colors from a configured range.
//
// Continuous kinds interpolate along the range as a gradient;
// discrete kinds pick range elements. The zero value is not
// meaningful; use NewColor or NewOrdinalColor.
type Color struct {
	kind  Kind
	cont  continuum
	quant quantizer
	idx   map[string]int
	rng   []color.RGBA
	grad  palette.RGBGradient
}

// NewColor returns a scale mapping numeric values in domain to colors
// interpolated from rng. For Quantile scales the domain is the full
// value sample; for other kinds only its endpoints matter. An empty
// range yields nil, which callers treat as an inactive scale.
func NewColor(kind Kind, domain []float64, rng []color.RGBA) *Color {
	if len(rng) == 0 {
		return nil
	}
	c := &Color{kind: kind, rng: rng}
	if kind.Discrete() {
		c.quant = newQuantizer(kind, domain, len(rng))
	} else {
		c.cont = newContinuum(kind, domain)
		c.grad = palette.RGBGradient{Colors: rng}
	}
	return c
}

// NewOrdinalColor returns a scale assigning each category its own
// color from rng, in order. Categories beyond the range wrap around.
func NewOrdinalColor(categories []string, rng []color.RGBA) *Color {
	if len(rng) == 0 {
		return nil
	}
	return &Color{kind: Ordinal, idx: index(categories), rng: rng}
}

// Map returns the color for raw field value v. It reports false when
// v has no interpretation under the scale, such as a non-numeric
// value on a numeric scale; callers fall back to their channel
// default.
func (c *Color) Map(v interface{}) (color.RGBA, bool) {
	switch c.kind {
	case Ordinal:
		if v == nil {
			return color.RGBA{}, false
		}
		i, ok := c.idx[Category(v)]
		if !ok && c.idx != nil {
			return color.RGBA{}, false
		}
		return c.rng[i%len(c.rng)], true
	case Quantize, Quantile:
		x, ok := toFloat(v)
		if !ok {
			return color.RGBA{}, false
		}
		return c.rng[c.quant.level(x, len(c.rng))], true
	}
	x, ok := toFloat(v)
	if !ok {
		return color.RGBA{}, false
	}
	return toRGBA(c.grad.Map(c.cont.pos(x))), true
}

// Legend returns at most max entries summarizing the scale: swatches
// with the domain values or categories they stand for.
func (c *Color) Legend(max int) Legend {
	var l Legend
	switch c.kind {
	case Ordinal:
		l.Labels = categories(c.idx, max)
		for i := range l.Labels {
			l.Colors = append(l.Colors, c.rng[i%len(c.rng)])
		}
	case Quantize, Quantile:
		l.Labels, l.Values = bucketLabels(c.quant, len(c.rng))
		for i := range l.Labels {
			l.Colors = append(l.Colors, c.rng[i%len(c.rng)])
		}
	default:
		for _, t := range c.cont.ticks(legendMax(max)) {
			col, _ := c.Map(t)
			l.Labels = append(l.Labels, tickLabel(t))
			l.Values = append(l.Values, t)
			l.Colors = append(l.Colors, col)
		}
	}
	return l
}

// toRGBA converts any color to 8-bit RGBA.
func toRGBA(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// ParseColor converts a "#rrggbb" or "#rgb" hex literal or an SVG 1.1
// color name like "steelblue" to an RGBA color.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s)
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

func parseHexColor(s string) (color.RGBA, error) {
	hex := func(b byte) (uint8, bool) {
		switch {
		case '0' <= b && b <= '9':
			return b - '0', true
		case 'a' <= b && b <= 'f':
			return b - 'a' + 10, true
		case 'A' <= b && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}
	c := color.RGBA{A: 0xff}
	switch len(s) {
	case 7:
		for i, p := range []*uint8{&c.R, &c.G, &c.B} {
			hi, ok1 := hex(s[1+2*i])
			lo, ok2 := hex(s[2+2*i])
			if !ok1 || !ok2 {
				return color.RGBA{}, fmt.Errorf("bad hex color %q", s)
			}
			*p = hi<<4 | lo
		}
	case 4:
		for i, p := range []*uint8{&c.R, &c.G, &c.B} {
			v, ok := hex(s[1+i])
			if !ok {
				return color.RGBA{}, fmt.Errorf("bad hex color %q", s)
			}
			*p = v<<4 | v
		}
	default:
		return color.RGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	return c, nil
}

// ParseColors converts a comma-separated list of colors accepted by
// ParseColor, or a range name accepted by NamedRange, to a color
// range.
func ParseColors(s string) ([]color.RGBA, error) {
	if rng, ok := NamedRange(s, 6); ok {
		return rng, nil
	}
	var out []color.RGBA
	for _, part := range strings.Split(s, ",") {
		c, err := ParseColor(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// DefaultColors is the default color range: a dark-to-warm sequential
// ramp suited to dark map backgrounds.
var DefaultColors = []color.RGBA{
	{0x5a, 0x18, 0x46, 0xff},
	{0x90, 0x0c, 0x3f, 0xff},
	{0xc7, 0x00, 0x39, 0xff},
	{0xe3, 0x61, 0x1c, 0xff},
	{0xf1, 0x92, 0x0e, 0xff},
	{0xff, 0xc3, 0x00, 0xff},
}

// NamedRange returns the n-color version of a named color range.
func NamedRange(name string, n int) ([]color.RGBA, bool) {
	if n <= 0 {
		n = 6
	}
	switch strings.ToLower(name) {
	case "default":
		return DefaultColors, true
	case "viridis":
		out := make([]color.RGBA, n)
		div := n - 1
		if div < 1 {
			div = 1
		}
		for i := range out {
			out[i] = toRGBA(palette.Viridis.Map(float64(i) / float64(div)))
		}
		return out, true
	}
	return nil, false
}
