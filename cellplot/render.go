// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/aclements/go-cellbind/layer"
	"github.com/aclements/go-cellbind/s2geom"
	svg "github.com/ajstarks/svgo"
	"github.com/kballard/go-shellquote"
)

// A render holds the output geometry and labels shared by the SVG and
// PNG writers.
type render struct {
	Width, Height int
	ColorTitle    string
	SizeTitle     string
}

const (
	renderMargin = 20
	background   = "#10161d"
)

type point struct {
	X, Y float64
}

// A cellShape is one bound record projected to a fillable polygon.
type cellShape struct {
	poly []point
	fill color.RGBA
	elev float64
}

// mercator projects a longitude/latitude pair to the Web Mercator
// unit square, with y growing southward to match screen coordinates.
func mercator(ll layer.LngLat) point {
	const maxLat = 85.05112878
	x := (ll.Lng() + 180) / 360
	lat := math.Max(-maxLat, math.Min(maxLat, ll.Lat()))
	s := math.Sin(lat * math.Pi / 180)
	y := 0.5 - math.Log((1+s)/(1-s))/(4*math.Pi)
	return point{x, y}
}

// frameShapes projects every bound record to a polygon with its
// encoded fill. Records that encode to a fully transparent color are
// dropped. Shapes are ordered by encoded elevation so taller cells
// paint last.
func frameShapes(f *layer.Frame) []cellShape {
	shapes := make([]cellShape, 0, len(f.Data))
	for _, p := range f.Data {
		fill := f.Color(p)
		if fill.A == 0 {
			continue
		}
		id, ok := s2geom.CellID(p.ID)
		if !ok {
			continue
		}
		outline := s2geom.CellOutline(id)
		cov := f.Coverage(p)
		poly := make([]point, len(outline))
		for i, v := range outline {
			// Shrink the cell toward its centroid by the
			// encoded coverage.
			v[0] = p.Centroid.Lng() + cov*(v.Lng()-p.Centroid.Lng())
			v[1] = p.Centroid.Lat() + cov*(v.Lat()-p.Centroid.Lat())
			poly[i] = mercator(v)
		}
		shapes = append(shapes, cellShape{poly, fill, f.Elevation(p)})
	}
	sort.SliceStable(shapes, func(i, j int) bool {
		return shapes[i].elev < shapes[j].elev
	})
	return shapes
}

// A viewport maps Mercator unit coordinates to pixels.
type viewport struct {
	scale  float64
	dx, dy float64
}

// fitViewport fits the bounding box of shapes into a width by height
// pixel canvas with the given margin, preserving aspect ratio.
func fitViewport(shapes []cellShape, width, height, margin int) viewport {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, sh := range shapes {
		for _, p := range sh.poly {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if minX > maxX {
		return viewport{scale: 1}
	}
	iw, ih := float64(width-2*margin), float64(height-2*margin)
	scale := math.Inf(1)
	if w := maxX - minX; w > 0 {
		scale = iw / w
	}
	if h := maxY - minY; h > 0 {
		scale = math.Min(scale, ih/h)
	}
	if math.IsInf(scale, 1) {
		// Degenerate extent, such as a single point.
		scale = 1
	}
	return viewport{
		scale: scale,
		dx:    float64(margin) + (iw-scale*(maxX-minX))/2 - scale*minX,
		dy:    float64(margin) + (ih-scale*(maxY-minY))/2 - scale*minY,
	}
}

func (v viewport) pt(p point) point {
	return point{p.X*v.scale + v.dx, p.Y*v.scale + v.dy}
}

// writeSVG renders the bound frame as an SVG map with a color legend.
func writeSVG(w io.Writer, f *layer.Frame, opts *render) {
	shapes := frameShapes(f)
	vp := fitViewport(shapes, opts.Width, opts.Height, renderMargin)

	s := svg.New(w)
	s.Start(opts.Width, opts.Height)
	fmt.Fprintf(w, "<!-- %s -->\n", shellquote.Join(os.Args...))
	s.Rect(0, 0, opts.Width, opts.Height, "fill:"+background)

	s.Group()
	for _, sh := range shapes {
		s.Path(polyPath(sh.poly, vp), cssFill(sh.fill)+";stroke:none")
	}
	s.Gend()

	drawLegend(s, f, opts)
	s.End()
}

// polyPath builds an SVG path string for a closed polygon in viewport
// coordinates.
func polyPath(poly []point, vp viewport) string {
	var path []byte
	for i, p := range poly {
		if i == 0 {
			path = append(path, 'M')
		} else {
			path = append(path, 'L')
		}
		p = vp.pt(p)
		path = strconv.AppendFloat(path, p.X, 'g', 6, 64)
		path = append(path, ' ')
		path = strconv.AppendFloat(path, p.Y, 'g', 6, 64)
	}
	path = append(path, 'Z')
	return string(path)
}

// cssFill returns the CSS fill properties for c. SVG 1.1 has no
// rgba() colors, so partial alpha becomes a separate fill-opacity
// property.
func cssFill(c color.RGBA) string {
	if c.A == 0 {
		return "fill:none"
	}
	css := "fill:" + hexColor(c)
	if c.A != 255 {
		css += fmt.Sprintf(";fill-opacity:%.3g", float64(c.A)/255)
	}
	return css
}

// hexColor formats the color channels of c as a CSS hex color,
// un-premultiplying if c has partial alpha.
func hexColor(c color.RGBA) string {
	r, g, b := int(c.R), int(c.G), int(c.B)
	if c.A != 255 && c.A != 0 {
		r = r * 255 / int(c.A)
		g = g * 255 / int(c.A)
		b = b * 255 / int(c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// drawLegend draws the color legend panel, if the frame has an
// active color scale.
func drawLegend(s *svg.SVG, f *layer.Frame, opts *render) {
	cs := f.ColorScale()
	if cs == nil || opts.ColorTitle == "" {
		return
	}
	l := cs.Legend(6)
	if len(l.Labels) == 0 {
		return
	}

	const (
		pad    = 8
		swatch = 12
		step   = 18
	)
	wlabel := len(opts.ColorTitle)
	for _, label := range l.Labels {
		if len(label) > wlabel {
			wlabel = len(label)
		}
	}
	// Crude em-width estimate; SVG text can't be measured here.
	width := pad*2 + swatch + 6 + wlabel*7
	height := pad*2 + step*(len(l.Labels)+1)
	x := opts.Width - renderMargin - width
	y := renderMargin

	s.Group("font-family:sans-serif;font-size:11px")
	s.Rect(x, y, width, height, "fill:#ffffff;fill-opacity:0.9")
	s.Text(x+pad, y+pad+10, opts.ColorTitle, "font-weight:bold;fill:#222222")
	for i, label := range l.Labels {
		ey := y + pad + step*(i+1)
		s.Rect(x+pad, ey, swatch, swatch, cssFill(l.Colors[i]))
		s.Text(x+pad+swatch+6, ey+10, label, "fill:#222222")
	}
	s.Gend()
}
