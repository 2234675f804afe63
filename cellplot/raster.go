// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sort"

	"golang.org/x/image/draw"

	"github.com/aclements/go-cellbind/layer"
)

// oversample is the supersampling factor for PNG output. Cells are
// rasterized with hard edges at oversample times the output size and
// scaled down to approximate antialiasing.
const oversample = 3

// writePNG renders the bound frame as a PNG map.
func writePNG(w io.Writer, f *layer.Frame, opts *render, sr *StatusReporter) error {
	shapes := frameShapes(f)
	width, height := opts.Width*oversample, opts.Height*oversample
	vp := fitViewport(shapes, width, height, renderMargin*oversample)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{backgroundRGBA}, image.Point{}, draw.Src)
	for i, sh := range shapes {
		poly := make([]point, len(sh.poly))
		for j, p := range sh.poly {
			poly[j] = vp.pt(p)
		}
		fillPoly(img, poly, sh.fill)
		if i%1024 == 0 {
			sr.Progress("rasterizing", float64(i)/float64(len(shapes)))
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return png.Encode(w, dst)
}

var backgroundRGBA = color.RGBA{0x10, 0x16, 0x1d, 0xff}

// fillPoly rasterizes a closed polygon into img using even-odd
// scanline filling.
func fillPoly(img *image.RGBA, poly []point, c color.RGBA) {
	if len(poly) < 3 {
		return
	}
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range poly {
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	b := img.Bounds()
	y0 := int(math.Max(math.Floor(minY), float64(b.Min.Y)))
	y1 := int(math.Min(math.Ceil(maxY), float64(b.Max.Y)))

	var xs []float64
	for y := y0; y < y1; y++ {
		yc := float64(y) + 0.5
		xs = xs[:0]
		for i, a := range poly {
			e := poly[(i+1)%len(poly)]
			if (a.Y > yc) == (e.Y > yc) {
				continue
			}
			xs = append(xs, a.X+(yc-a.Y)*(e.X-a.X)/(e.Y-a.Y))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Max(math.Ceil(xs[i]-0.5), float64(b.Min.X)))
			x1 := int(math.Min(math.Ceil(xs[i+1]-0.5), float64(b.Max.X)))
			for x := x0; x < x1; x++ {
				setOver(img, x, y, c)
			}
		}
	}
}

// setOver draws premultiplied color c over the pixel at (x, y).
func setOver(img *image.RGBA, x, y int, c color.RGBA) {
	if c.A == 0xff {
		img.SetRGBA(x, y, c)
		return
	}
	d := img.RGBAAt(x, y)
	a := 0xff - uint32(c.A)
	img.SetRGBA(x, y, color.RGBA{
		uint8(uint32(c.R) + uint32(d.R)*a/0xff),
		uint8(uint32(c.G) + uint32(d.G)*a/0xff),
		uint8(uint32(c.B) + uint32(d.B)*a/0xff),
		uint8(uint32(c.A) + uint32(d.A)*a/0xff),
	})
}
