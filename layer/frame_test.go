// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layer

import (
	"image/color"
	"testing"

	"github.com/aclements/go-cellbind/dataset"
	"github.com/aclements/go-cellbind/scale"
)

var ramp = []color.RGBA{
	{0x00, 0x00, 0x00, 0xff},
	{0x55, 0x55, 0x55, 0xff},
	{0xaa, 0xaa, 0xaa, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}

// frameData has a row with a missing metric to exercise null
// handling.
func frameData() *dataset.Dataset {
	return dataset.New([]string{"cell", "val", "cat"}, []dataset.Row{
		{"t0", 10, "x"},
		{"t1", 20, "y"},
		{"t2", nil, "x"},
	})
}

func frameLayer(d *dataset.Dataset) *Layer {
	l := New()
	l.Columns.CellID = d.MustField("cell")
	l.Geometry = &fakeGeom{
		centroids: map[int]LngLat{0: {0, 0}, 1: {1, 1}, 2: {2, 2}},
	}
	return l
}

func TestResolverFallbacks(t *testing.T) {
	d := frameData()
	l := frameLayer(d)
	l.StaticColor = color.RGBA{9, 9, 9, 0xff}

	// No channel fields bound: every record resolves to the
	// defaults.
	f := l.Bind(d, []int{0, 1, 2}, nil, BindOptions{})
	for _, p := range f.Data {
		if got := f.Color(p); got != l.StaticColor {
			t.Errorf("Color(%d): got %v, want static color", p.Index, got)
		}
		if got := f.Elevation(p); got != 0 {
			t.Errorf("Elevation(%d): got %v, want 0", p.Index, got)
		}
		if got := f.Coverage(p); got != 1 {
			t.Errorf("Coverage(%d): got %v, want 1", p.Index, got)
		}
	}
	if f.ColorScale() != nil || f.SizeScale() != nil {
		t.Errorf("unbound channels: want nil scales")
	}
}

func TestResolverColor(t *testing.T) {
	d := frameData()
	l := frameLayer(d)
	val := d.MustField("val")
	l.Color = ColorChannel{
		Field:  &val,
		Scale:  scale.Quantize,
		Domain: []float64{10, 30},
		Range:  ramp,
	}

	f := l.Bind(d, []int{0, 1, 2}, nil, BindOptions{})
	if got := f.Color(f.Data[0]); got != ramp[0] {
		t.Errorf("Color(val=10): got %v, want %v", got, ramp[0])
	}
	if got := f.Color(f.Data[1]); got != ramp[2] {
		t.Errorf("Color(val=20): got %v, want %v", got, ramp[2])
	}
	// A bound channel with a missing value renders transparent,
	// not the static color.
	if got := f.Color(f.Data[2]); got != (color.RGBA{}) {
		t.Errorf("Color(val=nil): got %v, want transparent", got)
	}
	if f.ColorScale() == nil {
		t.Errorf("bound color channel: want non-nil scale")
	}
}

func TestResolverElevation(t *testing.T) {
	d := frameData()
	l := frameLayer(d)
	val := d.MustField("val")
	l.Size = NumberChannel{
		Field:  &val,
		Scale:  scale.Linear,
		Domain: []float64{10, 30},
		Range:  []float64{0, 100},
	}

	f := l.Bind(d, []int{0, 1, 2}, nil, BindOptions{})
	if got := f.Elevation(f.Data[0]); got != 0 {
		t.Errorf("Elevation(val=10): got %v, want 0", got)
	}
	if got := f.Elevation(f.Data[1]); got != 50 {
		t.Errorf("Elevation(val=20): got %v, want 50", got)
	}
	if got := f.Elevation(f.Data[2]); got != 0 {
		t.Errorf("Elevation(val=nil): got %v, want 0", got)
	}
}

func TestResolverCoverage(t *testing.T) {
	d := frameData()
	l := frameLayer(d)
	val := d.MustField("val")
	l.Coverage = NumberChannel{
		Field:  &val,
		Scale:  scale.Linear,
		Domain: []float64{0, 40},
		Range:  []float64{0, 1},
	}

	f := l.Bind(d, []int{0, 1, 2}, nil, BindOptions{})
	if got := f.Coverage(f.Data[1]); got != 0.5 {
		t.Errorf("Coverage(val=20): got %v, want 0.5", got)
	}
	// A bound coverage channel with a missing value hides the
	// cell.
	if got := f.Coverage(f.Data[2]); got != 0 {
		t.Errorf("Coverage(val=nil): got %v, want 0", got)
	}
}

func TestResolverOrdinal(t *testing.T) {
	d := frameData()
	l := frameLayer(d)
	cat := d.MustField("cat")
	l.Color = ColorChannel{
		Field:      &cat,
		Scale:      scale.Ordinal,
		Categories: []string{"x", "y"},
		Range:      ramp,
	}

	f := l.Bind(d, []int{0, 1, 2}, nil, BindOptions{})
	if got := f.Color(f.Data[0]); got != ramp[0] {
		t.Errorf("Color(cat=x): got %v, want %v", got, ramp[0])
	}
	if got := f.Color(f.Data[1]); got != ramp[1] {
		t.Errorf("Color(cat=y): got %v, want %v", got, ramp[1])
	}
}

// TestResolverOrderIndependence calls resolvers out of bind order and
// repeatedly; results must not depend on call history.
func TestResolverOrderIndependence(t *testing.T) {
	d := frameData()
	l := frameLayer(d)
	val := d.MustField("val")
	l.Size = NumberChannel{
		Field:  &val,
		Scale:  scale.Linear,
		Domain: []float64{10, 30},
		Range:  []float64{0, 100},
	}

	f := l.Bind(d, []int{0, 1, 2}, nil, BindOptions{})
	want := []float64{f.Elevation(f.Data[0]), f.Elevation(f.Data[1]), f.Elevation(f.Data[2])}
	for i := len(f.Data) - 1; i >= 0; i-- {
		for rep := 0; rep < 3; rep++ {
			if got := f.Elevation(f.Data[i]); got != want[i] {
				t.Fatalf("Elevation(%d) rep %d: got %v, want %v", i, rep, got, want[i])
			}
		}
	}
}
