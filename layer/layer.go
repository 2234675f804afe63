// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layer binds datasets of grid-cell records to visual
// channels.
//
// A Layer joins three inputs: raw records whose cells are named by a
// grid-cell identifier column, an externally owned geometry cache
// mapping raw record indexes to cell centroids, and per-channel scale
// configurations. Bind produces a Frame: the derived per-point
// dataset plus resolver methods that encode each point's color,
// elevation, and coverage for the rendering boundary.
//
// Binding is incremental. The caller keeps the previous Frame and
// passes it back on the next call; Bind reuses the previous derived
// dataset when it can prove the inputs still match, and otherwise
// rebuilds it. Binding never fails: missing fields degrade to channel
// defaults and records without geometry are dropped silently, so
// partial or malformed rows never abort the rest.
package layer

import (
	"image/color"

	"github.com/aclements/go-cellbind/dataset"
	"github.com/aclements/go-cellbind/scale"
)

// A LngLat is a geographic position in degrees, longitude first.
type LngLat [2]float64

// Lng returns the longitude of p in degrees.
func (p LngLat) Lng() float64 { return p[0] }

// Lat returns the latitude of p in degrees.
func (p LngLat) Lat() float64 { return p[1] }

// A Geometry provides cell geometry for raw record indexes. It is
// owned and refreshed outside the layer; the layer only reads it.
// Centroid reports false for records whose identifier names no valid
// cell, which excludes them from binding. HexagonVertices and
// HexagonCenter describe one representative cell outline for
// instanced rendering and pass through Bind untouched.
type Geometry interface {
	Centroid(i int) (LngLat, bool)
	HexagonVertices() []LngLat
	HexagonCenter() (LngLat, bool)
}

// Columns binds the layer's column roles to dataset fields. CellID
// names the column holding grid-cell identifiers and is the layer's
// only required column.
type Columns struct {
	CellID dataset.Field
}

// A ColorChannel configures the mapping from a data field to colors.
// The channel is active iff Field is non-nil; an inactive channel
// renders the layer's static color. Domain is the numeric domain for
// continuous and quantize kinds, the full value sample for quantile,
// and ignored for ordinal, which uses Categories instead.
type ColorChannel struct {
	Field      *dataset.Field
	Scale      scale.Kind
	Domain     []float64
	Categories []string
	Range      []color.RGBA
}

func (ch ColorChannel) build() *scale.Color {
	if ch.Field == nil {
		return nil
	}
	if ch.Scale == scale.Ordinal {
		return scale.NewOrdinalColor(ch.Categories, ch.Range)
	}
	return scale.NewColor(ch.Scale, ch.Domain, ch.Range)
}

// A NumberChannel configures the mapping from a data field to numbers
// for the elevation and coverage channels. The channel is active iff
// Field is non-nil; inactive channels use the per-channel default.
type NumberChannel struct {
	Field      *dataset.Field
	Scale      scale.Kind
	Domain     []float64
	Categories []string
	Range      []float64
}

func (ch NumberChannel) build() *scale.Number {
	if ch.Field == nil {
		return nil
	}
	if ch.Scale == scale.Ordinal {
		return scale.NewOrdinalNumber(ch.Categories, ch.Range)
	}
	return scale.NewNumber(ch.Scale, ch.Domain, ch.Range)
}

// A Layer is the configuration of one grid-cell layer: column roles,
// visual channels, and the geometry cache. The zero value is not
// meaningful; use New.
type Layer struct {
	Columns Columns

	// Color, Size, and Coverage drive the color, elevation, and
	// coverage channels.
	Color    ColorChannel
	Size     NumberChannel
	Coverage NumberChannel

	// StaticColor is the fill used when the color channel is
	// inactive.
	StaticColor color.RGBA

	// Geometry is the external geometry cache joined against
	// during rebuilds. A nil Geometry drops every record.
	Geometry Geometry

	// RefreshGeometry, when non-nil, is called at the start of any
	// Bind whose identifier accessor is new (first bind, or the
	// identifier column was rebound). The owner of the geometry
	// cache uses this to recompute it; the callback may replace
	// Geometry and Bind will use the replacement for the rest of
	// the call.
	RefreshGeometry func(data *dataset.Dataset, acc *Accessor)

	lastIdx int
	lastAcc *Accessor
}

// Default channel values for unbound channels.
const (
	defaultElevation = 0
	defaultCoverage  = 1
)

// DefaultSizeRange is the default elevation range in meters.
var DefaultSizeRange = []float64{0, 500}

// DefaultCoverageRange is the default coverage range.
var DefaultCoverageRange = []float64{0, 1}

// New returns a Layer with an unbound identifier column, the default
// static color, and default channel ranges.
func New() *Layer {
	return &Layer{
		Columns:     Columns{CellID: dataset.Field{Idx: -1}},
		Color:       ColorChannel{Scale: scale.Quantize, Range: scale.DefaultColors},
		Size:        NumberChannel{Scale: scale.Linear, Range: DefaultSizeRange},
		Coverage:    NumberChannel{Scale: scale.Linear, Range: DefaultCoverageRange},
		StaticColor: scale.DefaultColors[0],
	}
}

// BindOptions control a single Bind call.
type BindOptions struct {
	// SameData asserts that data is the same dataset as the
	// previous Bind call's: same identity and unchanged rows.
	// Reuse of the previous derived dataset requires it. The
	// caller owns this signal because only the caller knows
	// whether the dataset was swapped or edited between calls.
	SameData bool
}

// Bind joins data, the filtered row indices, and the layer's geometry
// cache into a Frame.
//
// If prev is the Frame from the previous Bind call and it has a
// non-empty derived dataset, opts.SameData is set, and the identifier
// accessor is unchanged, the previous derived dataset is reused
// as-is. Note that reuse does not consider filtered: a call that
// changes only the filter must pass SameData=false (or a nil prev) to
// see the new filter reflected in the output.
//
// Otherwise Bind rebuilds the derived dataset by scanning filtered in
// order and joining each raw index against the geometry cache.
// Records without a centroid are dropped. Bind never fails.
func (l *Layer) Bind(data *dataset.Dataset, filtered []int, prev *Frame, opts BindOptions) *Frame {
	acc := l.IDAccessor()

	// Signal the geometry owner before touching geometry: a new
	// accessor means the cache is stale or absent, and the rebuild
	// below wants the refreshed centroids.
	if prev == nil || prev.acc != acc {
		if l.RefreshGeometry != nil {
			l.RefreshGeometry(data, acc)
		}
	}

	f := &Frame{
		acc:         acc,
		staticColor: l.StaticColor,
		color:       l.Color.build(),
		size:        l.Size.build(),
		coverage:    l.Coverage.build(),
		colorIdx:    fieldIdx(l.Color.Field),
		sizeIdx:     fieldIdx(l.Size.Field),
		coverageIdx: fieldIdx(l.Coverage.Field),
	}
	if g := l.Geometry; g != nil {
		f.vertices = g.HexagonVertices()
		f.center, f.hasCenter = g.HexagonCenter()
	}

	if prev != nil && len(prev.Data) > 0 && opts.SameData && prev.acc == acc {
		f.Data = prev.Data
		return f
	}

	pts := make([]Point, 0, len(filtered))
	if g := l.Geometry; g != nil {
		for _, ri := range filtered {
			if ri < 0 || ri >= len(data.Rows) {
				continue
			}
			centroid, ok := g.Centroid(ri)
			if !ok {
				continue
			}
			row := data.Rows[ri]
			pts = append(pts, Point{
				Index:    len(pts),
				Data:     row,
				ID:       acc.Value(row),
				Centroid: centroid,
			})
		}
	}
	f.Data = pts
	return f
}

func fieldIdx(f *dataset.Field) int {
	if f == nil {
		return -1
	}
	return f.Idx
}
