// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layer

import (
	"image/color"

	"github.com/aclements/go-cellbind/dataset"
	"github.com/aclements/go-cellbind/scale"
)

// A Point is one derived record of a Frame.
type Point struct {
	// Index is the point's position within the derived dataset.
	// Records dropped for missing geometry leave no gaps.
	Index int

	// Data is the original raw record. Resolvers read channel
	// values from it; it is never copied or modified.
	Data dataset.Row

	// ID is the record's resolved cell identifier.
	ID dataset.Value

	// Centroid is the cell's centroid from the geometry cache.
	Centroid LngLat
}

// A Frame is the result of one Bind call: the derived dataset plus
// the channel resolvers that encode each point for rendering.
//
// Resolvers are pure functions of the frame and the point. They may
// be called repeatedly, in any order, for any subset of points.
// A Frame is immutable once returned; pass it back to the next Bind
// call as prev so the binder can decide whether Data is reusable.
type Frame struct {
	// Data is the derived dataset, in filtered order.
	Data []Point

	acc         *Accessor
	staticColor color.RGBA

	color       *scale.Color
	size        *scale.Number
	coverage    *scale.Number
	colorIdx    int
	sizeIdx     int
	coverageIdx int

	vertices  []LngLat
	center    LngLat
	hasCenter bool
}

// CellID returns the resolved cell identifier of p.
func (f *Frame) CellID(p Point) dataset.Value {
	return p.ID
}

// Color returns the encoded color of p: the color channel's scale
// applied to p's field value. If the channel is inactive, every point
// gets the layer's static color. If the channel is active but p has
// no usable value, the color is transparent.
func (f *Frame) Color(p Point) color.RGBA {
	if f.color == nil {
		return f.staticColor
	}
	c, ok := f.color.Map(fieldValue(p.Data, f.colorIdx))
	if !ok {
		return color.RGBA{}
	}
	return c
}

// Elevation returns the encoded elevation of p. If the size channel
// is inactive, or p has no usable value, the elevation is 0.
func (f *Frame) Elevation(p Point) float64 {
	if f.size == nil {
		return defaultElevation
	}
	v, ok := f.size.Map(fieldValue(p.Data, f.sizeIdx))
	if !ok {
		return defaultElevation
	}
	return v
}

// Coverage returns the encoded cell coverage of p in [0, 1]. If the
// coverage channel is inactive the cell is fully covered; if the
// channel is active but p has no usable value, the coverage is 0.
func (f *Frame) Coverage(p Point) float64 {
	if f.coverage == nil {
		return defaultCoverage
	}
	v, ok := f.coverage.Map(fieldValue(p.Data, f.coverageIdx))
	if !ok {
		return 0
	}
	return v
}

// ColorScale returns the frame's color scale, or nil if the color
// channel is inactive.
func (f *Frame) ColorScale() *scale.Color {
	return f.color
}

// SizeScale returns the frame's elevation scale, or nil if the size
// channel is inactive.
func (f *Frame) SizeScale() *scale.Number {
	return f.size
}

// HexagonVertices returns the representative cell outline passed
// through from the geometry cache, or nil if there is none.
func (f *Frame) HexagonVertices() []LngLat {
	return f.vertices
}

// HexagonCenter returns the center of the representative cell, if the
// geometry cache provided one.
func (f *Frame) HexagonCenter() (LngLat, bool) {
	return f.center, f.hasCenter
}

// Accessor returns the identifier accessor the frame was bound with.
func (f *Frame) Accessor() *Accessor {
	return f.acc
}

// fieldValue reads position idx of a raw record, or nil if idx is
// unbound or out of range.
func fieldValue(row dataset.Row, idx int) dataset.Value {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}
