// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package s2geom computes cell geometry for datasets keyed by S2 cell
// identifiers.
//
// It implements the geometry cache that layer.Bind joins against: a
// mapping from raw record index to the centroid of the record's S2
// cell, plus one representative cell outline for instanced rendering.
// The cache is intended to be rebuilt from the layer's RefreshGeometry
// callback whenever the identifier accessor changes.
package s2geom

import (
	"strings"

	"github.com/golang/geo/s2"

	"github.com/aclements/go-cellbind/dataset"
	"github.com/aclements/go-cellbind/layer"
)

// A Cache holds the cell geometry of one dataset, keyed by raw record
// index. It implements layer.Geometry.
type Cache struct {
	centroids map[int]layer.LngLat
	vertices  []layer.LngLat
	center    layer.LngLat
	hasCenter bool
}

// Build computes the geometry cache for data, resolving each record's
// cell identifier with acc. Records whose identifier names no valid
// S2 cell get no centroid, which later drops them from binding. The
// first valid cell also contributes the representative outline and
// center.
func Build(data *dataset.Dataset, acc *layer.Accessor) *Cache {
	c := &Cache{centroids: make(map[int]layer.LngLat, len(data.Rows))}
	for i, row := range data.Rows {
		id, ok := CellID(acc.Value(row))
		if !ok {
			continue
		}
		center := cellCenter(id)
		c.centroids[i] = center
		if !c.hasCenter {
			c.vertices = CellOutline(id)
			c.center = center
			c.hasCenter = true
		}
	}
	return c
}

// Len returns the number of records with geometry.
func (c *Cache) Len() int {
	return len(c.centroids)
}

// Centroid returns the cell centroid of raw record index i.
func (c *Cache) Centroid(i int) (layer.LngLat, bool) {
	ll, ok := c.centroids[i]
	return ll, ok
}

// HexagonVertices returns the outline of the representative cell, or
// nil if no record had a valid cell.
func (c *Cache) HexagonVertices() []layer.LngLat {
	return c.vertices
}

// HexagonCenter returns the center of the representative cell.
func (c *Cache) HexagonCenter() (layer.LngLat, bool) {
	return c.center, c.hasCenter
}

// CellID interprets a raw field value as an S2 cell identifier.
// Strings are hex cell tokens; integer values are raw 64-bit cell
// ids. Floats are accepted as raw ids for data sources without an
// integer type, though ids above 2^53 do not survive such sources
// exactly.
func CellID(v dataset.Value) (s2.CellID, bool) {
	var id s2.CellID
	switch v := v.(type) {
	case string:
		id = s2.CellIDFromToken(strings.ToLower(strings.TrimSpace(v)))
	case int:
		id = s2.CellID(uint64(v))
	case int64:
		id = s2.CellID(uint64(v))
	case uint64:
		id = s2.CellID(v)
	case float64:
		id = s2.CellID(uint64(v))
	default:
		return 0, false
	}
	return id, id.IsValid()
}

// CellOutline returns the corners of id's cell in longitude/latitude
// degrees, in counterclockwise order.
func CellOutline(id s2.CellID) []layer.LngLat {
	cell := s2.CellFromCellID(id)
	out := make([]layer.LngLat, 4)
	for k := range out {
		out[k] = toLngLat(cell.Vertex(k))
	}
	return out
}

func cellCenter(id s2.CellID) layer.LngLat {
	return toLngLat(id.Point())
}

func toLngLat(p s2.Point) layer.LngLat {
	ll := s2.LatLngFromPoint(p)
	return layer.LngLat{ll.Lng.Degrees(), ll.Lat.Degrees()}
}
