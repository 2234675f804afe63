// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package s2geom

import (
	"math"
	"strings"
	"testing"

	"github.com/golang/geo/s2"

	"github.com/aclements/go-cellbind/dataset"
	"github.com/aclements/go-cellbind/layer"
)

// cellAt returns the level-10 cell token covering a lat/lng.
func cellAt(lat, lng float64) string {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng)).Parent(10).ToToken()
}

func TestCellID(t *testing.T) {
	token := cellAt(37.77, -122.41)
	id, ok := CellID(token)
	if !ok || id.ToToken() != token {
		t.Errorf("CellID(%q): got %v, %v", token, id, ok)
	}

	// Tokens are case and whitespace insensitive.
	if id2, ok := CellID(" " + strings.ToUpper(token) + " "); !ok || id2 != id {
		t.Errorf("CellID with noise: got %v, %v; want %v", id2, ok, id)
	}

	// Raw numeric ids resolve to the same cell.
	if id3, ok := CellID(int(uint64(id))); !ok || id3 != id {
		t.Errorf("CellID(int): got %v, %v; want %v", id3, ok, id)
	}
	if id4, ok := CellID(uint64(id)); !ok || id4 != id {
		t.Errorf("CellID(uint64): got %v, %v; want %v", id4, ok, id)
	}

	for _, bad := range []dataset.Value{nil, "", "zzzz", 0, 0.5, true} {
		if id, ok := CellID(bad); ok {
			t.Errorf("CellID(%#v): got %v, want invalid", bad, id)
		}
	}
}

func TestCellOutline(t *testing.T) {
	id, _ := CellID(cellAt(48.85, 2.35))
	outline := CellOutline(id)
	if len(outline) != 4 {
		t.Fatalf("got %d vertices, want 4", len(outline))
	}
	center := cellCenter(id)
	for i, v := range outline {
		if math.Abs(v.Lat()-center.Lat()) > 1 || math.Abs(v.Lng()-center.Lng()) > 1 {
			t.Errorf("vertex %d = %v, far from center %v", i, v, center)
		}
		if v == center {
			t.Errorf("vertex %d equals center", i)
		}
	}
}

func TestBuild(t *testing.T) {
	d := dataset.New([]string{"cell", "val"}, []dataset.Row{
		{cellAt(37.77, -122.41), 1},
		{"not a token", 2},
		{cellAt(40.71, -74.00), 3},
		{nil, 4},
	})
	l := layer.New()
	l.Columns.CellID = d.MustField("cell")
	acc := l.IDAccessor()

	c := Build(d, acc)
	if c.Len() != 2 {
		t.Fatalf("got %d centroids, want 2", c.Len())
	}
	for _, i := range []int{0, 2} {
		ll, ok := c.Centroid(i)
		if !ok {
			t.Errorf("Centroid(%d): missing", i)
			continue
		}
		if ll.Lat() < -90 || ll.Lat() > 90 || ll.Lng() < -180 || ll.Lng() > 180 {
			t.Errorf("Centroid(%d) = %v: out of range", i, ll)
		}
	}
	if _, ok := c.Centroid(1); ok {
		t.Errorf("Centroid(1): want missing for invalid token")
	}
	if _, ok := c.Centroid(3); ok {
		t.Errorf("Centroid(3): want missing for nil id")
	}

	// The representative outline comes from the first valid cell.
	if got := c.HexagonVertices(); len(got) != 4 {
		t.Errorf("HexagonVertices: got %v", got)
	}
	want, _ := c.Centroid(0)
	if center, ok := c.HexagonCenter(); !ok || center != want {
		t.Errorf("HexagonCenter: got %v, %v; want %v", center, ok, want)
	}

	// Centroids are near where the cells were constructed.
	sf, _ := c.Centroid(0)
	if math.Abs(sf.Lat()-37.77) > 0.5 || math.Abs(sf.Lng()+122.41) > 0.5 {
		t.Errorf("Centroid(0) = %v, want near 37.77,-122.41", sf)
	}
}

func TestCacheAsGeometry(t *testing.T) {
	// The cache plugs into layer.Bind through RefreshGeometry.
	d := dataset.New([]string{"cell"}, []dataset.Row{
		{cellAt(51.5, -0.12)},
		{"bogus"},
	})
	l := layer.New()
	l.Columns.CellID = d.MustField("cell")
	l.RefreshGeometry = func(data *dataset.Dataset, acc *layer.Accessor) {
		l.Geometry = Build(data, acc)
	}

	f := l.Bind(d, []int{0, 1}, nil, layer.BindOptions{})
	if len(f.Data) != 1 || f.Data[0].ID != d.Rows[0][0] {
		t.Fatalf("got %+v, want one point for row 0", f.Data)
	}
	if len(f.HexagonVertices()) != 4 {
		t.Errorf("vertices: got %v", f.HexagonVertices())
	}
}
