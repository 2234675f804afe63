// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layer

import (
	"testing"

	"github.com/aclements/go-cellbind/dataset"
)

// fakeGeom is a Geometry with explicit per-index centroids.
type fakeGeom struct {
	centroids map[int]LngLat
	vertices  []LngLat
	center    LngLat
	hasCenter bool
}

func (g *fakeGeom) Centroid(i int) (LngLat, bool) {
	c, ok := g.centroids[i]
	return c, ok
}

func (g *fakeGeom) HexagonVertices() []LngLat     { return g.vertices }
func (g *fakeGeom) HexagonCenter() (LngLat, bool) { return g.center, g.hasCenter }

func testData() *dataset.Dataset {
	return dataset.New([]string{"id", "cell", "val"}, []dataset.Row{
		{"A", "t0", 10},
		{"B", "t1", 20},
		{"C", "t2", 30},
	})
}

// testLayer returns a layer over testData with geometry for every
// row.
func testLayer(d *dataset.Dataset) *Layer {
	l := New()
	l.Columns.CellID = d.MustField("cell")
	l.Geometry = &fakeGeom{
		centroids: map[int]LngLat{
			0: {0, 0}, 1: {1, 1}, 2: {2, 2},
		},
		vertices:  []LngLat{{0, 0}, {1, 0}, {1, 1}},
		center:    LngLat{0.5, 0.5},
		hasCenter: true,
	}
	return l
}

func sameSlice(a, b []Point) bool {
	if len(a) != len(b) || len(a) == 0 {
		return len(a) == len(b)
	}
	return &a[0] == &b[0]
}

func TestIDAccessorMemoized(t *testing.T) {
	d := testData()
	l := testLayer(d)

	a1 := l.IDAccessor()
	a2 := l.IDAccessor()
	if a1 != a2 {
		t.Errorf("repeated IDAccessor: got distinct pointers")
	}

	// Rebuilding the column config with the same field index keeps
	// the accessor: memoization is by index, not config identity.
	l.Columns = Columns{CellID: dataset.Field{Name: "other name", Idx: a1.idx}}
	if a3 := l.IDAccessor(); a3 != a1 {
		t.Errorf("same index after config rebuild: got new accessor")
	}

	// Rebinding to a different index yields a new accessor.
	l.Columns.CellID = d.MustField("id")
	a4 := l.IDAccessor()
	if a4 == a1 {
		t.Errorf("different index: accessor not invalidated")
	}
	// And switching back yields yet another pointer; only the
	// latest binding is cached.
	l.Columns.CellID = dataset.Field{Idx: a1.idx}
	if a5 := l.IDAccessor(); a5 == a1 || a5 == a4 {
		t.Errorf("rebound index: want fresh accessor")
	}
}

func TestAccessorValue(t *testing.T) {
	d := testData()
	l := testLayer(d)
	acc := l.IDAccessor()

	if got := acc.Value(d.Rows[1]); got != "t1" {
		t.Errorf("Value(row 1): got %v, want t1", got)
	}

	// Unbound and out-of-range bindings read nil.
	l.Columns.CellID = dataset.Field{Idx: -1}
	if got := l.IDAccessor().Value(d.Rows[0]); got != nil {
		t.Errorf("unbound Value: got %v, want nil", got)
	}
	l.Columns.CellID = dataset.Field{Idx: 99}
	if got := l.IDAccessor().Value(d.Rows[0]); got != nil {
		t.Errorf("out-of-range Value: got %v, want nil", got)
	}
}

func TestBindBuildsAllRows(t *testing.T) {
	d := testData()
	l := testLayer(d)

	f := l.Bind(d, []int{0, 1, 2}, nil, BindOptions{})
	if len(f.Data) != 3 {
		t.Fatalf("got %d points, want 3", len(f.Data))
	}
	for i, p := range f.Data {
		if p.Index != i {
			t.Errorf("point %d: Index = %d", i, p.Index)
		}
		if p.Centroid != (LngLat{float64(i), float64(i)}) {
			t.Errorf("point %d: Centroid = %v", i, p.Centroid)
		}
	}
	if f.Data[1].ID != "t1" {
		t.Errorf("point 1: ID = %v, want t1", f.Data[1].ID)
	}
	if got := f.CellID(f.Data[1]); got != "t1" {
		t.Errorf("CellID resolver: got %v, want t1", got)
	}
	// Data holds references to the original records.
	if &f.Data[2].Data[0] != &d.Rows[2][0] {
		t.Errorf("point 2 does not reference the raw record")
	}
}

func TestBindRespectsFilter(t *testing.T) {
	d := testData()
	l := testLayer(d)

	f := l.Bind(d, []int{2, 0}, nil, BindOptions{})
	if len(f.Data) != 2 || f.Data[0].ID != "t2" || f.Data[1].ID != "t0" {
		t.Fatalf("got %+v, want rows 2 then 0", f.Data)
	}
	// Out-of-range filter entries are skipped, not fatal.
	f = l.Bind(d, []int{-1, 1, 99}, nil, BindOptions{})
	if len(f.Data) != 1 || f.Data[0].ID != "t1" {
		t.Errorf("got %+v, want just row 1", f.Data)
	}
}

func TestBindDropsMissingGeometry(t *testing.T) {
	// Two records, geometry only for raw index 0: the derived
	// dataset has exactly one entry, for raw index 0, at local
	// index 0.
	d := dataset.New([]string{"id", "cell"}, []dataset.Row{
		{"A", 1},
		{"B", 2},
	})
	l := New()
	l.Columns.CellID = d.MustField("cell")
	l.Geometry = &fakeGeom{centroids: map[int]LngLat{0: {5, 5}}}

	f := l.Bind(d, []int{0, 1}, nil, BindOptions{})
	if len(f.Data) != 1 {
		t.Fatalf("got %d points, want 1", len(f.Data))
	}
	p := f.Data[0]
	if p.Index != 0 || p.ID != 1 || p.Centroid != (LngLat{5, 5}) {
		t.Errorf("got %+v", p)
	}

	// Derived length is bounded by the filter length, with
	// equality only when every referenced index has geometry.
	if f := l.Bind(d, []int{0}, nil, BindOptions{}); len(f.Data) != 1 {
		t.Errorf("full geometry: got %d points, want 1", len(f.Data))
	}
	if f := l.Bind(d, []int{1, 1, 1}, nil, BindOptions{}); len(f.Data) != 0 {
		t.Errorf("no geometry: got %d points, want 0", len(f.Data))
	}
}

func TestBindNilGeometry(t *testing.T) {
	d := testData()
	l := testLayer(d)
	l.Geometry = nil

	f := l.Bind(d, []int{0, 1, 2}, nil, BindOptions{})
	if len(f.Data) != 0 {
		t.Errorf("nil geometry: got %d points, want 0", len(f.Data))
	}
	if f.HexagonVertices() != nil {
		t.Errorf("nil geometry: got vertices %v", f.HexagonVertices())
	}
	if _, ok := f.HexagonCenter(); ok {
		t.Errorf("nil geometry: got center")
	}
}

func TestBindReuse(t *testing.T) {
	d := testData()
	l := testLayer(d)
	filtered := []int{0, 1, 2}

	f1 := l.Bind(d, filtered, nil, BindOptions{})
	f2 := l.Bind(d, filtered, f1, BindOptions{SameData: true})
	if !sameSlice(f1.Data, f2.Data) {
		t.Errorf("SameData with unchanged accessor: want reference-equal dataset")
	}

	// Without the SameData hint the dataset is rebuilt.
	f3 := l.Bind(d, filtered, f1, BindOptions{})
	if sameSlice(f1.Data, f3.Data) {
		t.Errorf("SameData=false: want rebuilt dataset")
	}

	// An empty previous dataset is never reused.
	empty := l.Bind(d, nil, nil, BindOptions{})
	if len(empty.Data) != 0 {
		t.Fatalf("empty bind: got %d points", len(empty.Data))
	}
	f4 := l.Bind(d, filtered, empty, BindOptions{SameData: true})
	if len(f4.Data) != 3 {
		t.Errorf("reuse of empty dataset: got %d points, want rebuild", len(f4.Data))
	}
}

// TestBindReuseIgnoresFilterChange documents that reuse does not
// reconsider the filtered indices: with SameData set and an unchanged
// accessor, a bind with a narrower filter still returns the previous
// derived dataset. Callers that change the filter must clear SameData
// or pass a nil previous frame.
func TestBindReuseIgnoresFilterChange(t *testing.T) {
	d := testData()
	l := testLayer(d)

	f1 := l.Bind(d, []int{0, 1, 2}, nil, BindOptions{})
	f2 := l.Bind(d, []int{0}, f1, BindOptions{SameData: true})
	if !sameSlice(f1.Data, f2.Data) {
		t.Errorf("filter change with SameData: want (lenient) reuse")
	}

	f3 := l.Bind(d, []int{0}, f1, BindOptions{})
	if len(f3.Data) != 1 {
		t.Errorf("filter change without SameData: got %d points, want 1", len(f3.Data))
	}
}

func TestBindAccessorChangeRebuilds(t *testing.T) {
	d := testData()
	l := testLayer(d)

	f1 := l.Bind(d, []int{0, 1, 2}, nil, BindOptions{})

	// Rebinding the identifier column invalidates reuse even with
	// SameData set.
	l.Columns.CellID = d.MustField("id")
	f2 := l.Bind(d, []int{0, 1, 2}, f1, BindOptions{SameData: true})
	if sameSlice(f1.Data, f2.Data) {
		t.Fatalf("accessor change: want rebuilt dataset")
	}
	if f2.Data[0].ID != "A" {
		t.Errorf("rebuilt ID: got %v, want A", f2.Data[0].ID)
	}
}

func TestBindRefreshGeometry(t *testing.T) {
	d := testData()
	l := testLayer(d)

	var calls []*Accessor
	l.RefreshGeometry = func(data *dataset.Dataset, acc *Accessor) {
		if data != d {
			t.Errorf("refresh got wrong dataset")
		}
		calls = append(calls, acc)
	}

	// First bind has no previous frame, so geometry is refreshed.
	f1 := l.Bind(d, []int{0}, nil, BindOptions{})
	if len(calls) != 1 || calls[0] != f1.Accessor() {
		t.Fatalf("first bind: got %d refreshes", len(calls))
	}

	// Steady state: same accessor, no refresh.
	f2 := l.Bind(d, []int{0}, f1, BindOptions{SameData: true})
	if len(calls) != 1 {
		t.Fatalf("steady state: got %d refreshes, want 1", len(calls))
	}

	// Rebinding the identifier column triggers a refresh before
	// the rebuild.
	l.Columns.CellID = d.MustField("id")
	f3 := l.Bind(d, []int{0}, f2, BindOptions{SameData: true})
	if len(calls) != 2 || calls[1] != f3.Accessor() {
		t.Fatalf("rebind: got %d refreshes, want 2", len(calls))
	}
}

// TestBindRefreshSwapsGeometry exercises the geometry owner's usual
// callback: replacing l.Geometry during refresh. The same Bind call
// must see the replacement.
func TestBindRefreshSwapsGeometry(t *testing.T) {
	d := testData()
	l := testLayer(d)
	l.Geometry = nil

	swapped := &fakeGeom{
		centroids: map[int]LngLat{0: {7, 7}, 1: {8, 8}, 2: {9, 9}},
		vertices:  []LngLat{{7, 7}},
	}
	l.RefreshGeometry = func(data *dataset.Dataset, acc *Accessor) {
		l.Geometry = swapped
	}

	f := l.Bind(d, []int{0, 1, 2}, nil, BindOptions{})
	if len(f.Data) != 3 || f.Data[0].Centroid != (LngLat{7, 7}) {
		t.Errorf("got %+v, want centroids from swapped geometry", f.Data)
	}
	if v := f.HexagonVertices(); len(v) != 1 || v[0] != (LngLat{7, 7}) {
		t.Errorf("vertices: got %v, want swapped outline", v)
	}
}

func TestBindPassesThroughGeometryHandles(t *testing.T) {
	d := testData()
	l := testLayer(d)

	f := l.Bind(d, []int{0}, nil, BindOptions{})
	if len(f.HexagonVertices()) != 3 {
		t.Errorf("vertices: got %v", f.HexagonVertices())
	}
	if c, ok := f.HexagonCenter(); !ok || c != (LngLat{0.5, 0.5}) {
		t.Errorf("center: got %v, %v", c, ok)
	}
}
