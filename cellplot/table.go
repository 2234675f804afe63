// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log"

	"github.com/aclements/go-gg/table"

	"github.com/aclements/go-cellbind/layer"
)

// printTable writes the derived table of encoded channel values, one
// row per bound record.
func printTable(w io.Writer, f *layer.Frame) {
	n := len(f.Data)
	cells := make([]string, n)
	lngs := make([]float64, n)
	lats := make([]float64, n)
	fills := make([]string, n)
	elevs := make([]float64, n)
	covs := make([]float64, n)
	for i, p := range f.Data {
		cells[i] = fmt.Sprint(p.ID)
		lngs[i], lats[i] = p.Centroid.Lng(), p.Centroid.Lat()
		if c := f.Color(p); c.A != 0 {
			fills[i] = hexColor(c)
		}
		elevs[i] = f.Elevation(p)
		covs[i] = f.Coverage(p)
	}

	tab := new(table.Builder).
		Add("cell", cells).
		Add("lng", lngs).
		Add("lat", lats).
		Add("color", fills).
		Add("elevation", elevs).
		Add("coverage", covs).
		Done()
	if err := table.Fprint(w, tab); err != nil {
		log.Fatal(err)
	}
}
