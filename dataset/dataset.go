// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset provides row-oriented tabular records for layer
// binding.
//
// A Dataset holds the raw records of a data table plus a schema that
// maps field names to positions within each record. Downstream
// packages address fields by their stable index, so a Dataset can be
// re-filtered or re-scanned without invalidating bindings that refer
// to it.
package dataset

import (
	"fmt"
	"math"
	"strconv"
)

// A Value is a single cell of a Dataset. Typed ingestion produces
// int, float64, bool, or string values; a nil Value marks a missing
// cell.
type Value = interface{}

// A Row is one record of a Dataset. Its length matches the Dataset's
// field list and its cells are addressed by Field.Idx.
type Row []Value

// A FieldType describes the parsed type of a field's values.
type FieldType int

const (
	String FieldType = iota
	Int
	FloatType
	Bool
)

func (t FieldType) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case FloatType:
		return "float"
	case Bool:
		return "bool"
	}
	return fmt.Sprintf("FieldType(%d)", int(t))
}

// A Field describes one column of a Dataset. The zero Field is not
// meaningful; a Field with Idx < 0 is unbound and reads nil from any
// Row.
type Field struct {
	// Name is the column heading of this field.
	Name string

	// Type is the parsed type of this field's values. Fields
	// start as String; ParseValues upgrades them.
	Type FieldType

	// Idx is the position of this field's values within each Row.
	// Idx is stable for the life of the Dataset.
	Idx int
}

// A Dataset is an ordered collection of rows sharing a schema.
type Dataset struct {
	Fields []Field
	Rows   []Row
}

// New returns a Dataset over rows with the given field names. All
// fields start with type String; use ParseValues to infer types.
func New(names []string, rows []Row) *Dataset {
	d := &Dataset{Rows: rows}
	for i, name := range names {
		d.Fields = append(d.Fields, Field{Name: name, Idx: i})
	}
	return d
}

// Len returns the number of rows in d.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Field returns the field named name.
func (d *Dataset) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{Idx: -1}, false
}

// MustField is like Field, but panics if d has no field named name.
func (d *Dataset) MustField(name string) Field {
	f, ok := d.Field(name)
	if !ok {
		panic(fmt.Sprintf("dataset has no field %q", name))
	}
	return f
}

// Floats returns field f of every row coerced to float64, with NaN
// for cells that have no numeric interpretation.
func (d *Dataset) Floats(f Field) []float64 {
	xs := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		v, ok := Float(cell(row, f.Idx))
		if !ok {
			v = math.NaN()
		}
		xs[i] = v
	}
	return xs
}

// Strings returns field f of every row formatted as strings. Missing
// cells format as "".
func (d *Dataset) Strings(f Field) []string {
	xs := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		v := cell(row, f.Idx)
		if v == nil {
			continue
		}
		xs[i] = fmt.Sprint(v)
	}
	return xs
}

// cell reads position idx of row, or nil if idx is out of range.
func cell(row Row, idx int) Value {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// Float coerces a single Value to float64. It accepts numeric types
// directly, bools as 0 or 1, and strings that parse as numbers.
func Float(v Value) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}
