// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ReadCSV reads a CSV table from r. The first record is the header
// row and names the fields of the returned Dataset. Empty cells read
// as nil; all other cells read as strings. Use ParseValues to convert
// raw cells to structured types.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV input")
	} else if err != nil {
		return nil, err
	}

	d := New(header, nil)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		row := make(Row, len(rec))
		for i, cell := range rec {
			if cell == "" {
				continue
			}
			row[i] = cell
		}
		d.Rows = append(d.Rows, row)
	}
	return d, nil
}

// ValueParser is a function that parses a string value into a
// structured type or returns an error if the string cannot be parsed.
type ValueParser func(string) (Value, error)

// DefaultValueParsers is the default sequence of value parsers used
// by ParseValues if no parsers are specified.
var DefaultValueParsers = []ValueParser{
	func(s string) (Value, error) { return strconv.Atoi(s) },
	func(s string) (Value, error) { return strconv.ParseFloat(s, 64) },
	func(s string) (Value, error) { return strconv.ParseBool(s) },
}

// ParseValues converts the string cells of d into structured types
// using best-effort pattern-based parsing.
//
// If all of the non-missing values of a given field can be parsed by
// one of the valueParsers, ParseValues replaces them with the results
// of that ValueParser and upgrades the field's type. If multiple
// ValueParsers can parse all of the values, it uses the earliest such
// parser in the valueParsers list. Fields with no parseable
// interpretation keep their string values.
//
// If valueParsers is nil, it uses DefaultValueParsers.
func ParseValues(d *Dataset, valueParsers []ValueParser) {
	if valueParsers == nil {
		valueParsers = DefaultValueParsers
	}

	for fi, f := range d.Fields {
		if f.Type != String {
			continue
		}

		// Try value parsers in priority order against every
		// non-missing cell of this field.
		var parsed []Value
		good := false
	tryParsers:
		for _, vp := range valueParsers {
			parsed = parsed[:0]
			good = true
			for _, row := range d.Rows {
				v := cell(row, f.Idx)
				if v == nil {
					parsed = append(parsed, nil)
					continue
				}
				s, ok := v.(string)
				if !ok {
					// Already structured.
					good = false
					break tryParsers
				}
				res, err := vp(s)
				if err != nil {
					// Parse error. Fail this parser.
					good = false
					continue tryParsers
				}
				parsed = append(parsed, res)
			}
			if good {
				// This ValueParser converted all of
				// the values.
				break tryParsers
			}
		}
		if !good {
			continue
		}

		for ri, row := range d.Rows {
			if f.Idx < len(row) {
				row[f.Idx] = parsed[ri]
			}
		}
		d.Fields[fi].Type = fieldType(parsed)
	}
}

// fieldType reports the FieldType of a parsed column based on its
// first non-missing value.
func fieldType(parsed []Value) FieldType {
	for _, v := range parsed {
		switch v.(type) {
		case int:
			return Int
		case float64:
			return FloatType
		case bool:
			return Bool
		case nil:
			continue
		}
		break
	}
	return String
}
