// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command cellplot renders a dataset of S2-indexed records as a map.
//
// cellplot reads a CSV file with a column of S2 cell tokens (or raw
// numeric cell ids) and any number of metric columns. It binds the
// metrics to the visual channels of a grid-cell layer: a color field,
// an elevation field, and a coverage field, each with a configurable
// scale kind, domain, and range. The bound layer is written as an SVG
// or PNG preview or, with -table, as the derived table of encoded
// values.
//
// Rows whose cell column doesn't name a valid S2 cell are silently
// dropped, as are rows excluded by -filter. Missing metric values
// degrade to per-channel defaults rather than failing the render.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"

	"github.com/aclements/go-cellbind/dataset"
	"github.com/aclements/go-cellbind/layer"
	"github.com/aclements/go-cellbind/s2geom"
	"github.com/aclements/go-cellbind/scale"
)

var (
	flagCPUProfile = flag.String("cpuprofile", "", "write CPU profile to `file`")
	flagMemProfile = flag.String("memprofile", "", "write heap profile to `file`")
	flagOut        = flag.String("o", "", "write output to `file` (default: stdout)")
	flagTable      = flag.Bool("table", false, "output the derived table instead of a map")
	flagPNG        = flag.Bool("png", false, "render a PNG instead of an SVG")
	flagWidth      = flag.Int("w", 800, "output `width` in pixels")
	flagHeight     = flag.Int("h", 600, "output `height` in pixels")

	flagCell   = flag.String("cell", "cell", "read S2 cell tokens or ids from `column`")
	flagFilter = flag.String("filter", "", "keep only rows with `field:min:max`")

	flagColor       = flag.String("color", "", "color cells by `field`")
	flagColorScale  = flag.String("color-scale", "quantize", "color scale `kind`")
	flagColors      = flag.String("colors", "default", "color range: a `name or color list`")
	flagColorDomain = flag.String("color-domain", "", "color domain as `min,max` (default: from data)")

	flagSize      = flag.String("size", "", "set cell elevation from `field`")
	flagSizeScale = flag.String("size-scale", "linear", "elevation scale `kind`")
	flagSizeRange = flag.String("size-range", "0,500", "elevation range as `min,max`")

	flagCoverage      = flag.String("coverage", "", "set cell coverage from `field`")
	flagCoverageScale = flag.String("coverage-scale", "linear", "coverage scale `kind`")
	flagCoverageRange = flag.String("coverage-range", "0,1", "coverage range as `min,max`")

	flagStatic = flag.String("static-color", "#5a1846", "cell `color` when -color is unset")
)

func main() {
	log.SetPrefix("cellplot: ")
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [input]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	if *flagCPUProfile != "" {
		f, err := os.Create(*flagCPUProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if *flagMemProfile != "" {
		defer func() {
			runtime.GC()
			f, err := os.Create(*flagMemProfile)
			if err != nil {
				log.Fatal(err)
			}
			pprof.WriteHeapProfile(f)
			f.Close()
		}()
	}

	sr := NewStatusReporter()

	// Read the input table.
	path := "-"
	if flag.NArg() == 1 {
		path = flag.Arg(0)
	}
	d := readInput(path)
	sr.Message(fmt.Sprintf("%d records", d.Len()))

	cell, ok := d.Field(*flagCell)
	if !ok {
		log.Fatalf("input has no column %q", *flagCell)
	}

	filtered := dataset.Select(d, filters(d)...)

	// Configure the layer.
	l := layer.New()
	l.Columns.CellID = cell
	static, err := scale.ParseColor(*flagStatic)
	if err != nil {
		log.Fatal(err)
	}
	l.StaticColor = static
	l.RefreshGeometry = func(data *dataset.Dataset, acc *layer.Accessor) {
		cache := s2geom.Build(data, acc)
		sr.Message(fmt.Sprintf("%d of %d records have cell geometry", cache.Len(), data.Len()))
		l.Geometry = cache
	}
	l.Color = colorChannel(d, filtered)
	l.Size = numberChannel(d, filtered, *flagSize, *flagSizeScale, *flagSizeRange)
	l.Coverage = numberChannel(d, filtered, *flagCoverage, *flagCoverageScale, *flagCoverageRange)

	frame := l.Bind(d, filtered, nil, layer.BindOptions{})
	sr.Message(fmt.Sprintf("bound %d of %d filtered records", len(frame.Data), len(filtered)))

	// Prepare for output.
	f := os.Stdout
	if *flagOut != "" {
		var err error
		f, err = os.Create(*flagOut)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	} else {
		// Stop status output before it can interleave with
		// results on stdout.
		sr.Stop()
	}

	switch {
	case *flagTable:
		printTable(f, frame)
	case *flagPNG:
		if err := writePNG(f, frame, renderOptions(), sr); err != nil {
			log.Fatal(err)
		}
	default:
		writeSVG(f, frame, renderOptions())
	}
	sr.Stop()
}

func renderOptions() *render {
	return &render{
		Width:      *flagWidth,
		Height:     *flagHeight,
		ColorTitle: *flagColor,
		SizeTitle:  *flagSize,
	}
}

func readInput(path string) *dataset.Dataset {
	f := os.Stdin
	if path != "-" {
		var err error
		f, err = os.Open(path)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	}
	d, err := dataset.ReadCSV(f)
	if err != nil {
		log.Fatal(err)
	}
	dataset.ParseValues(d, nil)
	return d
}

// filters converts the -filter flag to row predicates.
func filters(d *dataset.Dataset) []func(dataset.Row) bool {
	if *flagFilter == "" {
		return nil
	}
	parts := strings.Split(*flagFilter, ":")
	if len(parts) != 3 {
		log.Fatalf("bad -filter %q; want field:min:max", *flagFilter)
	}
	f, ok := d.Field(parts[0])
	if !ok {
		log.Fatalf("-filter: input has no column %q", parts[0])
	}
	min, err1 := strconv.ParseFloat(parts[1], 64)
	max, err2 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil {
		log.Fatalf("bad -filter %q; want numeric min and max", *flagFilter)
	}
	return []func(dataset.Row) bool{dataset.InRange(f, min, max)}
}

// colorChannel builds the color channel config from the -color flags.
func colorChannel(d *dataset.Dataset, filtered []int) layer.ColorChannel {
	if *flagColor == "" {
		return layer.ColorChannel{}
	}
	f, kind := channelField(d, *flagColor, *flagColorScale)
	rng, err := scale.ParseColors(*flagColors)
	if err != nil {
		log.Fatalf("-colors: %v", err)
	}
	ch := layer.ColorChannel{Field: &f, Scale: kind, Range: rng}
	if *flagColorDomain != "" {
		ch.Domain = parseFloats("-color-domain", *flagColorDomain)
	} else {
		ch.Domain, ch.Categories = layer.ChannelDomain(d, filtered, f, kind)
	}
	return ch
}

// numberChannel builds an elevation or coverage channel config from
// its field, scale kind, and range flags.
func numberChannel(d *dataset.Dataset, filtered []int, field, kindName, rangeSpec string) layer.NumberChannel {
	if field == "" {
		return layer.NumberChannel{}
	}
	f, kind := channelField(d, field, kindName)
	ch := layer.NumberChannel{Field: &f, Scale: kind, Range: parseFloats("range", rangeSpec)}
	ch.Domain, ch.Categories = layer.ChannelDomain(d, filtered, f, kind)
	return ch
}

func channelField(d *dataset.Dataset, name, kindName string) (dataset.Field, scale.Kind) {
	f, ok := d.Field(name)
	if !ok {
		log.Fatalf("input has no column %q", name)
	}
	kind, err := scale.ParseKind(kindName)
	if err != nil {
		log.Fatal(err)
	}
	return f, kind
}

func parseFloats(what, s string) []float64 {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		x, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			log.Fatalf("bad %s %q; want comma-separated numbers", what, s)
		}
		out = append(out, x)
	}
	return out
}
