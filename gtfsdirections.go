// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/patrickbr/gtfsdirections/config"
	"github.com/patrickbr/gtfsdirections/output"
	"github.com/patrickbr/gtfsdirections/processors"
	"github.com/patrickbr/gtfsparser"
	"github.com/patrickbr/gtfsparser/gtfs"
	"github.com/patrickbr/gtfswriter"
	geojson "github.com/paulmach/go.geojson"
	flag "github.com/spf13/pflag"
)

type options struct {
	inputPath   string
	outputPath  string
	configPath  string
	sqlitePath  string
	stopsPath   string
	agencyID    string
	lenient     bool
	keepFields  bool
	dropErrs    bool
	defOnErrs   bool
	warnings    bool
	dateStart   gtfs.Date
	dateEnd     gtfs.Date
	polygons    []gtfsparser.Polygon
	compression int
}

var errc = color.New(color.FgRed, color.Bold)

func getGtfsPoly(poly [][][]float64) gtfsparser.Polygon {
	outer := make([][2]float64, len(poly[0]))
	inners := make([][][2]float64, 0)
	for i, c := range poly[0] {
		outer[i] = [2]float64{c[0], c[1]}
	}
	for i := 1; i < len(poly); i++ {
		inners = append(inners, make([][2]float64, len(poly[i])))
		for j, c := range poly[i] {
			inners[i-1][j] = [2]float64{c[0], c[1]}
		}
	}

	return gtfsparser.NewPolygon(outer, inners)
}

func parseDate(str string) (gtfs.Date, error) {
	var day, month, year int
	var e error
	if len(str) != 8 {
		e = fmt.Errorf("has %d characters, expected 8", len(str))
	}
	if e == nil {
		day, e = strconv.Atoi(str[6:8])
	}
	if e == nil {
		month, e = strconv.Atoi(str[4:6])
	}
	if e == nil {
		year, e = strconv.Atoi(str[0:4])
	}

	if e == nil && (day < 1 || day > 31) {
		e = errors.New("day must be in the range [1, 31]")
	}

	if e == nil && (month < 1 || month > 12) {
		e = errors.New("month must be in the range [1, 12]")
	}

	if e == nil && (year < 1900 || year > (1900+255)) {
		e = errors.New("date must be in the range [19000101, 21551231]")
	}

	if e != nil {
		return gtfs.Date{}, fmt.Errorf("expected YYYYMMDD date, found '%s' (%w)", str, e)
	}

	return gtfs.NewDate(uint8(day), uint8(month), uint16(year)), nil
}

func parseCoords(s string) ([][2]float64, error) {
	coords := strings.Split(s, ",")

	if len(coords)%2 != 0 {
		return nil, errors.New("uneven number of coordinates")
	}

	ret := make([][2]float64, 0)
	for i := 0; i < len(coords)/2; i++ {
		var x, y float64
		var err error
		y, err = strconv.ParseFloat(strings.Trim(coords[i*2], "\n "), 64)
		if err == nil {
			x, err = strconv.ParseFloat(strings.Trim(coords[i*2+1], "\n "), 64)
		}

		if err != nil {
			return nil, err
		}

		ret = append(ret, [2]float64{x, y})
	}
	return ret, nil
}

func closed(poly [][2]float64) [][2]float64 {
	if len(poly) > 1 && (poly[0][0] != poly[len(poly)-1][0] || poly[0][1] != poly[len(poly)-1][1]) {
		poly = append(poly, [2]float64{poly[0][0], poly[0][1]})
	}
	return poly
}

// service area filter from bounding boxes, coordinate lists and
// polygon files (plain coordinate lists or GeoJSON)
func parsePolygons(bboxStrings []string, polygonStrings []string, polygonFiles []string) ([]gtfsparser.Polygon, error) {
	polys := make([]gtfsparser.Polygon, 0)

	for _, polyFile := range polygonFiles {
		data, err := os.ReadFile(polyFile)
		if err != nil {
			return nil, fmt.Errorf("could not read polygon filter file: %w", err)
		}

		if !strings.HasSuffix(polyFile, ".json") && !strings.HasSuffix(polyFile, ".geojson") {
			polygonStrings = append(polygonStrings, string(data))
			continue
		}

		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("could not parse polygon filter file: %w", err)
		}
		for _, feature := range fc.Features {
			if feature.Geometry.IsMultiPolygon() {
				for _, poly := range feature.Geometry.MultiPolygon {
					polys = append(polys, getGtfsPoly(poly))
				}
			}
			if feature.Geometry.IsPolygon() {
				polys = append(polys, getGtfsPoly(feature.Geometry.Polygon))
			}
		}
	}

	for _, polyString := range polygonStrings {
		if len(strings.TrimSpace(polyString)) == 0 {
			continue
		}
		poly, err := parseCoords(polyString)
		if err != nil {
			return nil, fmt.Errorf("could not parse polygon filter: %w", err)
		}
		polys = append(polys, gtfsparser.NewPolygon(closed(poly), make([][][2]float64, 0)))
	}

	for _, bboxString := range bboxStrings {
		bboxString = strings.TrimSpace(bboxString)
		if len(bboxString) == 0 {
			continue
		}
		bbox, err := parseCoords(bboxString)
		if err != nil {
			return nil, fmt.Errorf("could not parse bounding box filter: %w", err)
		}
		if len(bbox) != 2 {
			return nil, fmt.Errorf("bounding box needs exactly 2 corners, got %d", len(bbox))
		}
		poly := [][2]float64{
			{bbox[0][0], bbox[0][1]},
			{bbox[0][0], bbox[1][1]},
			{bbox[1][0], bbox[1][1]},
			{bbox[1][0], bbox[0][1]},
		}
		polys = append(polys, gtfsparser.NewPolygon(closed(poly), make([][][2]float64, 0)))
	}

	return polys, nil
}

func loadTables(configPath string) (*config.Tables, error) {
	if len(configPath) == 0 {
		return config.Default()
	}
	return config.Load(configPath)
}

// run parses, directs and writes a feed. On any error, nothing is
// written.
func run(ctx context.Context, o options) error {
	tables, err := loadTables(o.configPath)
	if err != nil {
		return fmt.Errorf("could not load tables: %w", err)
	}

	agencyID := tables.Agency.ID
	if len(o.agencyID) > 0 {
		agencyID = o.agencyID
	}

	feed := gtfsparser.NewFeed()
	opts := gtfsparser.ParseOptions{UseDefValueOnError: false, DropErroneous: false, DryRun: false, CheckNullCoordinates: false, EmptyStringRepl: "", ZipFix: false}
	opts.DropErroneous = o.dropErrs
	opts.UseDefValueOnError = o.defOnErrs
	opts.ShowWarnings = o.warnings
	opts.KeepAddFlds = o.keepFields
	opts.DateFilterStart = o.dateStart
	opts.DateFilterEnd = o.dateEnd
	opts.PolygonFilter = o.polygons
	feed.SetParseOpts(opts)

	fmt.Fprintf(os.Stdout, "Parsing GTFS feed in '%s' ...", o.inputPath)
	if opts.ShowWarnings {
		fmt.Fprintf(os.Stdout, "\n")
	}
	if e := feed.Parse(o.inputPath); e != nil {
		fmt.Fprintf(os.Stdout, "\n")
		return fmt.Errorf("error while parsing GTFS feed: %w", e)
	}
	fmt.Fprintf(os.Stdout, " done.\n")

	director := &processors.TripDirector{Engine: tables.Build(o.lenient)}

	procs := []processors.Processor{
		processors.AgencyFilter{AgencyID: agencyID},
		processors.OrphanRemover{},
		processors.RouteNormalizer{Colors: tables.ColorTable()},
		processors.StopNormalizer{},
	}
	for _, p := range procs {
		if err := p.Run(feed); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "Checking tables against feed... ")
	if err := tables.CheckFeed(processors.RouteIDs(feed), processors.StopCodes(feed)); err != nil {
		fmt.Fprintf(os.Stdout, "failed.\n")
		return fmt.Errorf("tables are out of date with the feed: %w", err)
	}
	fmt.Fprintf(os.Stdout, "done.\n")

	if err := director.Run(feed); err != nil {
		return err
	}

	ds, err := output.Collect(feed, output.Agency{ID: agencyID, Color: tables.Agency.Color}, director.Patterns)
	if err != nil {
		return err
	}

	if len(o.outputPath) > 0 {
		fmt.Fprintf(os.Stdout, "Outputting GTFS feed to '%s'...", o.outputPath)

		if _, err := os.Stat(o.outputPath); os.IsNotExist(err) {
			if path.Ext(o.outputPath) == ".zip" {
				f, err := os.Create(o.outputPath)
				if err != nil {
					return err
				}
				f.Close()
			} else if err := os.Mkdir(o.outputPath, os.ModePerm); err != nil {
				return err
			}
		}

		w := gtfswriter.Writer{ZipCompressionLevel: o.compression, Sorted: true}
		if e := w.Write(feed, o.outputPath); e != nil {
			return fmt.Errorf("error while writing GTFS feed in '%s': %w", o.outputPath, e)
		}
		fmt.Fprintf(os.Stdout, " done.\n")
	}

	if len(o.sqlitePath) > 0 {
		fmt.Fprintf(os.Stdout, "Outputting database to '%s'...", o.sqlitePath)
		if err := output.WriteSQLite(ctx, o.sqlitePath, ds); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, " done. (%s)\n", ds)
	}

	if len(o.stopsPath) > 0 {
		fmt.Fprintf(os.Stdout, "Outputting stop layer to '%s'...", o.stopsPath)
		if err := output.WriteStopLayer(o.stopsPath, ds); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, " done. (%d stops)\n", len(ds.Stops))
	}

	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gtfsdirections - (C) 2016-2023 by Patrick Brosi <info@patrickbrosi.de>\n\nUsage:\n\n  %s [<options>] [-o <outputfile>] <input GTFS>\n\nAllowed options:\n\n", os.Args[0])
		flag.PrintDefaults()
	}

	var bboxStrings []string
	var polygonStrings []string
	var polygonFiles []string

	o := options{}

	flag.StringVarP(&o.outputPath, "output", "o", "gtfs-out", "gtfs output directory or zip file (must end with .zip), empty for none")
	flag.StringVarP(&o.configPath, "config", "c", "", "YAML agency tables, the built-in Kelowna tables if empty")
	flag.StringVarP(&o.sqlitePath, "sqlite", "", "", "app-ready SQLite database output")
	flag.StringVarP(&o.stopsPath, "stops-geojson", "", "", "GeoJSON stop layer output")
	flag.StringVarP(&o.agencyID, "agency", "a", "", "id of the agency to keep, overrides the tables")
	flag.BoolVarP(&o.lenient, "lenient", "l", false, "accept headsigns marked as lenient in the tables")
	flag.BoolVarP(&o.keepFields, "keep-additional-fields", "F", false, "keep all non-GTFS fields from the input")
	flag.BoolVarP(&o.dropErrs, "drop-errs", "D", false, "drop erroneous entries from feed")
	flag.BoolVarP(&o.defOnErrs, "default-on-errs", "e", false, "if non-required fields have errors, fall back to the default values")
	flag.BoolVarP(&o.warnings, "show-warnings", "W", false, "show warnings")
	flag.IntVarP(&o.compression, "zip-compression-level", "", 9, "output ZIP file compression level, between 0 and 9")

	startDateFilter := flag.StringP("date-start", "", "", "start date filter, as YYYYMMDD")
	endDateFilter := flag.StringP("date-end", "", "", "end date filter, as YYYYMMDD")

	flag.StringArrayVar(&bboxStrings, "bounding-box", []string{}, "bounding box filter, as comma separated latitude,longitude pairs (multiple boxes allowed by defining --bounding-box multiple times)")
	flag.StringArrayVar(&polygonStrings, "polygon", []string{}, "polygon filter, as comma separated latitude,longitude pairs (multiple polygons allowed by defining --polygon multiple times)")
	flag.StringArrayVar(&polygonFiles, "polygon-file", []string{}, "polygon filter, as a file containing comma separated latitude,longitude pairs, or a GeoJSON file ending with .geojson or .json")

	help := flag.BoolP("help", "?", false, "this message")

	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Exactly one GTFS location expected, see --help")
		os.Exit(1)
	}
	o.inputPath = flag.Arg(0)

	var err error
	if len(*startDateFilter) > 0 {
		o.dateStart, err = parseDate(*startDateFilter)
	}
	if err == nil && len(*endDateFilter) > 0 {
		o.dateEnd, err = parseDate(*endDateFilter)
	}
	if err == nil {
		o.polygons, err = parsePolygons(bboxStrings, polygonStrings, polygonFiles)
	}
	if err == nil {
		err = run(context.Background(), o)
	}

	if err != nil {
		errc.Fprintf(os.Stderr, "\nError: ")
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
