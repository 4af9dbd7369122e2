// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

// Package config loads the static agency tables driving route colors,
// headsign resolution, label merging and waypoint splitting.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/patrickbr/gtfsdirections/directions"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed kelowna.yml
var kelowna []byte

// Default returns the built-in tables for the Kelowna Regional Transit System
func Default() (*Tables, error) {
	t, err := Parse(kelowna)
	if err != nil {
		return nil, fmt.Errorf("built-in tables: %w", err)
	}
	return t, nil
}

// Load reads tables from a YAML file
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates tables from YAML. Unknown fields are an error.
func Parse(data []byte) (*Tables, error) {
	var t Tables

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, err
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(t); err != nil {
		return nil, err
	}

	if err := t.check(); err != nil {
		return nil, err
	}

	return &t, nil
}

func (t *Tables) check() error {
	var errs []error

	headsignRoutes := make(map[int64]bool)
	for _, h := range t.Headsigns {
		if headsignRoutes[h.Route] {
			errs = append(errs, fmt.Errorf("route %d: duplicate headsign entry", h.Route))
		}
		headsignRoutes[h.Route] = true

		if err := checkPair(h.Directions[0], h.Directions[1]); err != nil {
			errs = append(errs, fmt.Errorf("route %d: %w", h.Route, err))
		}
		if len(h.Dir0)+len(h.Dir1) == 0 {
			errs = append(errs, fmt.Errorf("route %d: no headsigns", h.Route))
		}
	}

	waypointRoutes := make(map[int64]bool)
	for _, w := range t.Waypoints {
		if waypointRoutes[w.Route] {
			errs = append(errs, fmt.Errorf("route %d: duplicate waypoint entry", w.Route))
		}
		waypointRoutes[w.Route] = true

		if headsignRoutes[w.Route] {
			errs = append(errs, fmt.Errorf("route %d: has both headsigns and waypoints", w.Route))
		}
		if err := checkPair(w.Dir0.Direction, w.Dir1.Direction); err != nil {
			errs = append(errs, fmt.Errorf("route %d: %w", w.Route, err))
		}
	}

	mergeRoutes := make(map[int64]bool)
	for _, m := range t.Merges {
		if mergeRoutes[m.Route] {
			errs = append(errs, fmt.Errorf("route %d: duplicate merge entry", m.Route))
		}
		mergeRoutes[m.Route] = true

		for _, s := range m.Sets {
			if !slices.Contains(s.Labels, s.Canonical) {
				errs = append(errs, fmt.Errorf("route %d: canonical label %q is not part of its set", m.Route, s.Canonical))
			}
		}
	}

	return errors.Join(errs...)
}

func checkPair(a string, b string) error {
	da, ok := directions.ParseDirection(a)
	if !ok {
		return fmt.Errorf("unknown direction '%s'", a)
	}
	db, ok := directions.ParseDirection(b)
	if !ok {
		return fmt.Errorf("unknown direction '%s'", b)
	}
	if da == db {
		return fmt.Errorf("both directions are '%s'", da)
	}
	return nil
}

// Build constructs the direction engine from the tables. If lenient is
// set, headsign aliases marked lenient are accepted.
func (t *Tables) Build(lenient bool) *directions.Engine {
	rules := make(map[int64]directions.HeadsignRule, len(t.Headsigns))
	for _, h := range t.Headsigns {
		d0, _ := directions.ParseDirection(h.Directions[0])
		d1, _ := directions.ParseDirection(h.Directions[1])
		rules[h.Route] = directions.HeadsignRule{
			Directions: [2]directions.Direction{d0, d1},
			Headsigns:  [2][]directions.HeadsignAlias{aliases(h.Dir0), aliases(h.Dir1)},
		}
	}

	sets := make(map[int64][]directions.MergeSet, len(t.Merges))
	for _, m := range t.Merges {
		for _, s := range m.Sets {
			sets[m.Route] = append(sets[m.Route], directions.MergeSet{Labels: s.Labels, Canonical: s.Canonical})
		}
	}

	specs := make([]directions.WaypointSpec, 0, len(t.Waypoints))
	for _, w := range t.Waypoints {
		specs = append(specs, directions.WaypointSpec{
			RouteID:    w.Route,
			Directions: [2]directions.DirectionSpec{directionSpec(w.Dir0), directionSpec(w.Dir1)},
		})
	}

	return &directions.Engine{
		Resolver: directions.NewResolver(rules, lenient),
		Merger:   directions.NewMerger(sets),
		Splitter: directions.NewSplitter(specs),
	}
}

func aliases(in []Alias) []directions.HeadsignAlias {
	ret := make([]directions.HeadsignAlias, len(in))
	for i, a := range in {
		ret[i] = directions.HeadsignAlias{Headsign: a.Headsign, Label: a.Label, Lenient: a.Lenient}
	}
	return ret
}

func directionSpec(w WaypointDirection) directions.DirectionSpec {
	d, _ := directions.ParseDirection(w.Direction)
	return directions.DirectionSpec{Direction: d, Label: w.Label, Waypoints: w.Stops}
}

// ColorTable returns the route color table
func (t *Tables) ColorTable() *directions.Colors {
	return directions.NewColors(t.Colors)
}

// StopCodes returns all stop codes referenced by waypoints, sorted
func (t *Tables) StopCodes() []string {
	codes := make(map[string]bool)
	for _, w := range t.Waypoints {
		for _, d := range []WaypointDirection{w.Dir0, w.Dir1} {
			for _, wp := range d.Stops {
				for _, c := range wp {
					codes[c] = true
				}
			}
		}
	}

	ret := maps.Keys(codes)
	slices.Sort(ret)
	return ret
}

// CheckFeed rejects tables that are stale relative to a feed: every
// waypoint route must exist in the feed, and every waypoint stop code
// must be a known stop code.
func (t *Tables) CheckFeed(routeIDs map[int64]bool, stopCodes map[string]bool) error {
	var errs []error

	for _, w := range t.Waypoints {
		if !routeIDs[w.Route] {
			errs = append(errs, fmt.Errorf("waypoint route %d not in feed", w.Route))
		}
	}

	for _, c := range t.StopCodes() {
		if !stopCodes[c] {
			errs = append(errs, fmt.Errorf("waypoint stop code '%s' not in feed", c))
		}
	}

	return errors.Join(errs...)
}
