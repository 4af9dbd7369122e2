// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

// Package output writes the app-ready representation of a directed
// feed: an SQLite database and a GeoJSON stop layer.
package output

import (
	"cmp"
	"fmt"

	"github.com/patrickbr/gtfsdirections/directions"
	"github.com/patrickbr/gtfsparser"
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Agency is the single agency of the output
type Agency struct {
	ID    string
	Name  string
	Color string
}

// Route is a route keyed by its numeric id
type Route struct {
	ID        int64
	ShortName string
	LongName  string
	Color     string
}

// Stop is a stop keyed by the numeric id parsed from its code
type Stop struct {
	ID   int64
	Code string
	Name string
	Lat  float64
	Lon  float64
}

// Trip is a trip with its resolved direction
type Trip struct {
	ID        string
	RouteID   int64
	Index     int
	ServiceID string
	Headsign  string
}

// Dataset is everything written to the app-ready outputs
type Dataset struct {
	Agency   Agency
	Routes   []Route
	Stops    []Stop
	Trips    []Trip
	Patterns []directions.Pattern
}

// Collect builds the dataset of a feed that went through the route,
// stop and trip processors
func Collect(feed *gtfsparser.Feed, agency Agency, patterns []directions.Pattern) (*Dataset, error) {
	ds := &Dataset{Agency: agency, Patterns: patterns}

	if a, ok := feed.Agencies[agency.ID]; ok {
		ds.Agency.Name = a.Name
	}

	routeIds := maps.Keys(feed.Routes)
	slices.Sort(routeIds)
	for _, id := range routeIds {
		r := feed.Routes[id]
		rid, err := directions.ParseRouteID(r.Id)
		if err != nil {
			return nil, err
		}
		ds.Routes = append(ds.Routes, Route{rid, r.Short_name, r.Long_name, r.Color})
	}
	slices.SortFunc(ds.Routes, func(a, b Route) int { return cmp.Compare(a.ID, b.ID) })

	// several feed stops may share a code, the first one by id wins
	stopIds := maps.Keys(feed.Stops)
	slices.Sort(stopIds)
	seen := make(map[int64]bool)
	for _, id := range stopIds {
		s := feed.Stops[id]
		if s.Location_type != 0 {
			continue
		}
		sid, err := directions.ParseStopID(s.Code)
		if err != nil {
			return nil, fmt.Errorf("stop '%s': %w", id, err)
		}
		if seen[sid] {
			continue
		}
		seen[sid] = true
		ds.Stops = append(ds.Stops, Stop{sid, s.Code, s.Name, float64(s.Lat), float64(s.Lon)})
	}
	slices.SortFunc(ds.Stops, func(a, b Stop) int { return cmp.Compare(a.ID, b.ID) })

	tripIds := maps.Keys(feed.Trips)
	slices.Sort(tripIds)
	for _, id := range tripIds {
		trip, err := collectTrip(feed.Trips[id])
		if err != nil {
			return nil, err
		}
		ds.Trips = append(ds.Trips, trip)
	}

	return ds, nil
}

func collectTrip(t *gtfs.Trip) (Trip, error) {
	rid, err := directions.ParseRouteID(t.Route.Id)
	if err != nil {
		return Trip{}, fmt.Errorf("trip '%s': %w", t.Id, err)
	}

	ret := Trip{ID: t.Id, RouteID: rid, Index: int(t.Direction_id)}
	if ret.Index < 0 || ret.Index > 1 {
		return Trip{}, fmt.Errorf("trip '%s' has no direction", t.Id)
	}
	if t.Service != nil {
		ret.ServiceID = t.Service.Id()
	}
	if t.Headsign != nil {
		ret.Headsign = *t.Headsign
	}

	return ret, nil
}

// StopRoutes returns, per stop id, the sorted ids of all routes whose
// patterns serve the stop
func (ds *Dataset) StopRoutes() map[int64][]int64 {
	sets := make(map[int64]map[int64]bool)
	for _, p := range ds.Patterns {
		for _, code := range p.Stops {
			sid, err := directions.ParseStopID(code)
			if err != nil {
				continue
			}
			if sets[sid] == nil {
				sets[sid] = make(map[int64]bool)
			}
			sets[sid][p.RouteID] = true
		}
	}

	ret := make(map[int64][]int64, len(sets))
	for sid, set := range sets {
		ret[sid] = maps.Keys(set)
		slices.Sort(ret[sid])
	}
	return ret
}

// String gives a one line summary, for progress output
func (ds *Dataset) String() string {
	return fmt.Sprintf("%d routes, %d directions, %d stops, %d trips", len(ds.Routes), len(ds.Patterns), len(ds.Stops), len(ds.Trips))
}
