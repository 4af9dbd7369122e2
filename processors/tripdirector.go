// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package processors

import (
	"fmt"
	"os"
	"strings"

	"github.com/patrickbr/gtfsdirections/directions"
	"github.com/patrickbr/gtfsparser"
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DirectionNameField is the additional trips.txt column holding the
// canonical direction of a trip
const DirectionNameField = "direction_name"

// TripDirector assigns every trip its canonical direction and
// destination label. Looping trips of waypoint routes are cut in two,
// the second part becoming a new trip.
type TripDirector struct {
	Engine *directions.Engine

	// per route and direction stop patterns, filled by Run
	Patterns []directions.Pattern

	tidc uint
}

// Run this TripDirector on some feed
func (td *TripDirector) Run(feed *gtfsparser.Feed) error {
	fmt.Fprintf(os.Stdout, "Assigning trip directions... ")

	byRoute := make(map[int64][]*gtfs.Trip)
	for _, t := range feed.Trips {
		rid, err := directions.ParseRouteID(t.Route.Id)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed.\n")
			return fmt.Errorf("trip '%s': %w", t.Id, err)
		}
		byRoute[rid] = append(byRoute[rid], t)
	}

	if feed.TripsAddFlds == nil {
		feed.TripsAddFlds = make(map[string]map[string]string)
	}
	if _, ok := feed.TripsAddFlds[DirectionNameField]; !ok {
		feed.TripsAddFlds[DirectionNameField] = make(map[string]string)
	}

	routeIds := maps.Keys(byRoute)
	slices.Sort(routeIds)

	td.Patterns = nil
	tripsB := len(feed.Trips)

	for _, rid := range routeIds {
		trips := byRoute[rid]
		slices.SortFunc(trips, func(a, b *gtfs.Trip) int {
			return strings.Compare(a.Id, b.Id)
		})

		if err := td.route(feed, rid, trips); err != nil {
			fmt.Fprintf(os.Stdout, "failed.\n")
			return fmt.Errorf("route %d: %w", rid, err)
		}
	}

	fmt.Fprintf(os.Stdout, "done. (%d routes, %d trips, +%d split trips [+%.2f%%])\n",
		len(routeIds), tripsB,
		len(feed.Trips)-tripsB, percent(len(feed.Trips)-tripsB, tripsB))

	return nil
}

func (td *TripDirector) route(feed *gtfsparser.Feed, rid int64, trips []*gtfs.Trip) error {
	in := make([]directions.Trip, len(trips))
	byId := make(map[string]*gtfs.Trip, len(trips))
	stopTimes := make(map[string]gtfs.StopTimes, len(trips))

	for i, t := range trips {
		in[i] = directionsTrip(rid, t)
		byId[t.Id] = t
		stopTimes[t.Id] = t.StopTimes
	}

	segs, err := td.Engine.Route(rid, in)
	if err != nil {
		return err
	}

	for _, s := range segs {
		t := byId[s.TripID]
		if s.Part > 0 {
			t = td.clone(feed, t)
		}

		orig := stopTimes[s.TripID]
		if s.From != 0 || s.To != len(orig) {
			t.StopTimes = append(gtfs.StopTimes(nil), orig[s.From:s.To]...)
		}

		label := s.Label
		t.Headsign = &label
		if s.Index == 0 {
			t.Direction_id = 0
		} else {
			t.Direction_id = 1
		}
		feed.TripsAddFlds[DirectionNameField][t.Id] = string(s.Direction)
	}

	td.Patterns = append(td.Patterns, td.Engine.Patterns(rid, segs)...)

	return nil
}

// copy of trip t under a fresh id, registered in the feed
func (td *TripDirector) clone(feed *gtfsparser.Feed, t *gtfs.Trip) *gtfs.Trip {
	newTrip := new(gtfs.Trip)

	newTrip.Id = freeTripId(feed, t.Id+"_", &td.tidc)
	newTrip.Route = t.Route
	newTrip.Service = t.Service
	newTrip.Headsign = t.Headsign
	newTrip.Short_name = t.Short_name
	newTrip.Direction_id = t.Direction_id
	newTrip.Block_id = t.Block_id
	newTrip.Shape = t.Shape
	newTrip.Wheelchair_accessible = t.Wheelchair_accessible
	newTrip.Bikes_allowed = t.Bikes_allowed
	newTrip.Frequencies = t.Frequencies
	newTrip.StopTimes = append(gtfs.StopTimes(nil), t.StopTimes...)

	for h := range feed.TripsAddFlds {
		if v, ok := feed.TripsAddFlds[h][t.Id]; ok {
			feed.TripsAddFlds[h][newTrip.Id] = v
		}
	}

	for h := range feed.StopTimesAddFlds {
		if v, ok := feed.StopTimesAddFlds[h][t.Id]; ok {
			feed.StopTimesAddFlds[h][newTrip.Id] = v
		}
	}

	feed.Trips[newTrip.Id] = newTrip

	return newTrip
}

func directionsTrip(rid int64, t *gtfs.Trip) directions.Trip {
	ret := directions.Trip{
		ID:          t.Id,
		RouteID:     rid,
		DirectionID: int(t.Direction_id),
		Stops:       make([]directions.StopVisit, len(t.StopTimes)),
	}

	if t.Headsign != nil {
		ret.Headsign = *t.Headsign
	}

	for i, st := range t.StopTimes {
		ret.Stops[i] = directions.StopVisit{StopCode: st.Stop().Code, Sequence: st.Sequence()}
	}

	return ret
}
