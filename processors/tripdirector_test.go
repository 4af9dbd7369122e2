// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package processors

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/patrickbr/gtfsdirections/directions"
	"github.com/patrickbr/gtfsparser"
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
)

func stopCodes(st gtfs.StopTimes) []string {
	ret := make([]string, len(st))
	for i := range st {
		ret[i] = st[i].Stop().Code
	}
	return ret
}

func checkTrip(t *testing.T, feed *gtfsparser.Feed, id string, dirId int, headsign string, dirName directions.Direction) {
	t.Helper()

	trip, ok := feed.Trips[id]
	if !ok {
		t.Errorf("trip %s missing", id)
		return
	}

	if trip.Headsign == nil || *trip.Headsign != headsign {
		t.Errorf("trip %s: expected headsign %q", id, headsign)
	}
	if int(trip.Direction_id) != dirId {
		t.Errorf("trip %s: expected direction_id %d, got %d", id, dirId, trip.Direction_id)
	}
	if got := feed.TripsAddFlds[DirectionNameField][id]; got != string(dirName) {
		t.Errorf("trip %s: expected direction %s, got %s", id, dirName, got)
	}
}

func TestTripDirector(t *testing.T) {
	feed, tables := normalizedTestFeed(t)

	td := &TripDirector{Engine: tables.Build(false)}
	if err := td.Run(feed); err != nil {
		t.Fatal(err)
	}

	checkTrip(t, feed, "t1a", 0, "Downtown", directions.North)
	checkTrip(t, feed, "t1b", 1, "Mission Rec Exch", directions.South)
	checkTrip(t, feed, "t1c", 1, "Mission Rec Exch", directions.South)
	checkTrip(t, feed, "t7a", 0, "Cambridge & Ellis", directions.Clockwise0)
	checkTrip(t, feed, "t7b", 1, "Queensway Exch", directions.Clockwise1)

	// the loop is cut at the stop where one direction continues into the other
	checkTrip(t, feed, "t7loop", 0, "Cambridge & Ellis", directions.Clockwise0)
	checkTrip(t, feed, "t7loop_1", 1, "Queensway Exch", directions.Clockwise1)

	if len(feed.Trips) != 7 {
		t.Errorf("expected 7 trips, got %d", len(feed.Trips))
	}

	if diff := cmp.Diff([]string{"201", "202", "203"}, stopCodes(feed.Trips["t7loop"].StopTimes)); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]string{"203", "204", "201"}, stopCodes(feed.Trips["t7loop_1"].StopTimes)); diff != "" {
		t.Error(diff)
	}

	if feed.Trips["t7loop_1"].Service != feed.Trips["t7loop"].Service || feed.Trips["t7loop_1"].Route != feed.Trips["t7loop"].Route {
		t.Error("split trip should keep route and service")
	}

	if feed.Trips["t7loop_1"].StopTimes[0].Sequence() != 3 {
		t.Error("split trip should keep the stop sequences of the original")
	}

	expected := []directions.Pattern{
		{RouteID: 1, Index: 0, Direction: directions.North, Label: "Downtown", Stops: []string{"103", "102", "101"}},
		{RouteID: 1, Index: 1, Direction: directions.South, Label: "Mission Rec Exch", Stops: []string{"101", "102", "103"}},
		{RouteID: 7, Index: 0, Direction: directions.Clockwise0, Label: "Cambridge & Ellis", Stops: []string{"201", "202", "203"}},
		{RouteID: 7, Index: 1, Direction: directions.Clockwise1, Label: "Queensway Exch", Stops: []string{"203", "204", "201"}},
	}
	if diff := cmp.Diff(expected, td.Patterns); diff != "" {
		t.Error(diff)
	}
}

func TestTripDirectorUnexpectedHeadsign(t *testing.T) {
	feed, tables := normalizedTestFeed(t)

	nowhere := "Nowhere"
	feed.Trips["t1c"].Headsign = &nowhere

	err := (&TripDirector{Engine: tables.Build(false)}).Run(feed)

	var herr *directions.UnexpectedHeadsignError
	if !errors.As(err, &herr) {
		t.Fatalf("expected UnexpectedHeadsignError, got %v", err)
	}
	if herr.RouteID != 1 || herr.TripID != "t1c" || herr.Headsign != "Nowhere" {
		t.Error(herr)
	}
}

func TestTripDirectorUnmatchedWaypoints(t *testing.T) {
	feed, tables := normalizedTestFeed(t)

	feed.Trips["t7b"].StopTimes = feed.Trips["t7b"].StopTimes[:1]

	err := (&TripDirector{Engine: tables.Build(false)}).Run(feed)

	var werr *directions.UnmatchedWaypointsError
	if !errors.As(err, &werr) || werr.TripID != "t7b" {
		t.Errorf("expected UnmatchedWaypointsError for t7b, got %v", err)
	}
}

func TestTripDirectorUnknownRoute(t *testing.T) {
	feed, _ := normalizedTestFeed(t)

	tables := testTables(t)
	tables.Headsigns = nil
	tables.Merges = nil

	err := (&TripDirector{Engine: tables.Build(false)}).Run(feed)

	var herr *directions.UnexpectedHeadsignError
	if !errors.As(err, &herr) || herr.RouteID != 1 {
		t.Errorf("routes without rules should be rejected, got %v", err)
	}
}
