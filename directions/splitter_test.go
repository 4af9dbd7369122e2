// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package directions

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func visits(codes ...string) []StopVisit {
	ret := make([]StopVisit, len(codes))
	for i, c := range codes {
		ret[i] = StopVisit{StopCode: c, Sequence: i + 1}
	}
	return ret
}

func codes(vs []StopVisit) []string {
	ret := make([]string, len(vs))
	for i, v := range vs {
		ret[i] = v.StopCode
	}
	return ret
}

func abcSplitter() *Splitter {
	return NewSplitter([]WaypointSpec{
		{
			RouteID: 7,
			Directions: [2]DirectionSpec{
				{Direction: Clockwise0, Label: "C Exch", Waypoints: [][]string{{"A"}, {"B"}, {"C"}}},
				{Direction: Clockwise1, Label: "A Exch", Waypoints: [][]string{{"C"}, {"D"}, {"A"}}},
			},
		},
		{
			RouteID: 8,
			Directions: [2]DirectionSpec{
				{Direction: East, Label: "Far East", Waypoints: [][]string{{"A"}, {"B"}, {"C"}, {"E"}}},
				{Direction: West, Label: "Far West", Waypoints: [][]string{{"E"}, {"A"}}},
			},
		},
		{
			RouteID: 9,
			Directions: [2]DirectionSpec{
				{Direction: North, Label: "Up", Waypoints: [][]string{{"A", "A2"}, {"B"}}},
				{Direction: South, Label: "Down", Waypoints: [][]string{{"B"}, {"A", "A2"}}},
			},
		},
	})
}

func TestSplitterMatch(t *testing.T) {
	s := abcSplitter()

	segs, err := s.Match(Trip{ID: "t1", RouteID: 7, Stops: visits("A", "B", "C")})
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 1 || segs[0].Index != 0 || segs[0].Direction != Clockwise0 || segs[0].Label != "C Exch" {
		t.Error(segs)
	}

	segs, err = s.Match(Trip{ID: "t2", RouteID: 7, Stops: visits("C", "D", "A")})
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 1 || segs[0].Index != 1 || segs[0].Direction != Clockwise1 {
		t.Error(segs)
	}

	_, err = s.Match(Trip{ID: "t3", RouteID: 7, Stops: visits("A", "D", "B")})
	var uerr *UnmatchedWaypointsError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UnmatchedWaypointsError, got %v", err)
	}
	if uerr.RouteID != 7 || uerr.TripID != "t3" {
		t.Error(uerr)
	}
}

func TestSplitterMatchWithIntermediateStops(t *testing.T) {
	s := abcSplitter()

	segs, err := s.Match(Trip{ID: "t1", RouteID: 7, Stops: visits("X", "A", "Y", "B", "Z", "C", "W")})
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 1 || segs[0].Index != 0 {
		t.Fatal(segs)
	}
	if diff := cmp.Diff([]string{"X", "A", "Y", "B", "Z", "C", "W"}, codes(segs[0].Stops)); diff != "" {
		t.Error(diff)
	}
}

func TestSplitterAlternativeStops(t *testing.T) {
	s := abcSplitter()

	segs, err := s.Match(Trip{ID: "t1", RouteID: 9, Stops: visits("A2", "B")})
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 1 || segs[0].Direction != North {
		t.Error(segs)
	}

	segs, err = s.Match(Trip{ID: "t2", RouteID: 9, Stops: visits("B", "A")})
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 1 || segs[0].Direction != South {
		t.Error(segs)
	}
}

func TestSplitterLongerMatchWins(t *testing.T) {
	s := abcSplitter()

	// matches both [A B C E] and [E A], the longer sequence wins
	segs, err := s.Match(Trip{ID: "t1", RouteID: 8, Stops: visits("E", "A", "B", "C", "E")})
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 1 || segs[0].Direction != East || len(segs[0].Stops) != 5 {
		t.Error(segs)
	}
}

func TestSplitterLoopIsSplit(t *testing.T) {
	s := abcSplitter()

	segs, err := s.Match(Trip{ID: "loop", RouteID: 7, Stops: visits("A", "B", "C", "D", "A")})
	if err != nil {
		t.Fatal(err)
	}

	expected := []Segment{
		{TripID: "loop", RouteID: 7, Part: 0, Index: 0, Direction: Clockwise0, Label: "C Exch", From: 0, To: 3},
		{TripID: "loop", RouteID: 7, Part: 1, Index: 1, Direction: Clockwise1, Label: "A Exch", From: 2, To: 5},
	}

	if diff := cmp.Diff(expected, segs, cmpopts.IgnoreFields(Segment{}, "Stops")); diff != "" {
		t.Error(diff)
	}

	// the continue stop belongs to both parts
	if diff := cmp.Diff([]string{"A", "B", "C"}, codes(segs[0].Stops)); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]string{"C", "D", "A"}, codes(segs[1].Stops)); diff != "" {
		t.Error(diff)
	}
	if segs[1].Stops[0].Sequence != 3 {
		t.Error(segs[1].Stops[0])
	}
}

func TestSplitterAmbiguous(t *testing.T) {
	s := abcSplitter()

	// both sequences match, but neither continues into the other
	_, err := s.Match(Trip{ID: "t1", RouteID: 7, Stops: visits("A", "C", "B", "D", "C", "A")})
	var aerr *AmbiguousWaypointsError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AmbiguousWaypointsError, got %v", err)
	}
	if aerr.TripID != "t1" {
		t.Error(aerr)
	}
}

func TestSplitterUnknownRoute(t *testing.T) {
	s := abcSplitter()

	if s.Has(1) {
		t.Error("route 1 has no waypoints")
	}

	_, err := s.Match(Trip{ID: "t1", RouteID: 1, Stops: visits("A", "B", "C")})
	var uerr *UnmatchedWaypointsError
	if !errors.As(err, &uerr) {
		t.Errorf("expected UnmatchedWaypointsError, got %v", err)
	}
}

func TestSplitterSplit(t *testing.T) {
	s := abcSplitter()

	groups, err := s.Split(7, []Trip{
		{ID: "t1", RouteID: 7, Stops: visits("A", "B", "C")},
		{ID: "t2", RouteID: 7, Stops: visits("C", "D", "A")},
		{ID: "t3", RouteID: 7, Stops: visits("A", "B", "C", "D", "A")},
	})
	if err != nil {
		t.Fatal(err)
	}

	var ids [2][]string
	for i, g := range groups {
		for _, seg := range g {
			ids[i] = append(ids[i], seg.TripID)
			if seg.Index != i {
				t.Error(seg)
			}
		}
	}

	if diff := cmp.Diff([2][]string{{"t1", "t3"}, {"t2", "t3"}}, ids); diff != "" {
		t.Error(diff)
	}

	_, err = s.Split(7, []Trip{
		{ID: "t1", RouteID: 7, Stops: visits("A", "B", "C")},
		{ID: "t3", RouteID: 7, Stops: visits("A", "D", "B")},
	})
	var uerr *UnmatchedWaypointsError
	if !errors.As(err, &uerr) {
		t.Errorf("expected UnmatchedWaypointsError, got %v", err)
	}

	if _, err := s.Split(7, []Trip{{ID: "t1", RouteID: 8, Stops: visits("A", "B", "C")}}); err == nil {
		t.Error("expected error for trip of another route")
	}
}

func TestSplitterCompare(t *testing.T) {
	s := abcSplitter()
	cmpFn := s.Compare(7, 0)

	if cmpFn("A", "B") >= 0 {
		t.Error("A before B")
	}
	if cmpFn("C", "B") <= 0 {
		t.Error("C after B")
	}
	if cmpFn("B", "X") >= 0 {
		t.Error("waypoints before others")
	}
	if cmpFn("X", "C") <= 0 {
		t.Error("others after waypoints")
	}
	if cmpFn("X", "Y") != 0 {
		t.Error("others are equal")
	}
	if cmpFn("A", "A") != 0 {
		t.Error("A equals A")
	}

	// unknown route or direction ranks nothing
	if s.Compare(1, 0)("A", "B") != 0 || s.Compare(7, 5)("A", "B") != 0 {
		t.Error("expected 0")
	}
}

func TestSplitterMergeStops(t *testing.T) {
	s := abcSplitter()

	// a single trip keeps its feed order
	got := s.MergeStops(7, 0, [][]StopVisit{visits("A", "x1", "x2", "B", "x3", "C")})
	if diff := cmp.Diff([]string{"A", "x1", "x2", "B", "x3", "C"}, codes(got)); diff != "" {
		t.Error(diff)
	}

	// the longest trip is the base, stops of others go after their predecessor
	in := [][]StopVisit{visits("A", "y", "C"), visits("A", "x", "B", "C")}
	got = s.MergeStops(7, 0, in)
	if diff := cmp.Diff([]string{"A", "y", "x", "B", "C"}, codes(got)); diff != "" {
		t.Error(diff)
	}

	// input is untouched
	if diff := cmp.Diff([]string{"A", "y", "C"}, codes(in[0])); diff != "" {
		t.Error(diff)
	}

	// a waypoint missing from the base is placed along the waypoints
	got = s.MergeStops(7, 1, [][]StopVisit{visits("C", "x", "y", "A"), visits("C", "D")})
	if diff := cmp.Diff([]string{"C", "D", "x", "y", "A"}, codes(got)); diff != "" {
		t.Error(diff)
	}

	// no waypoints on other routes, plain merge
	got = s.MergeStops(1, 0, [][]StopVisit{visits("3", "2"), visits("0", "3", "2", "1")})
	if diff := cmp.Diff([]string{"0", "3", "2", "1"}, codes(got)); diff != "" {
		t.Error(diff)
	}

	if got := s.MergeStops(7, 0, nil); len(got) != 0 {
		t.Error(got)
	}
}

func TestSplitterRoutes(t *testing.T) {
	if diff := cmp.Diff([]int64{7, 8, 9}, abcSplitter().Routes()); diff != "" {
		t.Error(diff)
	}
}
