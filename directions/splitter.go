// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package directions

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// DirectionSpec is the expected shape of one direction of a waypoint
// route: an ordered list of waypoints, each waypoint being one or more
// alternative stop codes
type DirectionSpec struct {
	Direction Direction
	Label     string
	Waypoints [][]string
}

// WaypointSpec describes both directions of a waypoint route
type WaypointSpec struct {
	RouteID    int64
	Directions [2]DirectionSpec
}

// Splitter classifies trips of routes whose direction_id and headsign
// cannot be trusted by matching their stops against waypoint sequences
type Splitter struct {
	specs map[int64]WaypointSpec

	// per route and direction: stop code -> waypoint position
	positions map[int64][2]map[string]int
}

// NewSplitter creates a Splitter from a list of waypoint specs
func NewSplitter(specs []WaypointSpec) *Splitter {
	s := &Splitter{
		specs:     make(map[int64]WaypointSpec, len(specs)),
		positions: make(map[int64][2]map[string]int, len(specs)),
	}

	for _, spec := range specs {
		var pos [2]map[string]int
		for i := range spec.Directions {
			wps := make([][]string, len(spec.Directions[i].Waypoints))
			pos[i] = make(map[string]int)
			for j, wp := range spec.Directions[i].Waypoints {
				wps[j] = append([]string(nil), wp...)
				for _, code := range wp {
					// a stop shared by both ends of a loop keeps its first position
					if _, ok := pos[i][code]; !ok {
						pos[i][code] = j
					}
				}
			}
			spec.Directions[i].Waypoints = wps
		}
		s.specs[spec.RouteID] = spec
		s.positions[spec.RouteID] = pos
	}

	return s
}

// Has is true if the route is classified by waypoints
func (s *Splitter) Has(routeID int64) bool {
	_, ok := s.specs[routeID]
	return ok
}

// Spec returns the waypoint spec of a route
func (s *Splitter) Spec(routeID int64) (WaypointSpec, bool) {
	spec, ok := s.specs[routeID]
	return spec, ok
}

// Routes returns the ids of all waypoint routes
func (s *Splitter) Routes() []int64 {
	ret := make([]int64, 0, len(s.specs))
	for id := range s.specs {
		ret = append(ret, id)
	}
	slices.Sort(ret)
	return ret
}

// match returns the stop positions of the first and the last waypoint
// if all waypoints occur in order within stops
func match(waypoints [][]string, stops []StopVisit) (int, int, bool) {
	if len(waypoints) == 0 {
		return 0, 0, false
	}

	first := -1
	i := 0
	for _, wp := range waypoints {
		for i < len(stops) && !slices.Contains(wp, stops[i].StopCode) {
			i++
		}
		if i == len(stops) {
			return 0, 0, false
		}
		if first == -1 {
			first = i
		}
		i++
	}

	return first, i - 1, true
}

// Match classifies a single trip. A trip matching only one direction
// gives one segment. If both directions match, the longer waypoint
// sequence wins. On a tie, a trip running through one direction and
// continuing into the other at a shared stop is split at that stop.
func (s *Splitter) Match(trip Trip) ([]Segment, error) {
	spec, ok := s.specs[trip.RouteID]
	if !ok {
		return nil, &UnmatchedWaypointsError{trip.RouteID, trip.ID}
	}

	var ends [2]int
	var oks [2]bool
	for i, d := range spec.Directions {
		_, ends[i], oks[i] = match(d.Waypoints, trip.Stops)
	}

	switch {
	case oks[0] && !oks[1]:
		return []Segment{s.segment(trip, spec, 0, 0, 0, len(trip.Stops))}, nil
	case oks[1] && !oks[0]:
		return []Segment{s.segment(trip, spec, 1, 0, 0, len(trip.Stops))}, nil
	case !oks[0] && !oks[1]:
		return nil, &UnmatchedWaypointsError{trip.RouteID, trip.ID}
	}

	l0 := len(spec.Directions[0].Waypoints)
	l1 := len(spec.Directions[1].Waypoints)

	if l0 > l1 {
		return []Segment{s.segment(trip, spec, 0, 0, 0, len(trip.Stops))}, nil
	}
	if l1 > l0 {
		return []Segment{s.segment(trip, spec, 1, 0, 0, len(trip.Stops))}, nil
	}

	for first := 0; first < 2; first++ {
		second := 1 - first
		cut := ends[first]
		start, _, ok := match(spec.Directions[second].Waypoints, trip.Stops[cut:])
		if ok && start == 0 {
			return []Segment{
				s.segment(trip, spec, first, 0, 0, cut+1),
				s.segment(trip, spec, second, 1, cut, len(trip.Stops)),
			}, nil
		}
	}

	return nil, &AmbiguousWaypointsError{trip.RouteID, trip.ID}
}

func (s *Splitter) segment(trip Trip, spec WaypointSpec, index int, part int, from int, to int) Segment {
	return Segment{
		TripID:    trip.ID,
		RouteID:   trip.RouteID,
		Part:      part,
		Index:     index,
		Direction: spec.Directions[index].Direction,
		Label:     spec.Directions[index].Label,
		From:      from,
		To:        to,
		Stops:     append([]StopVisit(nil), trip.Stops[from:to]...),
	}
}

// Split classifies all trips of a waypoint route into exactly two
// groups, one per direction. The first trip that cannot be classified
// aborts the split.
func (s *Splitter) Split(routeID int64, trips []Trip) ([2][]Segment, error) {
	var groups [2][]Segment

	for _, t := range trips {
		if t.RouteID != routeID {
			return groups, fmt.Errorf("trip '%s' belongs to route %d, not %d", t.ID, t.RouteID, routeID)
		}
		segs, err := s.Match(t)
		if err != nil {
			return [2][]Segment{}, err
		}
		for _, seg := range segs {
			groups[seg.Index] = append(groups[seg.Index], seg)
		}
	}

	return groups, nil
}

// Compare returns a comparator ranking stop codes by their position in
// the waypoint sequence of the given direction. Stops that are not
// waypoints rank after all waypoints, equal ranks compare as 0 so that
// a stable sort keeps the feed order.
func (s *Splitter) Compare(routeID int64, index int) func(a, b string) int {
	pos := s.positions[routeID]
	var p map[string]int
	if index >= 0 && index < 2 {
		p = pos[index]
	}

	return func(a, b string) int {
		pa, okA := p[a]
		pb, okB := p[b]

		switch {
		case okA && okB:
			return pa - pb
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	}
}

// MergeStops merges the stop sequences of several trips of one
// direction into a single stop list. Each sequence keeps its own feed
// order. A stop missing from the list is inserted after the closest
// preceding stop of its sequence that is already listed, Compare only
// decides its place among listed stops the sequence does not visit.
// The longest sequence is taken as the base.
func (s *Splitter) MergeStops(routeID int64, index int, seqs [][]StopVisit) []StopVisit {
	if len(seqs) == 0 {
		return nil
	}

	base := 0
	for i, seq := range seqs {
		if len(seq) > len(seqs[base]) {
			base = i
		}
	}

	order := make([][]StopVisit, 0, len(seqs))
	order = append(order, seqs[base])
	order = append(order, seqs[:base]...)
	order = append(order, seqs[base+1:]...)

	cmp := s.Compare(routeID, index)
	var ret []StopVisit

	for _, seq := range order {
		for i, v := range seq {
			if indexOf(ret, v.StopCode) >= 0 {
				continue
			}

			from := 0
			for j := i - 1; j >= 0; j-- {
				if p := indexOf(ret, seq[j].StopCode); p >= 0 {
					from = p + 1
					break
				}
			}

			to := len(ret)
			for j := i + 1; j < len(seq); j++ {
				if p := indexOf(ret, seq[j].StopCode); p >= from {
					to = p
					break
				}
			}

			pos := from
			for pos < to && cmp(ret[pos].StopCode, v.StopCode) < 0 {
				pos++
			}

			ret = slices.Insert(ret, pos, v)
		}
	}

	return ret
}

func indexOf(stops []StopVisit, code string) int {
	return slices.IndexFunc(stops, func(v StopVisit) bool { return v.StopCode == code })
}
