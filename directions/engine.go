// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package directions

import (
	"fmt"
)

// Engine classifies all trips of a route. Waypoint routes go through
// the Splitter, all others through the Resolver, labels of each
// direction are merged afterwards.
type Engine struct {
	Resolver *Resolver
	Merger   *Merger
	Splitter *Splitter
}

// Pattern is the ordered stop list of one direction of a route
type Pattern struct {
	RouteID   int64
	Index     int
	Direction Direction
	Label     string
	Stops     []string
}

// Handles is true if the engine knows how to classify the route
func (e *Engine) Handles(routeID int64) bool {
	return e.Splitter.Has(routeID) || e.Resolver.Has(routeID)
}

// Route classifies the trips of a single route. Every trip gives at
// least one segment, looping trips of waypoint routes may give two.
// After the call, all segments of the same direction carry the same
// label.
func (e *Engine) Route(routeID int64, trips []Trip) ([]Segment, error) {
	segs := make([]Segment, 0, len(trips))

	if e.Splitter.Has(routeID) {
		groups, err := e.Splitter.Split(routeID, trips)
		if err != nil {
			return nil, err
		}
		segs = append(segs, groups[0]...)
		segs = append(segs, groups[1]...)
	} else {
		for _, t := range trips {
			if t.RouteID != routeID {
				return nil, fmt.Errorf("trip '%s' belongs to route %d, not %d", t.ID, t.RouteID, routeID)
			}
			res, err := e.Resolver.Resolve(t)
			if err != nil {
				return nil, err
			}
			segs = append(segs, Segment{
				TripID:    t.ID,
				RouteID:   routeID,
				Index:     t.DirectionID,
				Direction: res.Direction,
				Label:     res.Label,
				From:      0,
				To:        len(t.Stops),
				Stops:     append([]StopVisit(nil), t.Stops...),
			})
		}
	}

	if err := e.merge(routeID, segs); err != nil {
		return nil, err
	}

	return segs, nil
}

func (e *Engine) merge(routeID int64, segs []Segment) error {
	for idx := 0; idx < 2; idx++ {
		labels := make([]string, 0)
		seen := make(map[string]bool)
		for _, s := range segs {
			if s.Index == idx && !seen[s.Label] {
				seen[s.Label] = true
				labels = append(labels, s.Label)
			}
		}

		if len(labels) < 2 {
			continue
		}

		label, err := e.Merger.MergeAll(routeID, labels)
		if err != nil {
			return err
		}

		for i := range segs {
			if segs[i].Index == idx {
				segs[i].Label = label
			}
		}
	}

	return nil
}

// Patterns builds one stop pattern per direction from classified
// segments of a single route. The stop sequences of all segments of a
// direction are merged, on waypoint routes stops of different trips are
// placed relative to each other along the waypoints.
func (e *Engine) Patterns(routeID int64, segs []Segment) []Pattern {
	ret := make([]Pattern, 0, 2)

	for idx := 0; idx < 2; idx++ {
		var pat *Pattern
		var seqs [][]StopVisit

		for _, s := range segs {
			if s.Index != idx {
				continue
			}
			if pat == nil {
				pat = &Pattern{RouteID: routeID, Index: idx, Direction: s.Direction, Label: s.Label}
			}
			seqs = append(seqs, s.Stops)
		}

		if pat == nil {
			continue
		}

		visits := e.Splitter.MergeStops(routeID, idx, seqs)

		pat.Stops = make([]string, len(visits))
		for i, v := range visits {
			pat.Stops[i] = v.StopCode
		}

		ret = append(ret, *pat)
	}

	return ret
}
