// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package directions

import (
	"fmt"

	"github.com/patrickbr/gtfsdirections/cleaner"
	"golang.org/x/exp/slices"
	"golang.org/x/text/cases"
)

// HeadsignAlias is a raw headsign expected in the feed
type HeadsignAlias struct {
	// raw headsign, compared case-insensitively
	Headsign string

	// if set, used as the label instead of the cleaned headsign
	Label string

	// only accepted if the resolver is lenient
	Lenient bool
}

// HeadsignRule holds, for a single route, the canonical direction and
// the expected raw headsigns of both raw direction_id values
type HeadsignRule struct {
	Directions [2]Direction
	Headsigns  [2][]HeadsignAlias
}

// Resolver classifies trips by their raw direction_id and headsign
type Resolver struct {
	rules   map[int64]HeadsignRule
	lenient bool
}

// NewResolver creates a Resolver from a per-route rule table. If lenient
// is set, aliases marked as lenient are accepted too.
func NewResolver(rules map[int64]HeadsignRule, lenient bool) *Resolver {
	r := &Resolver{make(map[int64]HeadsignRule, len(rules)), lenient}
	for id, rule := range rules {
		for i := range rule.Headsigns {
			rule.Headsigns[i] = append([]HeadsignAlias(nil), rule.Headsigns[i]...)
		}
		r.rules[id] = rule
	}
	return r
}

// Has is true if the route has a headsign rule
func (r *Resolver) Has(routeID int64) bool {
	_, ok := r.rules[routeID]
	return ok
}

// Directions returns the direction pair of a route
func (r *Resolver) Directions(routeID int64) ([2]Direction, bool) {
	rule, ok := r.rules[routeID]
	return rule.Directions, ok
}

// Routes returns the ids of all routes with a rule
func (r *Resolver) Routes() []int64 {
	ret := make([]int64, 0, len(r.rules))
	for id := range r.rules {
		ret = append(ret, id)
	}
	slices.Sort(ret)
	return ret
}

// Resolve returns the canonical direction and label of a trip
func (r *Resolver) Resolve(trip Trip) (Resolved, error) {
	unexpected := &UnexpectedHeadsignError{trip.RouteID, trip.ID, trip.DirectionID, trip.Headsign}

	rule, ok := r.rules[trip.RouteID]
	if !ok || trip.DirectionID < 0 || trip.DirectionID > 1 {
		return Resolved{}, unexpected
	}

	fold := cases.Fold()
	headsign := fold.String(trip.Headsign)

	for _, alias := range rule.Headsigns[trip.DirectionID] {
		if alias.Lenient && !r.lenient {
			continue
		}
		if fold.String(alias.Headsign) != headsign {
			continue
		}

		label := alias.Label
		if len(label) == 0 {
			var err error
			label, err = cleaner.CleanTripHeadsign(trip.Headsign)
			if err != nil {
				return Resolved{}, fmt.Errorf("route %d: trip '%s': %w", trip.RouteID, trip.ID, err)
			}
		}

		return Resolved{rule.Directions[trip.DirectionID], label}, nil
	}

	return Resolved{}, unexpected
}
