// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

// Package directions decides, per route, which canonical direction and
// which destination label every trip carries.
package directions

import (
	"strconv"
	"strings"
)

// Direction is a canonical, rider facing direction tag
type Direction string

const (
	North             Direction = "NORTH"
	South             Direction = "SOUTH"
	East              Direction = "EAST"
	West              Direction = "WEST"
	Inbound           Direction = "INBOUND"
	Outbound          Direction = "OUTBOUND"
	Clockwise0        Direction = "CLOCKWISE_0"
	Clockwise1        Direction = "CLOCKWISE_1"
	Counterclockwise0 Direction = "COUNTERCLOCKWISE_0"
	Counterclockwise1 Direction = "COUNTERCLOCKWISE_1"
)

var allDirections = map[Direction]bool{
	North: true, South: true,
	East: true, West: true,
	Inbound: true, Outbound: true,
	Clockwise0: true, Clockwise1: true,
	Counterclockwise0: true, Counterclockwise1: true,
}

// Valid is true if d is one of the known direction tags
func (d Direction) Valid() bool {
	return allDirections[d]
}

// ParseDirection returns the direction tag for s, ignoring case
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	return d, d.Valid()
}

// StopVisit is a single stop of a trip, identified by its stop code
type StopVisit struct {
	StopCode string
	Sequence int
}

// Trip is the part of a feed trip the direction engine looks at
type Trip struct {
	ID          string
	RouteID     int64
	DirectionID int
	Headsign    string
	Stops       []StopVisit
}

// Resolved is the outcome of classifying a single trip
type Resolved struct {
	Direction Direction
	Label     string
}

// Segment is a classified piece of a trip. Most trips give exactly one
// segment covering all stops, looping trips of waypoint routes may be
// cut into two at the stop where one direction continues into the other.
type Segment struct {
	TripID    string
	RouteID   int64
	Part      int
	Index     int
	Direction Direction
	Label     string

	// stop range [From, To) of the original trip
	From  int
	To    int
	Stops []StopVisit
}

// ParseRouteID parses the numeric route id out of a route short name
func ParseRouteID(shortName string) (int64, error) {
	return parseID("route short name", shortName)
}

// ParseStopID parses the numeric stop id out of a stop code
func ParseStopID(code string) (int64, error) {
	return parseID("stop code", code)
}

func parseID(kind string, value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, &InvalidIDError{Kind: kind, Value: value, Err: err}
	}
	if id <= 0 {
		return 0, &InvalidIDError{Kind: kind, Value: value}
	}
	return id, nil
}
