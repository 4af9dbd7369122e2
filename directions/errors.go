// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package directions

import (
	"fmt"
)

// All errors below mean that the static tables are out of date with the
// feed. None of them is recoverable, the run has to be aborted.

// UnexpectedHeadsignError is returned if a raw trip headsign has no
// entry in the headsign table
type UnexpectedHeadsignError struct {
	RouteID     int64
	TripID      string
	DirectionID int
	Headsign    string
}

func (e *UnexpectedHeadsignError) Error() string {
	return fmt.Sprintf("route %d: unexpected headsign %q (direction_id %d) for trip '%s'", e.RouteID, e.Headsign, e.DirectionID, e.TripID)
}

// UnexpectedMergeError is returned if two labels of the same route
// direction are not a known equivalence set
type UnexpectedMergeError struct {
	RouteID int64
	A       string
	B       string
}

func (e *UnexpectedMergeError) Error() string {
	return fmt.Sprintf("route %d: unexpected headsigns to merge %q & %q", e.RouteID, e.A, e.B)
}

// UnmatchedWaypointsError is returned if the stops of a trip on a
// waypoint route match neither direction
type UnmatchedWaypointsError struct {
	RouteID int64
	TripID  string
}

func (e *UnmatchedWaypointsError) Error() string {
	return fmt.Sprintf("route %d: stops of trip '%s' match no waypoint sequence", e.RouteID, e.TripID)
}

// AmbiguousWaypointsError is returned if the stops of a trip match both
// waypoint sequences equally well and cannot be split
type AmbiguousWaypointsError struct {
	RouteID int64
	TripID  string
}

func (e *AmbiguousWaypointsError) Error() string {
	return fmt.Sprintf("route %d: stops of trip '%s' match both waypoint sequences", e.RouteID, e.TripID)
}

// MissingColorError is returned if neither the feed nor the color
// table define a color for a route
type MissingColorError struct {
	RouteID int64
}

func (e *MissingColorError) Error() string {
	return fmt.Sprintf("route %d: no route color", e.RouteID)
}

// InvalidIDError is returned if a route short name or a stop code is
// not a positive number
type InvalidIDError struct {
	Kind  string
	Value string
	Err   error
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("%s '%s' is not a positive number", e.Kind, e.Value)
}

func (e *InvalidIDError) Unwrap() error {
	return e.Err
}
