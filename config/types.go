// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package config

// Tables holds the static per-agency tables
type Tables struct {
	Agency    Agency           `yaml:"agency" validate:"required"`
	Colors    map[int64]string `yaml:"colors" validate:"dive,keys,gt=0,endkeys,hexadecimal,len=6"`
	Headsigns []HeadsignRoute  `yaml:"headsigns" validate:"dive"`
	Merges    []MergeRoute     `yaml:"merges" validate:"dive"`
	Waypoints []WaypointRoute  `yaml:"waypoints" validate:"dive"`
}

// Agency identifies the agency to keep from the feed
type Agency struct {
	ID    string `yaml:"id" validate:"required"`
	Color string `yaml:"color" validate:"omitempty,hexadecimal,len=6"`
}

// HeadsignRoute maps the raw headsigns of a route to its direction pair
type HeadsignRoute struct {
	Route      int64    `yaml:"route" validate:"gt=0"`
	Directions []string `yaml:"directions" validate:"len=2,dive,required"`
	Dir0       []Alias  `yaml:"dir0" validate:"dive"`
	Dir1       []Alias  `yaml:"dir1" validate:"dive"`
}

// Alias is a single expected raw headsign
type Alias struct {
	Headsign string `yaml:"headsign"`
	Label    string `yaml:"label"`
	Lenient  bool   `yaml:"lenient"`
}

// MergeRoute holds the label equivalence sets of a route
type MergeRoute struct {
	Route int64      `yaml:"route" validate:"gt=0"`
	Sets  []MergeSet `yaml:"sets" validate:"min=1,dive"`
}

// MergeSet is a set of equivalent labels and the label replacing them
type MergeSet struct {
	Labels    []string `yaml:"labels" validate:"min=2,dive,required"`
	Canonical string   `yaml:"canonical" validate:"required"`
}

// WaypointRoute describes both directions of a route classified by its stops
type WaypointRoute struct {
	Route int64             `yaml:"route" validate:"gt=0"`
	Dir0  WaypointDirection `yaml:"dir0" validate:"required"`
	Dir1  WaypointDirection `yaml:"dir1" validate:"required"`
}

// WaypointDirection is one direction of a WaypointRoute. Each entry of
// Stops is a waypoint given as one or more alternative stop codes.
type WaypointDirection struct {
	Direction string     `yaml:"direction" validate:"required"`
	Label     string     `yaml:"label" validate:"required"`
	Stops     [][]string `yaml:"stops" validate:"min=2,dive,min=1,dive,numeric"`
}
