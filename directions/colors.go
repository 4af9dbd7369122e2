// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package directions

import (
	"strings"
)

// Colors assigns display colors to routes
type Colors struct {
	table map[int64]string
}

// NewColors creates a color table from route id -> hex color (RRGGBB)
func NewColors(table map[int64]string) *Colors {
	c := &Colors{make(map[int64]string, len(table))}
	for id, col := range table {
		c.table[id] = strings.ToUpper(col)
	}
	return c
}

// Color returns the display color of a route. A color already given in
// the feed always wins.
func (c *Colors) Color(routeID int64, feedColor string) (string, error) {
	if len(strings.TrimSpace(feedColor)) > 0 {
		return strings.ToUpper(strings.TrimSpace(feedColor)), nil
	}
	if col, ok := c.table[routeID]; ok {
		return col, nil
	}
	return "", &MissingColorError{routeID}
}
