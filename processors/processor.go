// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

// Package processors holds the feed passes run between parsing and
// writing. Each pass modifies the feed in place and returns the first
// error that makes the result unusable.
package processors

import (
	"fmt"

	"github.com/patrickbr/gtfsparser"
)

type Processor interface {
	Run(*gtfsparser.Feed) error
}

type empty struct{}

// percent of a in b, for the statistics printed after each pass
func percent(a int, b int) float64 {
	return 100.0 * float64(a) / (float64(b) + 0.001)
}

// get a free trip id with the given prefix
func freeTripId(feed *gtfsparser.Feed, prefix string, counter *uint) string {
	for *counter < ^uint(0) {
		*counter += 1
		tid := prefix + fmt.Sprint(*counter)
		if _, ok := feed.Trips[tid]; !ok {
			return tid
		}
	}
	panic("ran out of free trip ids")
}
