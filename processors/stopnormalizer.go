// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package processors

import (
	"fmt"
	"os"
	"strconv"

	"github.com/patrickbr/gtfsdirections/cleaner"
	"github.com/patrickbr/gtfsdirections/directions"
	"github.com/patrickbr/gtfsparser"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// StopNormalizer checks that every stop served by a trip carries a
// numeric stop code, canonicalizes the codes and cleans stop names
type StopNormalizer struct{}

// Run this StopNormalizer on some feed
func (sn StopNormalizer) Run(feed *gtfsparser.Feed) error {
	fmt.Fprintf(os.Stdout, "Normalizing stops... ")

	ids := maps.Keys(feed.Stops)
	slices.Sort(ids)

	renamed := 0

	for _, id := range ids {
		s := feed.Stops[id]

		// stations, entrances and nodes are never part of a stop pattern
		if s.Location_type == 0 {
			code, err := directions.ParseStopID(s.Code)
			if err != nil {
				fmt.Fprintf(os.Stdout, "failed.\n")
				return fmt.Errorf("stop '%s': %w", id, err)
			}
			s.Code = strconv.FormatInt(code, 10)
		}

		name := cleaner.CleanStopName(s.Name)
		if name != s.Name {
			renamed++
		}
		s.Name = name
	}

	fmt.Fprintf(os.Stdout, "done. (%d stops, %d names cleaned)\n", len(ids), renamed)

	return nil
}

// StopCodes returns the codes of all stops in the feed
func StopCodes(feed *gtfsparser.Feed) map[string]bool {
	ret := make(map[string]bool, len(feed.Stops))
	for _, s := range feed.Stops {
		if len(s.Code) > 0 {
			ret[s.Code] = true
		}
	}
	return ret
}

// RouteIDs returns the numeric ids of all routes in the feed. Routes
// must have been normalized before.
func RouteIDs(feed *gtfsparser.Feed) map[int64]bool {
	ret := make(map[int64]bool, len(feed.Routes))
	for id := range feed.Routes {
		if rid, err := directions.ParseRouteID(id); err == nil {
			ret[rid] = true
		}
	}
	return ret
}
