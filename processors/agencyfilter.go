// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package processors

import (
	"fmt"
	"os"

	"github.com/patrickbr/gtfsparser"
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
)

// AgencyFilter removes all routes, and their trips, not operated by
// the agency with id AgencyID
type AgencyFilter struct {
	AgencyID string
}

// Run this AgencyFilter on some feed
func (af AgencyFilter) Run(feed *gtfsparser.Feed) error {
	fmt.Fprintf(os.Stdout, "Removing routes of agencies other than '%s'... ", af.AgencyID)

	agency, ok := feed.Agencies[af.AgencyID]
	if !ok {
		fmt.Fprintf(os.Stdout, "failed.\n")
		return fmt.Errorf("agency '%s' not in feed", af.AgencyID)
	}

	routesB := len(feed.Routes)
	tripsB := len(feed.Trips)

	dropped := make(map[*gtfs.Route]empty)
	for id, r := range feed.Routes {
		if !af.keep(feed, agency, r) {
			dropped[r] = empty{}
			feed.DeleteRoute(id)
		}
	}

	for id, t := range feed.Trips {
		if _, in := dropped[t.Route]; in {
			feed.DeleteTrip(id)
		}
	}

	fmt.Fprintf(os.Stdout, "done. (-%d routes [-%.2f%%], -%d trips [-%.2f%%])\n",
		routesB-len(feed.Routes), percent(routesB-len(feed.Routes), routesB),
		tripsB-len(feed.Trips), percent(tripsB-len(feed.Trips), tripsB))

	return nil
}

func (af AgencyFilter) keep(feed *gtfsparser.Feed, agency *gtfs.Agency, r *gtfs.Route) bool {
	if r.Agency == nil {
		// agency_id may be omitted in single agency feeds
		return len(feed.Agencies) == 1
	}
	return r.Agency == agency
}
