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

// OrphanRemover removes entities no longer referenced after filtering:
// trips without stop times, then stops, shapes, services, routes and
// agencies nothing points to anymore
type OrphanRemover struct{}

// Run the OrphanRemover on some feed
func (or OrphanRemover) Run(feed *gtfsparser.Feed) error {
	fmt.Fprintf(os.Stdout, "Removing unreferenced entries... ")

	tripsB := len(feed.Trips)
	stopsB := len(feed.Stops)
	shapesB := len(feed.Shapes)
	servicesB := len(feed.Services)
	routesB := len(feed.Routes)
	agenciesB := len(feed.Agencies)

	for id, t := range feed.Trips {
		if len(t.StopTimes) == 0 && (t.Frequencies == nil || len(*t.Frequencies) == 0) {
			feed.DeleteTrip(id)
		}
	}

	// parent stations may only become orphans once their children are gone
	or.removeStops(feed)
	or.removeStops(feed)

	or.removeShapes(feed)
	or.removeServices(feed)
	or.removeRoutes(feed)
	or.removeAgencies(feed)

	feed.CleanTransfers()

	fmt.Fprintf(os.Stdout, "done. (-%d trips [-%.2f%%], -%d stops [-%.2f%%], -%d shapes [-%.2f%%], -%d services [-%.2f%%], -%d routes [-%.2f%%], -%d agencies [-%.2f%%])\n",
		tripsB-len(feed.Trips), percent(tripsB-len(feed.Trips), tripsB),
		stopsB-len(feed.Stops), percent(stopsB-len(feed.Stops), stopsB),
		shapesB-len(feed.Shapes), percent(shapesB-len(feed.Shapes), shapesB),
		servicesB-len(feed.Services), percent(servicesB-len(feed.Services), servicesB),
		routesB-len(feed.Routes), percent(routesB-len(feed.Routes), routesB),
		agenciesB-len(feed.Agencies), percent(agenciesB-len(feed.Agencies), agenciesB))

	return nil
}

func (or OrphanRemover) removeStops(feed *gtfsparser.Feed) {
	referenced := make(map[*gtfs.Stop]empty)
	for _, t := range feed.Trips {
		for _, st := range t.StopTimes {
			referenced[st.Stop()] = empty{}
		}
	}

	// entrances and generic nodes do not keep their station alive
	for _, s := range feed.Stops {
		if s.Parent_station != nil && !isStationPart(s) {
			referenced[s.Parent_station] = empty{}
		}
	}

	for _, p := range feed.Pathways {
		if p.From_stop != nil {
			referenced[p.From_stop] = empty{}
		}
		if p.To_stop != nil {
			referenced[p.To_stop] = empty{}
		}
	}

	for id, s := range feed.Stops {
		if isStationPart(s) {
			continue
		}
		if _, in := referenced[s]; !in {
			feed.DeleteStop(id)
		}
	}

	// entrances and generic nodes are kept as long as their station is
	for id, s := range feed.Stops {
		if !isStationPart(s) {
			continue
		}
		if !inFeed(feed, s.Parent_station) {
			feed.DeleteStop(id)
		}
	}

	for id, p := range feed.Pathways {
		if !inFeed(feed, p.From_stop) || !inFeed(feed, p.To_stop) {
			feed.DeletePathway(id)
		}
	}
}

func inFeed(feed *gtfsparser.Feed, s *gtfs.Stop) bool {
	return s != nil && feed.Stops[s.Id] == s
}

func isStationPart(s *gtfs.Stop) bool {
	return s.Location_type == 2 || s.Location_type == 3
}

func (or OrphanRemover) removeShapes(feed *gtfsparser.Feed) {
	referenced := make(map[*gtfs.Shape]empty)
	for _, t := range feed.Trips {
		if t.Shape != nil {
			referenced[t.Shape] = empty{}
		}
	}

	for id, s := range feed.Shapes {
		if _, in := referenced[s]; !in {
			feed.DeleteShape(id)
		}
	}
}

func (or OrphanRemover) removeServices(feed *gtfsparser.Feed) {
	referenced := make(map[*gtfs.Service]empty)
	for _, t := range feed.Trips {
		referenced[t.Service] = empty{}
	}

	for id, s := range feed.Services {
		if _, in := referenced[s]; !in {
			feed.DeleteService(id)
		}
	}
}

func (or OrphanRemover) removeRoutes(feed *gtfsparser.Feed) {
	referenced := make(map[*gtfs.Route]empty)
	for _, t := range feed.Trips {
		referenced[t.Route] = empty{}
	}

	for id, r := range feed.Routes {
		if _, in := referenced[r]; !in {
			feed.DeleteRoute(id)
		}
	}
}

func (or OrphanRemover) removeAgencies(feed *gtfsparser.Feed) {
	referenced := make(map[*gtfs.Agency]empty)
	for _, r := range feed.Routes {
		if r.Agency != nil {
			referenced[r.Agency] = empty{}
		}
	}

	for _, fa := range feed.FareAttributes {
		if fa.Agency != nil {
			referenced[fa.Agency] = empty{}
		}
	}

	for id, a := range feed.Agencies {
		if _, in := referenced[a]; !in {
			feed.DeleteAgency(id)
		}
	}
}
