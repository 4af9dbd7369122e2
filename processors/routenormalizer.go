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
	gtfs "github.com/patrickbr/gtfsparser/gtfs"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// gtfsparser fills in white for a missing route_color
const defaultFeedColor = "FFFFFF"

// RouteNormalizer re-keys routes by the numeric id in their short
// name, cleans their long names and assigns their display colors
type RouteNormalizer struct {
	Colors *directions.Colors
}

// Run this RouteNormalizer on some feed
func (rn RouteNormalizer) Run(feed *gtfsparser.Feed) error {
	fmt.Fprintf(os.Stdout, "Normalizing routes... ")

	routes := make(map[string]*gtfs.Route, len(feed.Routes))
	oldIds := make(map[string]string, len(feed.Routes))
	fromTable := 0

	// sorted, so the reported collision does not depend on map order
	ids := maps.Keys(feed.Routes)
	slices.Sort(ids)

	for _, oldId := range ids {
		r := feed.Routes[oldId]

		id, err := directions.ParseRouteID(r.Short_name)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed.\n")
			return fmt.Errorf("route '%s': %w", oldId, err)
		}

		newId := strconv.FormatInt(id, 10)
		if other, ok := oldIds[newId]; ok {
			fmt.Fprintf(os.Stdout, "failed.\n")
			return fmt.Errorf("routes '%s' and '%s' both have route id %d", other, oldId, id)
		}
		oldIds[newId] = oldId

		longName := r.Long_name
		if cleaner.IsBlank(longName) {
			longName = r.Desc
		}
		if cleaner.IsBlank(longName) {
			fmt.Fprintf(os.Stdout, "failed.\n")
			return fmt.Errorf("route %d: neither long name nor description given", id)
		}

		feedColor := r.Color
		if feedColor == defaultFeedColor {
			feedColor = ""
		}
		if len(feedColor) == 0 {
			fromTable++
		}
		col, err := rn.Colors.Color(id, feedColor)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed.\n")
			return err
		}

		r.Id = newId
		r.Short_name = newId
		r.Long_name = cleaner.CleanRouteLongName(longName)
		r.Color = col
		routes[newId] = r
	}

	for _, flds := range feed.RoutesAddFlds {
		moved := make(map[string]string, len(flds))
		for newId, oldId := range oldIds {
			if v, ok := flds[oldId]; ok {
				moved[newId] = v
			}
		}
		maps.Clear(flds)
		maps.Copy(flds, moved)
	}

	feed.Routes = routes

	fmt.Fprintf(os.Stdout, "done. (%d routes, %d colors from table)\n", len(routes), fromTable)

	return nil
}
