// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package processors

import (
	"testing"

	"github.com/patrickbr/gtfsdirections/config"
	"github.com/patrickbr/gtfsparser"
)

func parseTestFeed(t *testing.T) *gtfsparser.Feed {
	t.Helper()

	feed := gtfsparser.NewFeed()
	opts := gtfsparser.ParseOptions{UseDefValueOnError: false, DropErroneous: false, DryRun: false}
	feed.SetParseOpts(opts)

	if e := feed.Parse("./testfeed"); e != nil {
		t.Fatal(e)
	}

	return feed
}

func testTables(t *testing.T) *config.Tables {
	t.Helper()

	tables, err := config.Load("./testdata/tables.yml")
	if err != nil {
		t.Fatal(err)
	}

	return tables
}

// feed filtered to agency 1, with routes and stops normalized
func normalizedTestFeed(t *testing.T) (*gtfsparser.Feed, *config.Tables) {
	t.Helper()

	feed := parseTestFeed(t)
	tables := testTables(t)

	for _, p := range []Processor{
		AgencyFilter{AgencyID: tables.Agency.ID},
		OrphanRemover{},
		RouteNormalizer{Colors: tables.ColorTable()},
		StopNormalizer{},
	} {
		if err := p.Run(feed); err != nil {
			t.Fatal(err)
		}
	}

	return feed, tables
}

// feed filtered to agency 1
func filteredTestFeed(t *testing.T) *gtfsparser.Feed {
	t.Helper()

	feed := parseTestFeed(t)
	if err := (AgencyFilter{AgencyID: "1"}).Run(feed); err != nil {
		t.Fatal(err)
	}
	if err := (OrphanRemover{}).Run(feed); err != nil {
		t.Fatal(err)
	}
	return feed
}
