// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package processors

import (
	"errors"
	"strings"
	"testing"

	"github.com/patrickbr/gtfsdirections/directions"
)

func TestRouteNormalizer(t *testing.T) {
	feed := filteredTestFeed(t)

	rn := RouteNormalizer{Colors: directions.NewColors(map[int64]string{1: "3fa0d6", 7: "7b9597"})}
	if err := rn.Run(feed); err != nil {
		t.Fatal(err)
	}

	if _, ok := feed.Routes["1-KEL"]; ok {
		t.Error("routes should be re-keyed by their short name")
	}

	r1, ok := feed.Routes["1"]
	if !ok {
		t.Fatal("route 1 missing")
	}
	if r1.Id != "1" || r1.Long_name != "Lakeshore" || r1.Color != "3FA0D6" {
		t.Error(r1.Id, r1.Long_name, r1.Color)
	}

	r7, ok := feed.Routes["7"]
	if !ok {
		t.Fatal("route 7 missing")
	}
	if r7.Long_name != "Cambridge / Ellis" {
		t.Errorf("long name should fall back to the cleaned description, got %q", r7.Long_name)
	}
	if r7.Color != "00FF00" {
		t.Errorf("feed color should win, got %q", r7.Color)
	}

	if feed.Trips["t7a"].Route != r7 {
		t.Error("trips should keep pointing to their route")
	}

	if ids := RouteIDs(feed); !ids[1] || !ids[7] || len(ids) != 2 {
		t.Error(ids)
	}
}

func TestRouteNormalizerMissingColor(t *testing.T) {
	feed := filteredTestFeed(t)

	rn := RouteNormalizer{Colors: directions.NewColors(map[int64]string{7: "7b9597"})}
	err := rn.Run(feed)

	var cerr *directions.MissingColorError
	if !errors.As(err, &cerr) || cerr.RouteID != 1 {
		t.Errorf("expected MissingColorError for route 1, got %v", err)
	}
}

func TestRouteNormalizerInvalidID(t *testing.T) {
	feed := filteredTestFeed(t)
	feed.Routes["7-KEL"].Short_name = "7X"

	err := RouteNormalizer{Colors: directions.NewColors(map[int64]string{1: "3fa0d6"})}.Run(feed)

	var ierr *directions.InvalidIDError
	if !errors.As(err, &ierr) || ierr.Value != "7X" {
		t.Errorf("expected InvalidIDError, got %v", err)
	}
}

func TestRouteNormalizerCollision(t *testing.T) {
	feed := filteredTestFeed(t)
	feed.Routes["7-KEL"].Short_name = "1"

	err := RouteNormalizer{Colors: directions.NewColors(map[int64]string{1: "3fa0d6"})}.Run(feed)
	if err == nil || !strings.Contains(err.Error(), "both have route id 1") {
		t.Errorf("expected collision error, got %v", err)
	}
}

func TestRouteNormalizerNoName(t *testing.T) {
	feed := filteredTestFeed(t)
	feed.Routes["7-KEL"].Desc = " "

	err := RouteNormalizer{Colors: directions.NewColors(map[int64]string{1: "3fa0d6", 7: "7b9597"})}.Run(feed)
	if err == nil || !strings.Contains(err.Error(), "route 7") {
		t.Errorf("expected missing name error, got %v", err)
	}
}
