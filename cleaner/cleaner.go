// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

// Package cleaner turns raw feed strings (trip headsigns, stop names,
// route names) into short display labels.
package cleaner

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyHeadsign is returned if a headsign has no destination text
// left after cleaning
var ErrEmptyHeadsign = errors.New("headsign is empty after cleaning")

// Exchange is the display abbreviation of "Exchange"
const Exchange = "Exch"

var (
	toRe       = regexp.MustCompile(`(?i)\bto\b`)
	viaRe      = regexp.MustCompile(`(?i)\bvia\b`)
	exchangeRe = regexp.MustCompile(`(?i)\b(exchange|ex)\b`)
	andRe      = regexp.MustCompile(`(?i)\s+and\s+`)
	parenOpen  = regexp.MustCompile(`\s*\(\s*`)
	parenClose = regexp.MustCompile(`\s*\)\s*`)
	numberRe   = regexp.MustCompile(`^\s*(\d+\S*)\s*`)
	ordinalRe  = regexp.MustCompile(`(?i)^\d+(st|nd|rd|th)$`)
	dashRe     = regexp.MustCompile(`^.* - `)
	expressRe  = regexp.MustCompile(`(?i)(\W+express)+\W*$`)
	specialRe  = regexp.MustCompile(`(?i)\bspecial\b`)

	implRe  = regexp.MustCompile(`(?i)^\(-IMPL-\)`)
	boundRe = regexp.MustCompile(`(?i)^\s*(east|west|north|south)bound\b`)
	atRe    = regexp.MustCompile(`(?i)(\s+at\s+|\s*@\s*)`)
)

// CleanTripHeadsign reduces a raw trip headsign to its destination.
// The passes run in a fixed order, the to/via trimming must happen
// before the exchange and street type passes.
func CleanTripHeadsign(headsign string) (string, error) {
	// keep what follows the last "to"
	if m := toRe.FindAllStringIndex(headsign, -1); len(m) > 0 {
		headsign = headsign[m[len(m)-1][1]:]
	}

	// drop everything from "via" on
	if m := viaRe.FindStringIndex(headsign); m != nil {
		headsign = headsign[:m[0]]
	}

	headsign = exchangeRe.ReplaceAllString(headsign, Exchange)
	headsign = andRe.ReplaceAllString(headsign, " & ")
	headsign = parenOpen.ReplaceAllString(headsign, " (")
	headsign = parenClose.ReplaceAllString(headsign, ") ")
	headsign = stripRouteNumbers(headsign)
	headsign = dashRe.ReplaceAllString(headsign, "")
	headsign = expressRe.ReplaceAllString(headsign, "")
	headsign = specialRe.ReplaceAllString(headsign, " ")
	headsign = RemovePoints(headsign)
	headsign = CleanStreetTypes(headsign)
	headsign = CleanNumbers(headsign)
	headsign = CleanLabel(headsign)

	if len(headsign) == 0 {
		return "", ErrEmptyHeadsign
	}

	return headsign, nil
}

// leading route numbers like "97" or "10X", ordinals are destination text
func stripRouteNumbers(s string) string {
	for {
		m := numberRe.FindStringSubmatchIndex(s)
		if m == nil || ordinalRe.MatchString(s[m[2]:m[3]]) {
			return s
		}
		s = s[m[1]:]
	}
}

// CleanStopName returns the display name of a stop
func CleanStopName(name string) string {
	name = implRe.ReplaceAllString(name, "")
	name = boundRe.ReplaceAllString(name, "")
	name = atRe.ReplaceAllString(name, " / ")
	name = exchangeRe.ReplaceAllString(name, Exchange)
	name = CleanStreetTypes(name)
	name = CleanNumbers(name)
	return CleanLabel(name)
}

// CleanRouteLongName returns the display name of a route
func CleanRouteLongName(name string) string {
	name = CleanSlashes(name)
	name = CleanNumbers(name)
	name = CleanStreetTypes(name)
	return CleanLabel(name)
}

// IsBlank is true if s contains nothing but whitespace
func IsBlank(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}
