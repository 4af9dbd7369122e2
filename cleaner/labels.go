// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package cleaner

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type replacement struct {
	re   *regexp.Regexp
	repl string
}

func word(w string, repl string) replacement {
	return replacement{regexp.MustCompile(`(?i)\b` + w + `\b`), repl}
}

var streetTypes = []replacement{
	word("avenue", "Ave"),
	word("boulevard", "Blvd"),
	word("centre|center", "Ctr"),
	word("court", "Ct"),
	word("creek", "Crk"),
	word("crescent", "Cr"),
	word("drive", "Dr"),
	word("heights", "Hts"),
	word("highway", "Hwy"),
	word("lake", "Lk"),
	word("lane", "Ln"),
	word("mountain", "Mtn"),
	word("parkway", "Pkwy"),
	word("park", "Pk"),
	word("place", "Pl"),
	word("point", "Pt"),
	word("road", "Rd"),
	word("square", "Sq"),
	word("street", "St"),
	word("terrace", "Ter"),
	word("trail", "Trl"),
	word("valley", "Vly"),
}

var ordinals = []replacement{
	word("first", "1st"),
	word("second", "2nd"),
	word("third", "3rd"),
	word("fourth", "4th"),
	word("fifth", "5th"),
	word("sixth", "6th"),
	word("seventh", "7th"),
	word("eighth", "8th"),
	word("ninth", "9th"),
	word("tenth", "10th"),
}

var (
	pointsRe = regexp.MustCompile(`(\w)\.(\s|$)`)
	slashRe  = regexp.MustCompile(`\s*/\s*`)
	spacesRe = regexp.MustCompile(`\s+`)
)

// CleanStreetTypes abbreviates street types (Avenue -> Ave, ...)
func CleanStreetTypes(s string) string {
	for _, r := range streetTypes {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

// CleanNumbers replaces spelled out ordinals by their numeric form
func CleanNumbers(s string) string {
	for _, r := range ordinals {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

// CleanSlashes normalizes the spacing around slashes
func CleanSlashes(s string) string {
	return slashRe.ReplaceAllString(s, " / ")
}

// RemovePoints removes abbreviation points at word ends ("St." -> "St"),
// points inside a token ("S.Pandosy") are kept
func RemovePoints(s string) string {
	return pointsRe.ReplaceAllString(s, "$1$2")
}

// CleanLabel collapses whitespace, trims dangling separators and
// upper-cases the first letter of each word
func CleanLabel(s string) string {
	s = spacesRe.ReplaceAllString(s, " ")
	s = strings.Trim(s, " -,;/&")

	words := strings.Split(s, " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r != utf8.RuneError && unicode.IsLower(r) {
			words[i] = string(unicode.ToUpper(r)) + w[size:]
		}
	}

	return strings.Join(words, " ")
}
