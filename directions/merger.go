// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package directions

import (
	"golang.org/x/exp/slices"
)

// MergeSet is a set of labels known to name the same destination
type MergeSet struct {
	Labels    []string
	Canonical string
}

func (ms MergeSet) contains(label string) bool {
	return slices.Contains(ms.Labels, label)
}

func (ms MergeSet) containsAll(labels []string) bool {
	for _, l := range labels {
		if !ms.contains(l) {
			return false
		}
	}
	return true
}

// Merger collapses equivalent labels of a route direction into one
type Merger struct {
	sets map[int64][]MergeSet
}

// NewMerger creates a Merger from a per-route table of equivalence sets.
// Sets are tried in the given order.
func NewMerger(sets map[int64][]MergeSet) *Merger {
	m := &Merger{make(map[int64][]MergeSet, len(sets))}
	for id, s := range sets {
		cp := make([]MergeSet, len(s))
		for i, ms := range s {
			cp[i] = MergeSet{append([]string(nil), ms.Labels...), ms.Canonical}
		}
		m.sets[id] = cp
	}
	return m
}

// Merge returns the label that replaces both a and b
func (m *Merger) Merge(routeID int64, a string, b string) (string, error) {
	if len(a) == 0 {
		return b, nil
	}
	if len(b) == 0 || a == b {
		return a, nil
	}

	for _, ms := range m.sets[routeID] {
		if ms.contains(a) && ms.contains(b) {
			return ms.Canonical, nil
		}
	}

	return "", &UnexpectedMergeError{routeID, a, b}
}

// MergeAll merges all labels of a route direction into one. Empty
// labels are skipped, the remaining labels must all belong to one set,
// the first such set in table order gives the result. The result does
// not depend on the order of labels. If no set covers them, the error
// names the first pair of labels sharing no set.
func (m *Merger) MergeAll(routeID int64, labels []string) (string, error) {
	distinct := make([]string, 0, len(labels))
	for _, l := range labels {
		if len(l) > 0 && !slices.Contains(distinct, l) {
			distinct = append(distinct, l)
		}
	}

	switch len(distinct) {
	case 0:
		return "", nil
	case 1:
		return distinct[0], nil
	case 2:
		return m.Merge(routeID, distinct[0], distinct[1])
	}

	for _, ms := range m.sets[routeID] {
		if ms.containsAll(distinct) {
			return ms.Canonical, nil
		}
	}

	for i, a := range distinct {
		for _, b := range distinct[i+1:] {
			if _, err := m.Merge(routeID, a, b); err != nil {
				return "", err
			}
		}
	}

	return "", &UnexpectedMergeError{routeID, distinct[0], distinct[len(distinct)-1]}
}
