// Package service implements the search orchestration pipeline: synonym
// expansion, dispatch planning, record reconciliation, local guideline and
// clinical-question scoring, and the focused CQ-evidence lookup.
package service

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// SynonymIndex maps a lowercased medical term to its equivalence class.
// It is built once at startup and is read-only afterwards, so concurrent
// lookups need no synchronization.
type SynonymIndex struct {
	classes map[string][]string
}

// NewSynonymIndex builds the index from a static table of equivalence
// classes. Every class member, lowered, keys the full class in its
// original casing.
func NewSynonymIndex(classes [][]string, logger *logrus.Logger) *SynonymIndex {
	idx := &SynonymIndex{classes: make(map[string][]string)}
	for _, class := range classes {
		for _, term := range class {
			idx.classes[strings.ToLower(term)] = class
		}
	}
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"classes": len(classes),
			"terms":   len(idx.classes),
		}).Info("Synonym index built")
	}
	return idx
}

// Lookup returns the equivalence class of a term, or nil when the term is
// not indexed. Matching is case-insensitive.
func (s *SynonymIndex) Lookup(term string) []string {
	return s.classes[strings.ToLower(term)]
}

// Expand returns the union of the input terms and their class members.
// Duplicates are removed by lowercased identity; first-seen casing wins.
func (s *SynonymIndex) Expand(terms []string) []string {
	seen := make(map[string]bool)
	var expanded []string
	add := func(t string) {
		key := strings.ToLower(t)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		expanded = append(expanded, t)
	}
	for _, term := range terms {
		add(term)
		for _, member := range s.Lookup(term) {
			add(member)
		}
	}
	return expanded
}
