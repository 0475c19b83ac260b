// Package resolve maps names from parsed intents to roster members.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/fieldmed/engine/state"
)

// AmbiguityError indicates multiple people matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates nobody matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("nobody called %q on the roster", e.Name)
}

// Person resolves a single name to a roster member. keep narrows the
// candidates (e.g. to doctors) and may be nil.
func Person(r *state.Roster, name string, keep func(*state.Person) bool) (*state.Person, error) {
	// 1. Exact ID match.
	if p, ok := r.Get(name); ok && (keep == nil || keep(p)) {
		return p, nil
	}

	// 2. Search by name among everybody kept.
	nameLower := strings.ToLower(strings.TrimSpace(name))
	var exact, partial []*state.Person
	for _, p := range r.All() {
		if keep != nil && !keep(p) {
			continue
		}
		switch {
		case strings.ToLower(p.Name()) == nameLower:
			exact = append(exact, p)
		case matchesName(p, nameLower):
			partial = append(partial, p)
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = partial
	}
	switch len(matches) {
	case 0:
		return nil, &NotFoundError{Name: name}
	case 1:
		return matches[0], nil
	default:
		candidates := make([]string, 0, len(matches))
		for _, p := range matches {
			candidates = append(candidates, p.Name())
		}
		return nil, &AmbiguityError{Name: name, Candidates: candidates}
	}
}

// matchesName checks a person against a lowercased query.
// Supports word-based partial match and ID match.
func matchesName(p *state.Person, nameLower string) bool {
	// Word-based partial match: query matches any word in the name.
	// e.g. "reyes" matches "Dr Reyes", "ana" matches "Ana Kovac".
	for _, word := range strings.Fields(strings.ToLower(p.Name())) {
		if word == nameLower {
			return true
		}
	}
	idLower := strings.ToLower(p.ID)
	if idLower == nameLower {
		return true
	}
	// Underscore normalization: "ana kovac" matches ID "ana_kovac".
	return strings.ReplaceAll(nameLower, " ", "_") == idLower
}
