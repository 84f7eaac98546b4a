// Package notify decides whether an employee change is relevant to a
// viewer's current filtered list and renders the resulting notification.
// It keeps no state of its own: every classification is recomputed from the
// incoming event plus the caller-supplied view state snapshot.
package notify

import (
	"strings"

	"github.com/rthunborg/Masterdata-sub001/internal/events"
)

type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeUpdated ChangeKind = "updated"
	ChangeNone    ChangeKind = ""
)

type Filters struct {
	Search            string
	IncludeArchived   bool
	IncludeTerminated bool
}

// ViewState is a snapshot of what one session is currently looking at: the
// visible employee ids plus the active filters. Never persisted.
type ViewState struct {
	VisibleIDs map[string]struct{}
	Filters    Filters
}

func (v ViewState) isVisible(id string) bool {
	_, ok := v.VisibleIDs[id]
	return ok
}

// ClassifyChange compares where an employee stood before the change (in the
// viewer's list or not) with whether the new record still matches the
// viewer's filters.
func ClassifyChange(old *events.EmployeeSnapshot, updated events.EmployeeSnapshot, vs ViewState) ChangeKind {
	wasVisible := old != nil && vs.isVisible(old.ID)
	isNowVisible := MatchesFilters(updated, vs.Filters)

	switch {
	case !wasVisible && isNowVisible:
		return ChangeAdded
	case wasVisible && !isNowVisible:
		return ChangeRemoved
	case wasVisible && isNowVisible:
		return ChangeUpdated
	default:
		return ChangeNone
	}
}

// MatchesFilters applies the archived/terminated toggles and the free-text
// search. Search is plain case-insensitive substring containment over a
// fixed field list; no fuzzy matching, no ranking.
func MatchesFilters(e events.EmployeeSnapshot, f Filters) bool {
	if e.IsArchived && !f.IncludeArchived {
		return false
	}
	if e.IsTerminated && !f.IncludeTerminated {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	for _, field := range []string{e.FirstName, e.LastName, e.Email, e.Mobile, e.Rank, e.SSN} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
