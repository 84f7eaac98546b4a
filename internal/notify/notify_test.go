package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rthunborg/Masterdata-sub001/internal/events"
	"github.com/rthunborg/Masterdata-sub001/internal/notify"
)

func snapshot(id, first, last string) events.EmployeeSnapshot {
	return events.EmployeeSnapshot{ID: id, FirstName: first, LastName: last}
}

func viewOf(visible ...string) notify.ViewState {
	ids := make(map[string]struct{}, len(visible))
	for _, id := range visible {
		ids[id] = struct{}{}
	}
	return notify.ViewState{VisibleIDs: ids}
}

func TestClassifyChange(t *testing.T) {
	anna := snapshot("e1", "Anna", "Svensson")

	tests := []struct {
		name string
		old  *events.EmployeeSnapshot
		new  events.EmployeeSnapshot
		vs   notify.ViewState
		want notify.ChangeKind
	}{
		{
			name: "new employee matching filters is added",
			old:  nil,
			new:  anna,
			vs:   viewOf(),
			want: notify.ChangeAdded,
		},
		{
			name: "visible employee still matching is updated",
			old:  &anna,
			new:  anna,
			vs:   viewOf("e1"),
			want: notify.ChangeUpdated,
		},
		{
			name: "archived employee leaves a default view",
			old:  &anna,
			new: events.EmployeeSnapshot{
				ID: "e1", FirstName: "Anna", LastName: "Svensson", IsArchived: true,
			},
			vs:   viewOf("e1"),
			want: notify.ChangeRemoved,
		},
		{
			name: "archived employee stays when archived are shown",
			old:  &anna,
			new: events.EmployeeSnapshot{
				ID: "e1", FirstName: "Anna", LastName: "Svensson", IsArchived: true,
			},
			vs: notify.ViewState{
				VisibleIDs: map[string]struct{}{"e1": {}},
				Filters:    notify.Filters{IncludeArchived: true},
			},
			want: notify.ChangeUpdated,
		},
		{
			name: "invisible employee not matching search stays none",
			old:  &anna,
			new:  anna,
			vs: notify.ViewState{
				VisibleIDs: map[string]struct{}{},
				Filters:    notify.Filters{Search: "zzz"},
			},
			want: notify.ChangeNone,
		},
		{
			name: "rename into the search scope is added",
			old:  &anna,
			new:  snapshot("e1", "Berit", "Svensson"),
			vs: notify.ViewState{
				VisibleIDs: map[string]struct{}{},
				Filters:    notify.Filters{Search: "berit"},
			},
			want: notify.ChangeAdded,
		},
		{
			name: "rename out of the search scope is removed",
			old:  &anna,
			new:  snapshot("e1", "Berit", "Larsson"),
			vs: notify.ViewState{
				VisibleIDs: map[string]struct{}{"e1": {}},
				Filters:    notify.Filters{Search: "svensson"},
			},
			want: notify.ChangeRemoved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, notify.ClassifyChange(tt.old, tt.new, tt.vs))
		})
	}
}

func TestMatchesFilters(t *testing.T) {
	e := events.EmployeeSnapshot{
		ID:        "e1",
		FirstName: "Anna",
		LastName:  "Svensson",
		Email:     "anna@example.com",
		Mobile:    "0701234567",
		Rank:      "Captain",
		SSN:       "19900101-1234",
	}

	t.Run("search is case insensitive substring", func(t *testing.T) {
		assert.True(t, notify.MatchesFilters(e, notify.Filters{Search: "SVENS"}))
		assert.True(t, notify.MatchesFilters(e, notify.Filters{Search: "captain"}))
		assert.True(t, notify.MatchesFilters(e, notify.Filters{Search: "0701"}))
		assert.False(t, notify.MatchesFilters(e, notify.Filters{Search: "nothing"}))
	})

	t.Run("terminated hidden by default", func(t *testing.T) {
		term := e
		term.IsTerminated = true
		assert.False(t, notify.MatchesFilters(term, notify.Filters{}))
		assert.True(t, notify.MatchesFilters(term, notify.Filters{IncludeTerminated: true}))
	})
}

func TestFormatNotification(t *testing.T) {
	anna := snapshot("e1", "Anna", "Svensson")

	assert.Equal(t, "Anna Svensson was added to your list", notify.FormatNotification(notify.ChangeAdded, anna))
	assert.Equal(t, "Anna Svensson was removed from your list", notify.FormatNotification(notify.ChangeRemoved, anna))
	assert.Equal(t, "Anna Svensson was updated", notify.FormatNotification(notify.ChangeUpdated, anna))
	assert.Equal(t, "", notify.FormatNotification(notify.ChangeNone, anna))
	assert.Equal(t, "An employee was updated", notify.FormatNotification(notify.ChangeUpdated, events.EmployeeSnapshot{}))
}

func TestFormatBatchedNotification(t *testing.T) {
	anna := snapshot("e1", "Anna", "Svensson")
	bert := snapshot("e2", "Bert", "Larsson")

	assert.Equal(t, "", notify.FormatBatchedNotification(notify.ChangeAdded, nil))
	assert.Equal(t,
		"Anna Svensson was added to your list",
		notify.FormatBatchedNotification(notify.ChangeAdded, []events.EmployeeSnapshot{anna}),
	)
	assert.Equal(t,
		"2 employees were added to your list",
		notify.FormatBatchedNotification(notify.ChangeAdded, []events.EmployeeSnapshot{anna, bert}),
	)
	assert.Equal(t,
		"2 employees were updated",
		notify.FormatBatchedNotification(notify.ChangeUpdated, []events.EmployeeSnapshot{anna, bert}),
	)
}

func TestSessionRegistry(t *testing.T) {
	reg := notify.NewSessionRegistry()
	reg.Put("s1", notify.Session{UserID: "u1", View: viewOf("e1")})
	reg.Put("s2", notify.Session{UserID: "u2"})

	snap := reg.Snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, "u1", snap["s1"].UserID)

	// A snapshot is a copy, mutating it must not leak back.
	delete(snap, "s1")
	assert.Len(t, reg.Snapshot(), 2)

	reg.Remove("s1")
	assert.Len(t, reg.Snapshot(), 1)
}
