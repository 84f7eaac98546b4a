package notify

// SessionUpdatesChannel carries view-state updates from the API to the
// change-feed consumer.
const SessionUpdatesChannel = "notify:sessions"

// UserChannel is the per-user delivery channel for rendered notifications.
func UserChannel(userID string) string {
	return "notify:" + userID
}

// SessionUpdate is the wire form of a registry mutation.
type SessionUpdate struct {
	SessionID string   `json:"session_id"`
	UserID    string   `json:"user_id"`
	Removed   bool     `json:"removed"`
	View      ViewWire `json:"view"`
}

// ViewWire mirrors ViewState with JSON-friendly types.
type ViewWire struct {
	VisibleIDs        []string `json:"visible_ids"`
	Search            string   `json:"search"`
	IncludeArchived   bool     `json:"include_archived"`
	IncludeTerminated bool     `json:"include_terminated"`
}

func (w ViewWire) ToViewState() ViewState {
	ids := make(map[string]struct{}, len(w.VisibleIDs))
	for _, id := range w.VisibleIDs {
		ids[id] = struct{}{}
	}
	return ViewState{
		VisibleIDs: ids,
		Filters: Filters{
			Search:            w.Search,
			IncludeArchived:   w.IncludeArchived,
			IncludeTerminated: w.IncludeTerminated,
		},
	}
}
