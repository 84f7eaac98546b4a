package notify

import (
	"fmt"
	"strings"

	"github.com/rthunborg/Masterdata-sub001/internal/events"
)

// FormatNotification renders a single change as user-facing message text.
func FormatNotification(kind ChangeKind, e events.EmployeeSnapshot) string {
	name := strings.TrimSpace(e.FirstName + " " + e.LastName)
	if name == "" {
		name = "An employee"
	}
	switch kind {
	case ChangeAdded:
		return fmt.Sprintf("%s was added to your list", name)
	case ChangeRemoved:
		return fmt.Sprintf("%s was removed from your list", name)
	case ChangeUpdated:
		return fmt.Sprintf("%s was updated", name)
	default:
		return ""
	}
}

// FormatBatchedNotification collapses same-kind changes into one counted
// message. Single-element batches fall back to the named form.
func FormatBatchedNotification(kind ChangeKind, batch []events.EmployeeSnapshot) string {
	switch len(batch) {
	case 0:
		return ""
	case 1:
		return FormatNotification(kind, batch[0])
	}
	switch kind {
	case ChangeAdded:
		return fmt.Sprintf("%d employees were added to your list", len(batch))
	case ChangeRemoved:
		return fmt.Sprintf("%d employees were removed from your list", len(batch))
	case ChangeUpdated:
		return fmt.Sprintf("%d employees were updated", len(batch))
	default:
		return ""
	}
}
