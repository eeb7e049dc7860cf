package attendance

import "github.com/google/uuid"

// newSummaryID mints a summary row ID. Row identity is incidental; the
// logical identity of a summary is its (employee_id, date) key.
func newSummaryID() string {
	return uuid.New().String()
}
