package attendance

import "time"

type TransactionType string

const (
	TransactionCheckIn  TransactionType = "CHECK_IN"
	TransactionCheckOut TransactionType = "CHECK_OUT"
)

// Transaction is one raw swipe event from the time-and-attendance capture
// path. Immutable once recorded; the engine only ever reads these.
type Transaction struct {
	ID         string
	EmployeeID string
	Date       time.Time // calendar day
	Time       string    // wall-clock "HH:MM:SS"
	Type       TransactionType
	CreatedAt  time.Time
}

type SummaryStatus string

const (
	SummaryStatusPresent SummaryStatus = "PRESENT"
	SummaryStatusLate    SummaryStatus = "LATE"
	SummaryStatusAbsent  SummaryStatus = "ABSENT"
	SummaryStatusLeave   SummaryStatus = "LEAVE"
)

// DailySummary is the canonical one-row-per-employee-per-day attendance
// record. Identity key is (EmployeeID, Date); hour fields are rounded to 2
// decimal places.
type DailySummary struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	FirstIn       *string // "HH:MM:SS", nil when no check-in
	LastOut       *string // "HH:MM:SS", nil for an open shift
	Status        SummaryStatus
	TotalHours    float64
	RegularHours  float64
	OvertimeHours float64
	LateMinutes   int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	EmployeeName *string
}

// Key returns the summary's (employee_id, date) identity key.
func (s DailySummary) Key() string {
	return SummaryKey(s.EmployeeID, s.Date)
}
