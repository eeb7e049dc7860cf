package attendance

import (
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/pkg/validator"
)

const (
	ProcessModeSingle = "single"
	ProcessModeRange  = "range"
)

// maxRangeDays bounds a single range run; anything longer is almost always a
// caller mistake.
const maxRangeDays = 92

// ProcessPreviewRequest asks the batch processor to compute summaries for one
// date or an inclusive date range without writing anything.
type ProcessPreviewRequest struct {
	Mode      string `json:"mode"`
	Date      string `json:"date,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

func (r ProcessPreviewRequest) Validate() error {
	var errs validator.ValidationErrors

	switch r.Mode {
	case ProcessModeSingle:
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD"})
		}
	case ProcessModeRange:
		from, okFrom := validator.IsValidDate(r.StartDate)
		to, okTo := validator.IsValidDate(r.EndDate)
		if !okFrom {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
		}
		if !okTo {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
		}
		if okFrom && okTo {
			if to.Before(from) {
				errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must not be before start_date"})
			} else if to.Sub(from) > maxRangeDays*24*time.Hour {
				errs = append(errs, validator.ValidationError{Field: "end_date", Message: "date range must not exceed 92 days"})
			}
		}
	default:
		errs = append(errs, validator.ValidationError{Field: "mode", Message: "mode must be \"single\" or \"range\""})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Dates expands the request into the ordered list of calendar days to
// process. Call Validate first.
func (r ProcessPreviewRequest) Dates() []time.Time {
	if r.Mode == ProcessModeSingle {
		d, _ := time.Parse("2006-01-02", r.Date)
		return []time.Time{d}
	}

	from, _ := time.Parse("2006-01-02", r.StartDate)
	to, _ := time.Parse("2006-01-02", r.EndDate)

	var dates []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// BatchStats is derived by a pure reduction over a preview result set; it is
// never separately computed state.
type BatchStats struct {
	Present               int     `json:"present"`
	Late                  int     `json:"late"`
	Absent                int     `json:"absent"`
	OnLeave               int     `json:"on_leave"`
	EmployeesWithOvertime int     `json:"employees_with_overtime"`
	TotalOvertimeHours    float64 `json:"total_overtime_hours"`
}

type SummaryResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	Date          string  `json:"date"`
	FirstIn       *string `json:"first_in,omitempty"`
	LastOut       *string `json:"last_out,omitempty"`
	Status        string  `json:"status"`
	TotalHours    float64 `json:"total_hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	LateMinutes   int     `json:"late_minutes"`
}

type PreviewResponse struct {
	BatchToken string            `json:"batch_token"`
	Summaries  []SummaryResponse `json:"summaries"`
	Stats      BatchStats        `json:"stats"`
}

type CommitRequest struct {
	BatchToken string `json:"batch_token"`
	Overwrite  bool   `json:"overwrite"`
}

func (r CommitRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.BatchToken) {
		errs = append(errs, validator.ValidationError{Field: "batch_token", Message: "batch_token is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// KeyFailure reports one (employee, date) key that failed during commit.
// Keys already written stay written; the caller decides whether to retry.
type KeyFailure struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}

type CommitResponse struct {
	Written  int          `json:"written"`
	Skipped  int          `json:"skipped"`
	Failures []KeyFailure `json:"failures,omitempty"`
}

type SummaryFilter struct {
	EmployeeID *string
	StartDate  *string
	EndDate    *string
	Status     *string
	Page       int
	Limit      int
}

func (f SummaryFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.StartDate != nil {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"})
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD"})
		}
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{
		string(SummaryStatusPresent), string(SummaryStatusLate),
		string(SummaryStatusAbsent), string(SummaryStatusLeave),
	}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "unknown summary status"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListSummariesResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Summaries  []SummaryResponse `json:"summaries"`
}

// MapSummaryToResponse converts a DailySummary entity to its response form.
func MapSummaryToResponse(s DailySummary) SummaryResponse {
	return SummaryResponse{
		ID:            s.ID,
		EmployeeID:    s.EmployeeID,
		EmployeeName:  s.EmployeeName,
		Date:          DateKey(s.Date),
		FirstIn:       s.FirstIn,
		LastOut:       s.LastOut,
		Status:        string(s.Status),
		TotalHours:    s.TotalHours,
		RegularHours:  s.RegularHours,
		OvertimeHours: s.OvertimeHours,
		LateMinutes:   s.LateMinutes,
	}
}
