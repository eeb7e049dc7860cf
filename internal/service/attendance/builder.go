package attendance

import (
	"fmt"
	"sort"
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/attendance"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/employee"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/leave"
)

// BuildDailySummary reduces one employee's raw transactions for one calendar
// day into the canonical summary record. Pure and deterministic: identical
// inputs always yield an identical summary. The row ID is assigned at commit
// time, not here.
//
// Precedence order is strict: approved leave wins over any transaction
// evidence, then absence, then the first-in/last-out reduction.
func BuildDailySummary(emp employee.Employee, date time.Time, transactions []attendance.Transaction, leaves []leave.LeaveRequest) (attendance.DailySummary, error) {
	summary := attendance.DailySummary{
		EmployeeID:   emp.ID,
		Date:         date,
		EmployeeName: &emp.FullName,
	}

	for _, lr := range leaves {
		if lr.EmployeeID == emp.ID && lr.Status == leave.LeaveRequestStatusApproved && lr.Covers(date) {
			summary.Status = attendance.SummaryStatusLeave
			return summary, nil
		}
	}

	dayKey := attendance.DateKey(date)
	var dayTxns []attendance.Transaction
	for _, txn := range transactions {
		if txn.EmployeeID == emp.ID && attendance.DateKey(txn.Date) == dayKey {
			dayTxns = append(dayTxns, txn)
		}
	}

	sort.Slice(dayTxns, func(i, j int) bool {
		return dayTxns[i].Time < dayTxns[j].Time
	})

	var firstIn, lastOut *string
	for i := range dayTxns {
		switch dayTxns[i].Type {
		case attendance.TransactionCheckIn:
			if firstIn == nil {
				firstIn = &dayTxns[i].Time
			}
		case attendance.TransactionCheckOut:
			lastOut = &dayTxns[i].Time
		}
	}

	if firstIn == nil {
		summary.Status = attendance.SummaryStatusAbsent
		return summary, nil
	}

	summary.FirstIn = firstIn
	summary.LastOut = lastOut

	lateMinutes, err := attendance.MinutesBetween(attendance.WorkStart, *firstIn)
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("reduce transactions for %s: %w", attendance.SummaryKey(emp.ID, date), err)
	}
	if lateMinutes > 0 {
		summary.LateMinutes = lateMinutes
	}

	// No checkout means an open shift: a data-completeness gap, not an
	// absence. Hour fields stay zero until the shift is closed.
	if lastOut != nil {
		workedMinutes, err := attendance.MinutesBetween(*firstIn, *lastOut)
		if err != nil {
			return attendance.DailySummary{}, fmt.Errorf("reduce transactions for %s: %w", attendance.SummaryKey(emp.ID, date), err)
		}
		// A negative span means the pair crossed midnight; overnight shifts
		// are out of policy, so the hours stay zero rather than going
		// negative.
		if workedMinutes > 0 {
			totalHours := attendance.Round2(float64(workedMinutes) / 60)
			summary.TotalHours = totalHours
			if totalHours > attendance.StandardHours {
				summary.RegularHours = attendance.StandardHours
				summary.OvertimeHours = attendance.Round2(totalHours - attendance.StandardHours)
			} else {
				summary.RegularHours = totalHours
			}
		}
	}

	if summary.LateMinutes >= attendance.LateThresholdMinutes {
		summary.Status = attendance.SummaryStatusLate
	} else {
		summary.Status = attendance.SummaryStatusPresent
	}

	return summary, nil
}
