package attendance

import (
	"github.com/clinixa-his/attendance-engine-go/internal/domain/attendance"
)

// ComputeStats derives the aggregate preview statistics as a pure reduction
// over a summary set. It holds no state of its own, which is what keeps the
// preview numbers and the previewed rows impossible to disagree.
func ComputeStats(summaries []attendance.DailySummary) attendance.BatchStats {
	var stats attendance.BatchStats
	overtimeEmployees := make(map[string]struct{})

	for _, s := range summaries {
		switch s.Status {
		case attendance.SummaryStatusPresent:
			stats.Present++
		case attendance.SummaryStatusLate:
			stats.Late++
		case attendance.SummaryStatusAbsent:
			stats.Absent++
		case attendance.SummaryStatusLeave:
			stats.OnLeave++
		}

		if s.OvertimeHours > 0 {
			overtimeEmployees[s.EmployeeID] = struct{}{}
			stats.TotalOvertimeHours += s.OvertimeHours
		}
	}

	stats.EmployeesWithOvertime = len(overtimeEmployees)
	stats.TotalOvertimeHours = attendance.Round2(stats.TotalOvertimeHours)
	return stats
}
