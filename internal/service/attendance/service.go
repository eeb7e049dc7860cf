package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/attendance"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/employee"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/leave"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/user"
	"github.com/clinixa-his/attendance-engine-go/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
)

type ProcessServiceImpl struct {
	db *database.DB
	attendance.TransactionRepository
	attendance.SummaryRepository
	employee.EmployeeRepository
	leave.LeaveRequestRepository
	previews *previewStore
}

func NewProcessService(
	db *database.DB,
	transactionRepo attendance.TransactionRepository,
	summaryRepo attendance.SummaryRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRequestRepo leave.LeaveRequestRepository,
) attendance.ProcessService {
	return &ProcessServiceImpl{
		db:                     db,
		TransactionRepository:  transactionRepo,
		SummaryRepository:      summaryRepo,
		EmployeeRepository:     employeeRepo,
		LeaveRequestRepository: leaveRequestRepo,
		previews:               newPreviewStore(),
	}
}

func roleFromContext(ctx context.Context) (user.Role, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return "", fmt.Errorf("role claim is missing or invalid")
	}

	return user.Role(roleStr), nil
}

// Preview implements attendance.ProcessService.
func (p *ProcessServiceImpl) Preview(ctx context.Context, req attendance.ProcessPreviewRequest) (attendance.PreviewResponse, error) {
	role, err := roleFromContext(ctx)
	if err != nil {
		return attendance.PreviewResponse{}, err
	}
	if !user.HasPermission(role, user.PermissionAttendancePreview) {
		return attendance.PreviewResponse{}, user.ErrPermissionDenied
	}

	if err := req.Validate(); err != nil {
		return attendance.PreviewResponse{}, err
	}

	dates := req.Dates()
	from, to := dates[0], dates[len(dates)-1]

	employees, err := p.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return attendance.PreviewResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	transactions, err := p.TransactionRepository.ListByDateRange(ctx, from, to)
	if err != nil {
		return attendance.PreviewResponse{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	leaves, err := p.LeaveRequestRepository.ListApprovedOverlapping(ctx, from, to)
	if err != nil {
		return attendance.PreviewResponse{}, fmt.Errorf("failed to list approved leave requests: %w", err)
	}

	summaries := make([]attendance.DailySummary, 0, len(dates)*len(employees))
	for _, date := range dates {
		for _, emp := range employees {
			summary, err := BuildDailySummary(emp, date, transactions, leaves)
			if err != nil {
				return attendance.PreviewResponse{}, fmt.Errorf("preview stopped after %d records: %w", len(summaries), err)
			}
			summaries = append(summaries, summary)
		}
	}

	token := p.previews.Put(summaries, dates)

	responses := make([]attendance.SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		responses = append(responses, attendance.MapSummaryToResponse(s))
	}

	return attendance.PreviewResponse{
		BatchToken: token,
		Summaries:  responses,
		Stats:      ComputeStats(summaries),
	}, nil
}

// Commit implements attendance.ProcessService.
func (p *ProcessServiceImpl) Commit(ctx context.Context, req attendance.CommitRequest) (attendance.CommitResponse, error) {
	role, err := roleFromContext(ctx)
	if err != nil {
		return attendance.CommitResponse{}, err
	}
	if !user.HasPermission(role, user.PermissionAttendanceCommit) {
		return attendance.CommitResponse{}, user.ErrAdminPrivilegeRequired
	}

	if err := req.Validate(); err != nil {
		return attendance.CommitResponse{}, err
	}

	batch, err := p.previews.Take(req.BatchToken)
	if err != nil {
		return attendance.CommitResponse{}, err
	}

	if req.Overwrite {
		// Delete-then-insert for exactly the previewed dates, one atomic
		// unit. A failure rolls the whole batch back.
		summaries := make([]attendance.DailySummary, len(batch.summaries))
		for i, s := range batch.summaries {
			s.ID = newSummaryID()
			summaries[i] = s
		}

		written, err := p.SummaryRepository.ReplaceForDates(ctx, batch.dates, summaries)
		if err != nil {
			return attendance.CommitResponse{}, fmt.Errorf("failed to overwrite summaries: %w", err)
		}
		return attendance.CommitResponse{Written: written}, nil
	}

	existing, err := p.SummaryRepository.ExistingKeys(ctx, batch.dates)
	if err != nil {
		return attendance.CommitResponse{}, fmt.Errorf("failed to check existing summaries: %w", err)
	}

	var resp attendance.CommitResponse
	for _, s := range batch.summaries {
		if _, ok := existing[s.Key()]; ok {
			resp.Skipped++
			continue
		}

		s.ID = newSummaryID()
		if err := p.SummaryRepository.Insert(ctx, s); err != nil {
			// Stop on failure; keys already written stay committed and the
			// caller decides whether to retry the rest.
			resp.Failures = append(resp.Failures, attendance.KeyFailure{
				EmployeeID: s.EmployeeID,
				Date:       attendance.DateKey(s.Date),
				Reason:     err.Error(),
			})
			return resp, nil
		}
		resp.Written++
	}

	return resp, nil
}

// GetMySummary implements attendance.ProcessService.
func (p *ProcessServiceImpl) GetMySummary(ctx context.Context, date string) (attendance.SummaryResponse, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return attendance.SummaryResponse{}, fmt.Errorf("employee_id claim is missing or invalid")
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	summary, err := p.SummaryRepository.GetByEmployeeAndDate(ctx, employeeID, day)
	if err != nil {
		if errors.Is(err, attendance.ErrSummaryNotFound) {
			return attendance.SummaryResponse{}, attendance.ErrSummaryNotFound
		}
		return attendance.SummaryResponse{}, fmt.Errorf("failed to get summary: %w", err)
	}

	return attendance.MapSummaryToResponse(summary), nil
}

// ListSummaries implements attendance.ProcessService.
func (p *ProcessServiceImpl) ListSummaries(ctx context.Context, filter attendance.SummaryFilter) (attendance.ListSummariesResponse, error) {
	role, err := roleFromContext(ctx)
	if err != nil {
		return attendance.ListSummariesResponse{}, err
	}
	if !user.HasPermission(role, user.PermissionAttendanceViewAll) {
		return attendance.ListSummariesResponse{}, user.ErrPermissionDenied
	}

	if err := filter.Validate(); err != nil {
		return attendance.ListSummariesResponse{}, err
	}

	summaries, total, err := p.SummaryRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListSummariesResponse{}, fmt.Errorf("failed to list summaries: %w", err)
	}

	responses := make([]attendance.SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		responses = append(responses, attendance.MapSummaryToResponse(s))
	}

	return attendance.ListSummariesResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Summaries:  responses,
	}, nil
}
