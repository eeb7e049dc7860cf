package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/attendance"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/employee"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/leave"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== CLAIM CONTEXT HELPERS =====

func contextWithClaims(t *testing.T, role user.Role, employeeID string) context.Context {
	t.Helper()
	builder := jwt.NewBuilder().
		Claim("user_id", "user-1").
		Claim("email", "user@clinixa.test").
		Claim("role", string(role)).
		Claim("type", "access")
	if employeeID != "" {
		builder = builder.Claim("employee_id", employeeID)
	}
	token, err := builder.Build()
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

// ===== IN-MEMORY REPOSITORIES =====

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var active []employee.Employee
	for _, emp := range f.employees {
		if emp.IsActive() {
			active = append(active, emp)
		}
	}
	return active, nil
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, emp := range f.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type fakeTransactionRepo struct {
	transactions []attendance.Transaction
}

func (f *fakeTransactionRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]attendance.Transaction, error) {
	var out []attendance.Transaction
	for _, txn := range f.transactions {
		if !txn.Date.Before(from) && !txn.Date.After(to) {
			out = append(out, txn)
		}
	}
	return out, nil
}

type fakeLeaveRepo struct {
	leaves []leave.LeaveRequest
}

func (f *fakeLeaveRepo) ListApprovedOverlapping(ctx context.Context, from, to time.Time) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, lr := range f.leaves {
		if lr.Status == leave.LeaveRequestStatusApproved && !lr.StartDate.After(to) && !lr.EndDate.Before(from) {
			out = append(out, lr)
		}
	}
	return out, nil
}

type fakeSummaryRepo struct {
	rows map[string]attendance.DailySummary
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{rows: make(map[string]attendance.DailySummary)}
}

func (f *fakeSummaryRepo) ExistingKeys(ctx context.Context, dates []time.Time) (map[string]struct{}, error) {
	wanted := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		wanted[attendance.DateKey(d)] = struct{}{}
	}
	keys := make(map[string]struct{})
	for key, row := range f.rows {
		if _, ok := wanted[attendance.DateKey(row.Date)]; ok {
			keys[key] = struct{}{}
		}
	}
	return keys, nil
}

func (f *fakeSummaryRepo) Insert(ctx context.Context, summary attendance.DailySummary) error {
	f.rows[summary.Key()] = summary
	return nil
}

func (f *fakeSummaryRepo) ReplaceForDates(ctx context.Context, dates []time.Time, summaries []attendance.DailySummary) (int, error) {
	wanted := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		wanted[attendance.DateKey(d)] = struct{}{}
	}
	for key, row := range f.rows {
		if _, ok := wanted[attendance.DateKey(row.Date)]; ok {
			delete(f.rows, key)
		}
	}
	for _, s := range summaries {
		f.rows[s.Key()] = s
	}
	return len(summaries), nil
}

func (f *fakeSummaryRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.DailySummary, error) {
	row, ok := f.rows[attendance.SummaryKey(employeeID, date)]
	if !ok {
		return attendance.DailySummary{}, attendance.ErrSummaryNotFound
	}
	return row, nil
}

func (f *fakeSummaryRepo) List(ctx context.Context, filter attendance.SummaryFilter) ([]attendance.DailySummary, int64, error) {
	var out []attendance.DailySummary
	for _, row := range f.rows {
		if filter.EmployeeID != nil && row.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, row)
	}
	return out, int64(len(out)), nil
}

func newTestProcessService(summaryRepo *fakeSummaryRepo, txns []attendance.Transaction, leaves []leave.LeaveRequest) attendance.ProcessService {
	employees := []employee.Employee{
		testEmployee("emp-1"),
		testEmployee("emp-2"),
	}
	return NewProcessService(
		nil,
		&fakeTransactionRepo{transactions: txns},
		summaryRepo,
		&fakeEmployeeRepo{employees: employees},
		&fakeLeaveRepo{leaves: leaves},
	)
}

// ===== PREVIEW / COMMIT TESTS =====

func previewRequest() attendance.ProcessPreviewRequest {
	return attendance.ProcessPreviewRequest{
		Mode: attendance.ProcessModeSingle,
		Date: "2025-03-10",
	}
}

func TestProcessService_PreviewThenCommit(t *testing.T) {
	summaryRepo := newFakeSummaryRepo()
	txns := []attendance.Transaction{
		txn("emp-1", testDay, "08:31:00", attendance.TransactionCheckIn),
		txn("emp-1", testDay, "16:30:00", attendance.TransactionCheckOut),
		txn("emp-2", testDay, "09:10:00", attendance.TransactionCheckIn),
		txn("emp-2", testDay, "19:00:00", attendance.TransactionCheckOut),
	}
	svc := newTestProcessService(summaryRepo, txns, nil)
	ctx := contextWithClaims(t, user.RoleAdmin, "emp-1")

	preview, err := svc.Preview(ctx, previewRequest())
	require.NoError(t, err)
	require.NotEmpty(t, preview.BatchToken)
	require.Len(t, preview.Summaries, 2)

	assert.Equal(t, 1, preview.Stats.Present)
	assert.Equal(t, 1, preview.Stats.Late)
	assert.Equal(t, 1, preview.Stats.EmployeesWithOvertime)
	assert.Equal(t, 1.83, preview.Stats.TotalOvertimeHours)

	// Preview must not write anything.
	assert.Empty(t, summaryRepo.rows)

	commit, err := svc.Commit(ctx, attendance.CommitRequest{BatchToken: preview.BatchToken})
	require.NoError(t, err)
	assert.Equal(t, 2, commit.Written)
	assert.Equal(t, 0, commit.Skipped)
	assert.Empty(t, commit.Failures)
	assert.Len(t, summaryRepo.rows, 2)

	stored, err := summaryRepo.GetByEmployeeAndDate(context.Background(), "emp-1", testDay)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
}

func TestProcessService_Commit_SkipExisting(t *testing.T) {
	summaryRepo := newFakeSummaryRepo()
	txns := []attendance.Transaction{
		txn("emp-1", testDay, "08:31:00", attendance.TransactionCheckIn),
		txn("emp-1", testDay, "16:30:00", attendance.TransactionCheckOut),
	}
	svc := newTestProcessService(summaryRepo, txns, nil)
	ctx := contextWithClaims(t, user.RoleAdmin, "emp-1")

	preview, err := svc.Preview(ctx, previewRequest())
	require.NoError(t, err)
	first, err := svc.Commit(ctx, attendance.CommitRequest{BatchToken: preview.BatchToken})
	require.NoError(t, err)
	require.Equal(t, 2, first.Written)

	// Re-running the same day without overwrite skips every existing key.
	preview, err = svc.Preview(ctx, previewRequest())
	require.NoError(t, err)
	second, err := svc.Commit(ctx, attendance.CommitRequest{BatchToken: preview.BatchToken})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Written)
	assert.Equal(t, 2, second.Skipped)
	assert.Len(t, summaryRepo.rows, 2)
}

func TestProcessService_Commit_Overwrite(t *testing.T) {
	summaryRepo := newFakeSummaryRepo()
	txns := []attendance.Transaction{
		txn("emp-1", testDay, "08:31:00", attendance.TransactionCheckIn),
		txn("emp-1", testDay, "16:30:00", attendance.TransactionCheckOut),
	}
	svc := newTestProcessService(summaryRepo, txns, nil)
	ctx := contextWithClaims(t, user.RoleAdmin, "emp-1")

	preview, err := svc.Preview(ctx, previewRequest())
	require.NoError(t, err)
	_, err = svc.Commit(ctx, attendance.CommitRequest{BatchToken: preview.BatchToken})
	require.NoError(t, err)

	preview, err = svc.Preview(ctx, previewRequest())
	require.NoError(t, err)
	commit, err := svc.Commit(ctx, attendance.CommitRequest{BatchToken: preview.BatchToken, Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, 2, commit.Written)
	assert.Equal(t, 0, commit.Skipped)
	assert.Len(t, summaryRepo.rows, 2)
}

func TestProcessService_Commit_OverwriteScopedToPreviewedDates(t *testing.T) {
	summaryRepo := newFakeSummaryRepo()

	// A summary for a date outside the previewed range must survive an
	// overwrite commit untouched.
	priorDay := testDay.AddDate(0, 0, -1)
	require.NoError(t, summaryRepo.Insert(context.Background(), attendance.DailySummary{
		ID:         "sum-prior",
		EmployeeID: "emp-1",
		Date:       priorDay,
		Status:     attendance.SummaryStatusPresent,
	}))

	svc := newTestProcessService(summaryRepo, nil, nil)
	ctx := contextWithClaims(t, user.RoleAdmin, "emp-1")

	preview, err := svc.Preview(ctx, previewRequest())
	require.NoError(t, err)
	commit, err := svc.Commit(ctx, attendance.CommitRequest{BatchToken: preview.BatchToken, Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, 2, commit.Written)

	survivor, err := summaryRepo.GetByEmployeeAndDate(context.Background(), "emp-1", priorDay)
	require.NoError(t, err)
	assert.Equal(t, "sum-prior", survivor.ID)
	assert.Len(t, summaryRepo.rows, 3)
}

type failingInsertSummaryRepo struct {
	*fakeSummaryRepo
	failEmployeeID string
}

func (f *failingInsertSummaryRepo) Insert(ctx context.Context, summary attendance.DailySummary) error {
	if summary.EmployeeID == f.failEmployeeID {
		return errors.New("disk full")
	}
	return f.fakeSummaryRepo.Insert(ctx, summary)
}

func TestProcessService_Commit_PartialFailureKeepsWrittenKeys(t *testing.T) {
	inner := newFakeSummaryRepo()
	summaryRepo := &failingInsertSummaryRepo{fakeSummaryRepo: inner, failEmployeeID: "emp-2"}
	svc := NewProcessService(
		nil,
		&fakeTransactionRepo{},
		summaryRepo,
		&fakeEmployeeRepo{employees: []employee.Employee{testEmployee("emp-1"), testEmployee("emp-2")}},
		&fakeLeaveRepo{},
	)
	ctx := contextWithClaims(t, user.RoleAdmin, "emp-1")

	preview, err := svc.Preview(ctx, previewRequest())
	require.NoError(t, err)

	commit, err := svc.Commit(ctx, attendance.CommitRequest{BatchToken: preview.BatchToken})
	require.NoError(t, err)

	// emp-1 was written before emp-2 failed; it stays committed and the
	// failure is reported per key with its reason.
	assert.Equal(t, 1, commit.Written)
	require.Len(t, commit.Failures, 1)
	assert.Equal(t, "emp-2", commit.Failures[0].EmployeeID)
	assert.Equal(t, "2025-03-10", commit.Failures[0].Date)
	assert.Equal(t, "disk full", commit.Failures[0].Reason)

	_, err = inner.GetByEmployeeAndDate(context.Background(), "emp-1", testDay)
	assert.NoError(t, err)
	_, err = inner.GetByEmployeeAndDate(context.Background(), "emp-2", testDay)
	assert.ErrorIs(t, err, attendance.ErrSummaryNotFound)
}

func TestProcessService_Commit_RequiresPreview(t *testing.T) {
	svc := newTestProcessService(newFakeSummaryRepo(), nil, nil)
	ctx := contextWithClaims(t, user.RoleAdmin, "emp-1")

	_, err := svc.Commit(ctx, attendance.CommitRequest{BatchToken: "never-previewed"})
	assert.ErrorIs(t, err, attendance.ErrUnknownPreviewBatch)
}

func TestProcessService_Commit_TokenSingleUse(t *testing.T) {
	summaryRepo := newFakeSummaryRepo()
	svc := newTestProcessService(summaryRepo, nil, nil)
	ctx := contextWithClaims(t, user.RoleAdmin, "emp-1")

	preview, err := svc.Preview(ctx, previewRequest())
	require.NoError(t, err)

	_, err = svc.Commit(ctx, attendance.CommitRequest{BatchToken: preview.BatchToken, Overwrite: true})
	require.NoError(t, err)

	// A committed batch must be re-previewed, never blindly re-written.
	_, err = svc.Commit(ctx, attendance.CommitRequest{BatchToken: preview.BatchToken, Overwrite: true})
	assert.ErrorIs(t, err, attendance.ErrUnknownPreviewBatch)
}

func TestProcessService_Commit_AdminOnly(t *testing.T) {
	svc := newTestProcessService(newFakeSummaryRepo(), nil, nil)

	previewCtx := contextWithClaims(t, user.RoleHRManager, "emp-1")
	preview, err := svc.Preview(previewCtx, previewRequest())
	require.NoError(t, err)

	_, err = svc.Commit(previewCtx, attendance.CommitRequest{BatchToken: preview.BatchToken})
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
}

func TestProcessService_Preview_PermissionDenied(t *testing.T) {
	svc := newTestProcessService(newFakeSummaryRepo(), nil, nil)
	ctx := contextWithClaims(t, user.RoleStaff, "emp-1")

	_, err := svc.Preview(ctx, previewRequest())
	assert.ErrorIs(t, err, user.ErrPermissionDenied)
}

func TestProcessService_Preview_RangeMode(t *testing.T) {
	summaryRepo := newFakeSummaryRepo()
	svc := newTestProcessService(summaryRepo, nil, nil)
	ctx := contextWithClaims(t, user.RoleAdmin, "emp-1")

	preview, err := svc.Preview(ctx, attendance.ProcessPreviewRequest{
		Mode:      attendance.ProcessModeRange,
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
	})
	require.NoError(t, err)

	// 3 days x 2 active employees, all absent without transactions.
	assert.Len(t, preview.Summaries, 6)
	assert.Equal(t, 6, preview.Stats.Absent)
}

func TestProcessService_Preview_InvalidRequest(t *testing.T) {
	svc := newTestProcessService(newFakeSummaryRepo(), nil, nil)
	ctx := contextWithClaims(t, user.RoleAdmin, "emp-1")

	_, err := svc.Preview(ctx, attendance.ProcessPreviewRequest{Mode: "bulk"})
	assert.Error(t, err)

	_, err = svc.Preview(ctx, attendance.ProcessPreviewRequest{
		Mode:      attendance.ProcessModeRange,
		StartDate: "2025-03-12",
		EndDate:   "2025-03-10",
	})
	assert.Error(t, err)
}

func TestProcessService_GetMySummary(t *testing.T) {
	summaryRepo := newFakeSummaryRepo()
	firstIn := "08:31:00"
	require.NoError(t, summaryRepo.Insert(context.Background(), attendance.DailySummary{
		ID:         "sum-1",
		EmployeeID: "emp-1",
		Date:       testDay,
		FirstIn:    &firstIn,
		Status:     attendance.SummaryStatusPresent,
	}))
	svc := newTestProcessService(summaryRepo, nil, nil)

	ctx := contextWithClaims(t, user.RoleStaff, "emp-1")
	got, err := svc.GetMySummary(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "sum-1", got.ID)
	assert.Equal(t, string(attendance.SummaryStatusPresent), got.Status)

	_, err = svc.GetMySummary(ctx, "2025-03-11")
	assert.ErrorIs(t, err, attendance.ErrSummaryNotFound)
}

func TestProcessService_ListSummaries_PermissionDenied(t *testing.T) {
	svc := newTestProcessService(newFakeSummaryRepo(), nil, nil)
	ctx := contextWithClaims(t, user.RoleStaff, "emp-1")

	_, err := svc.ListSummaries(ctx, attendance.SummaryFilter{})
	assert.ErrorIs(t, err, user.ErrPermissionDenied)
}
