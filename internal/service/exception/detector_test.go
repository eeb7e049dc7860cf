package exception

import (
	"context"
	"testing"
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/attendance"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/employee"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/exception"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	scanDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	asOfDay = time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
)

func contextWithClaims(t *testing.T, role user.Role) context.Context {
	t.Helper()
	token, err := jwt.NewBuilder().
		Claim("user_id", "user-1").
		Claim("email", "user@clinixa.test").
		Claim("role", string(role)).
		Claim("type", "access").
		Build()
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func activeEmployee(id string) employee.Employee {
	return employee.Employee{
		ID:               id,
		FullName:         "Employee " + id,
		EmploymentStatus: employee.EmploymentStatusActive,
	}
}

func txn(employeeID string, date time.Time, clock string, txnType attendance.TransactionType) attendance.Transaction {
	return attendance.Transaction{
		ID:         employeeID + "-" + clock,
		EmployeeID: employeeID,
		Date:       date,
		Time:       clock,
		Type:       txnType,
	}
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
	for _, t := range f.transactions {
		if !t.Date.Before(from) && !t.Date.After(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeExceptionRepo struct {
	rows map[string]exception.Exception // by ID
}

func newFakeExceptionRepo() *fakeExceptionRepo {
	return &fakeExceptionRepo{rows: make(map[string]exception.Exception)}
}

func (f *fakeExceptionRepo) ExistingKeys(ctx context.Context, from, to time.Time) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	for _, exc := range f.rows {
		if !exc.ExceptionDate.Before(from) && !exc.ExceptionDate.After(to) {
			keys[exc.Key()] = struct{}{}
		}
	}
	return keys, nil
}

func (f *fakeExceptionRepo) Insert(ctx context.Context, exc exception.Exception) error {
	f.rows[exc.ID] = exc
	return nil
}

func (f *fakeExceptionRepo) GetByID(ctx context.Context, id string) (exception.Exception, error) {
	exc, ok := f.rows[id]
	if !ok {
		return exception.Exception{}, exception.ErrExceptionNotFound
	}
	return exc, nil
}

func (f *fakeExceptionRepo) UpdateReview(ctx context.Context, exc exception.Exception) error {
	if _, ok := f.rows[exc.ID]; !ok {
		return exception.ErrExceptionNotFound
	}
	f.rows[exc.ID] = exc
	return nil
}

func (f *fakeExceptionRepo) List(ctx context.Context, filter exception.ExceptionFilter) ([]exception.Exception, int64, error) {
	var out []exception.Exception
	for _, exc := range f.rows {
		if filter.ReviewStatus != nil && string(exc.ReviewStatus) != *filter.ReviewStatus {
			continue
		}
		out = append(out, exc)
	}
	return out, int64(len(out)), nil
}

func (f *fakeExceptionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return exception.ErrExceptionNotFound
	}
	delete(f.rows, id)
	return nil
}

func newTestExceptionService(excRepo *fakeExceptionRepo, txns []attendance.Transaction) exception.ExceptionService {
	employees := []employee.Employee{activeEmployee("emp-1"), activeEmployee("emp-2")}
	return NewExceptionService(
		nil,
		excRepo,
		&fakeTransactionRepo{transactions: txns},
		&fakeEmployeeRepo{employees: employees},
	)
}

// ===== DETECTOR TESTS =====

func TestDetectExceptions_LateArrivalSeverity(t *testing.T) {
	employees := []employee.Employee{activeEmployee("emp-1")}

	cases := []struct {
		checkIn      string
		wantSeverity exception.Severity
	}{
		{"08:45:00", exception.SeverityLow},
		{"09:05:00", exception.SeverityMedium},
		{"09:31:00", exception.SeverityHigh},
	}

	for _, c := range cases {
		txns := []attendance.Transaction{
			txn("emp-1", scanDay, c.checkIn, attendance.TransactionCheckIn),
			txn("emp-1", scanDay, "16:30:00", attendance.TransactionCheckOut),
		}
		result := DetectExceptions(employees, txns, asOfDay)
		require.Len(t, result, 1, "check-in %s", c.checkIn)
		assert.Equal(t, exception.TypeLateArrival, result[0].Type)
		assert.Equal(t, c.wantSeverity, result[0].Severity, "check-in %s", c.checkIn)
		assert.Equal(t, exception.ReviewStatusPending, result[0].ReviewStatus)
	}
}

func TestDetectExceptions_BelowThresholdNotFlagged(t *testing.T) {
	employees := []employee.Employee{activeEmployee("emp-1")}
	txns := []attendance.Transaction{
		txn("emp-1", scanDay, "08:44:00", attendance.TransactionCheckIn),
		txn("emp-1", scanDay, "16:20:00", attendance.TransactionCheckOut),
	}

	// 14 minutes late and 10 minutes early are both under the threshold.
	assert.Empty(t, DetectExceptions(employees, txns, asOfDay))
}

func TestDetectExceptions_EarlyDeparture(t *testing.T) {
	employees := []employee.Employee{activeEmployee("emp-1")}
	txns := []attendance.Transaction{
		txn("emp-1", scanDay, "08:30:00", attendance.TransactionCheckIn),
		txn("emp-1", scanDay, "16:00:00", attendance.TransactionCheckOut),
	}

	result := DetectExceptions(employees, txns, asOfDay)
	require.Len(t, result, 1)
	assert.Equal(t, exception.TypeEarlyDeparture, result[0].Type)
	assert.Equal(t, exception.SeverityMedium, result[0].Severity)
}

func TestDetectExceptions_MissingCheckout(t *testing.T) {
	employees := []employee.Employee{activeEmployee("emp-1")}
	txns := []attendance.Transaction{
		txn("emp-1", scanDay, "08:30:00", attendance.TransactionCheckIn),
	}

	result := DetectExceptions(employees, txns, asOfDay)
	require.Len(t, result, 1)
	assert.Equal(t, exception.TypeMissingCheckout, result[0].Type)
	assert.Equal(t, exception.SeverityHigh, result[0].Severity)
}

func TestDetectExceptions_InProgressShiftNotFlagged(t *testing.T) {
	employees := []employee.Employee{activeEmployee("emp-1")}
	txns := []attendance.Transaction{
		txn("emp-1", asOfDay, "08:30:00", attendance.TransactionCheckIn),
	}

	// The shift on the as-of date may still be in progress.
	assert.Empty(t, DetectExceptions(employees, txns, asOfDay))
}

func TestDetectExceptions_InactiveEmployeeIgnored(t *testing.T) {
	resigned := activeEmployee("emp-9")
	resigned.EmploymentStatus = employee.EmploymentStatusResigned
	employees := []employee.Employee{resigned}
	txns := []attendance.Transaction{
		txn("emp-9", scanDay, "10:00:00", attendance.TransactionCheckIn),
	}

	assert.Empty(t, DetectExceptions(employees, txns, asOfDay))
}

func TestDetectExceptions_DeterministicIDs(t *testing.T) {
	employees := []employee.Employee{activeEmployee("emp-1")}
	txns := []attendance.Transaction{
		txn("emp-1", scanDay, "09:05:00", attendance.TransactionCheckIn),
	}

	first := DetectExceptions(employees, txns, asOfDay)
	second := DetectExceptions(employees, txns, asOfDay)
	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, exception.NewID("emp-1", scanDay, exception.TypeLateArrival), first[0].ID)
}

// ===== RESCAN TESTS =====

func TestExceptionService_Rescan_DedupAcrossRuns(t *testing.T) {
	excRepo := newFakeExceptionRepo()
	txns := []attendance.Transaction{
		txn("emp-1", scanDay, "09:05:00", attendance.TransactionCheckIn),
		txn("emp-1", scanDay, "16:30:00", attendance.TransactionCheckOut),
		txn("emp-2", scanDay, "08:30:00", attendance.TransactionCheckIn),
	}
	svc := newTestExceptionService(excRepo, txns)
	ctx := contextWithClaims(t, user.RoleHRManager)

	req := exception.RescanRequest{AsOfDate: "2025-03-11"}

	first, err := svc.Rescan(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, first.NewCount)
	assert.Len(t, excRepo.rows, 2)

	// A second run over the same window finds nothing new.
	second, err := svc.Rescan(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 0, second.NewCount)
	assert.Len(t, excRepo.rows, 2)
}

func TestExceptionService_Rescan_DedupSurvivesReview(t *testing.T) {
	excRepo := newFakeExceptionRepo()
	txns := []attendance.Transaction{
		txn("emp-1", scanDay, "09:05:00", attendance.TransactionCheckIn),
		txn("emp-1", scanDay, "16:30:00", attendance.TransactionCheckOut),
	}
	svc := newTestExceptionService(excRepo, txns)
	ctx := contextWithClaims(t, user.RoleHRManager)

	first, err := svc.Rescan(ctx, exception.RescanRequest{AsOfDate: "2025-03-11"})
	require.NoError(t, err)
	require.Equal(t, 1, first.NewCount)

	var excID string
	for id := range excRepo.rows {
		excID = id
	}
	_, err = svc.Review(ctx, exception.ReviewRequest{ID: excID, Action: string(exception.ActionDismiss)})
	require.NoError(t, err)

	// A reviewed exception still blocks re-detection of the same anomaly.
	second, err := svc.Rescan(ctx, exception.RescanRequest{AsOfDate: "2025-03-11"})
	require.NoError(t, err)
	assert.Equal(t, 0, second.NewCount)
}

func TestExceptionService_Rescan_DefaultWindow(t *testing.T) {
	excRepo := newFakeExceptionRepo()
	oldDay := asOfDay.AddDate(0, 0, -40)
	txns := []attendance.Transaction{
		txn("emp-1", oldDay, "09:05:00", attendance.TransactionCheckIn),
		txn("emp-1", oldDay, "16:30:00", attendance.TransactionCheckOut),
	}
	svc := newTestExceptionService(excRepo, txns)
	ctx := contextWithClaims(t, user.RoleHRManager)

	// A bare rescan covers only the trailing 31 days ending at as_of_date.
	resp, err := svc.Rescan(ctx, exception.RescanRequest{AsOfDate: "2025-03-11"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.NewCount)

	// Older anomalies stay reachable with an explicit range.
	resp, err = svc.Rescan(ctx, exception.RescanRequest{
		AsOfDate:  "2025-03-11",
		StartDate: "2025-01-01",
		EndDate:   "2025-02-28",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.NewCount)
}

func TestExceptionService_Rescan_PermissionDenied(t *testing.T) {
	svc := newTestExceptionService(newFakeExceptionRepo(), nil)
	ctx := contextWithClaims(t, user.RoleStaff)

	_, err := svc.Rescan(ctx, exception.RescanRequest{AsOfDate: "2025-03-11"})
	assert.ErrorIs(t, err, user.ErrPermissionDenied)
}

func TestExceptionService_Rescan_InvalidRequest(t *testing.T) {
	svc := newTestExceptionService(newFakeExceptionRepo(), nil)
	ctx := contextWithClaims(t, user.RoleHRManager)

	_, err := svc.Rescan(ctx, exception.RescanRequest{AsOfDate: "11-03-2025"})
	assert.Error(t, err)
}

// ===== REVIEW / DELETE TESTS =====

func seedPendingException(t *testing.T, excRepo *fakeExceptionRepo) string {
	t.Helper()
	exc := exception.Exception{
		ID:            exception.NewID("emp-1", scanDay, exception.TypeLateArrival),
		EmployeeID:    "emp-1",
		ExceptionDate: scanDay,
		Type:          exception.TypeLateArrival,
		Severity:      exception.SeverityMedium,
		Details:       "checked in at 09:05:00, 35 minutes after work start 08:30:00",
		ReviewStatus:  exception.ReviewStatusPending,
	}
	require.NoError(t, excRepo.Insert(context.Background(), exc))
	return exc.ID
}

func TestExceptionService_Review_Justify(t *testing.T) {
	excRepo := newFakeExceptionRepo()
	excID := seedPendingException(t, excRepo)
	svc := newTestExceptionService(excRepo, nil)
	ctx := contextWithClaims(t, user.RoleHRManager)

	_, err := svc.Review(ctx, exception.ReviewRequest{ID: excID, Action: string(exception.ActionJustify)})
	assert.ErrorIs(t, err, exception.ErrJustificationRequired)

	reviewed, err := svc.Review(ctx, exception.ReviewRequest{
		ID:            excID,
		Action:        string(exception.ActionJustify),
		Justification: "on-call surgery ran over",
	})
	require.NoError(t, err)
	assert.Equal(t, string(exception.ReviewStatusJustified), reviewed.ReviewStatus)
	require.NotNil(t, reviewed.Justification)
	assert.Equal(t, "on-call surgery ran over", *reviewed.Justification)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, "user-1", *reviewed.ReviewedBy)
}

func TestExceptionService_Review_Terminal(t *testing.T) {
	excRepo := newFakeExceptionRepo()
	excID := seedPendingException(t, excRepo)
	svc := newTestExceptionService(excRepo, nil)
	ctx := contextWithClaims(t, user.RoleHRManager)

	_, err := svc.Review(ctx, exception.ReviewRequest{ID: excID, Action: string(exception.ActionIssueWarning)})
	require.NoError(t, err)

	_, err = svc.Review(ctx, exception.ReviewRequest{ID: excID, Action: string(exception.ActionDismiss)})
	assert.ErrorIs(t, err, exception.ErrAlreadyReviewed)
}

func TestExceptionService_Review_NotFound(t *testing.T) {
	svc := newTestExceptionService(newFakeExceptionRepo(), nil)
	ctx := contextWithClaims(t, user.RoleHRManager)

	_, err := svc.Review(ctx, exception.ReviewRequest{ID: "missing", Action: string(exception.ActionDismiss)})
	assert.ErrorIs(t, err, exception.ErrExceptionNotFound)
}

func TestExceptionService_Delete(t *testing.T) {
	excRepo := newFakeExceptionRepo()
	excID := seedPendingException(t, excRepo)
	svc := newTestExceptionService(excRepo, nil)

	// Deletion is reserved for administrator-class roles.
	err := svc.Delete(contextWithClaims(t, user.RoleHRManager), excID)
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
	assert.Len(t, excRepo.rows, 1)

	err = svc.Delete(contextWithClaims(t, user.RoleAdmin), excID)
	require.NoError(t, err)
	assert.Empty(t, excRepo.rows)

	err = svc.Delete(contextWithClaims(t, user.RoleAdmin), excID)
	assert.ErrorIs(t, err, exception.ErrExceptionNotFound)
}

func TestExceptionService_List_FilterByReviewStatus(t *testing.T) {
	excRepo := newFakeExceptionRepo()
	seedPendingException(t, excRepo)
	svc := newTestExceptionService(excRepo, nil)
	ctx := contextWithClaims(t, user.RoleHRManager)

	pending := string(exception.ReviewStatusPending)
	list, err := svc.List(ctx, exception.ExceptionFilter{ReviewStatus: &pending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.TotalCount)
	require.Len(t, list.Exceptions, 1)

	dismissed := string(exception.ReviewStatusDismissed)
	list, err = svc.List(ctx, exception.ExceptionFilter{ReviewStatus: &dismissed})
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.TotalCount)
}
