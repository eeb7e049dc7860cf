package exception

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/attendance"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/employee"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/exception"
	"github.com/clinixa-his/attendance-engine-go/internal/domain/user"
	"github.com/clinixa-his/attendance-engine-go/internal/pkg/database"
	"github.com/go-chi/jwtauth/v5"
)

// defaultRescanDays bounds a rescan that names no explicit range: the
// trailing window ending at as_of_date.
const defaultRescanDays = 31

type ExceptionServiceImpl struct {
	db *database.DB
	exception.ExceptionRepository
	attendance.TransactionRepository
	employee.EmployeeRepository
}

func NewExceptionService(
	db *database.DB,
	exceptionRepo exception.ExceptionRepository,
	transactionRepo attendance.TransactionRepository,
	employeeRepo employee.EmployeeRepository,
) exception.ExceptionService {
	return &ExceptionServiceImpl{
		db:                    db,
		ExceptionRepository:   exceptionRepo,
		TransactionRepository: transactionRepo,
		EmployeeRepository:    employeeRepo,
	}
}

func claimsFromContext(ctx context.Context) (user.Role, string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return "", "", fmt.Errorf("role claim is missing or invalid")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return user.Role(roleStr), userID, nil
}

// Rescan implements exception.ExceptionService.
func (s *ExceptionServiceImpl) Rescan(ctx context.Context, req exception.RescanRequest) (exception.RescanResponse, error) {
	role, _, err := claimsFromContext(ctx)
	if err != nil {
		return exception.RescanResponse{}, err
	}
	if !user.HasPermission(role, user.PermissionExceptionRescan) {
		return exception.RescanResponse{}, user.ErrPermissionDenied
	}

	if err := req.Validate(); err != nil {
		return exception.RescanResponse{}, err
	}

	asOf, _ := time.Parse("2006-01-02", req.AsOfDate)
	from := asOf.AddDate(0, 0, -defaultRescanDays)
	to := asOf
	if req.StartDate != "" {
		from, _ = time.Parse("2006-01-02", req.StartDate)
	}
	if req.EndDate != "" {
		to, _ = time.Parse("2006-01-02", req.EndDate)
	}

	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return exception.RescanResponse{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	transactions, err := s.TransactionRepository.ListByDateRange(ctx, from, to)
	if err != nil {
		return exception.RescanResponse{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	existing, err := s.ExceptionRepository.ExistingKeys(ctx, from, to)
	if err != nil {
		return exception.RescanResponse{}, fmt.Errorf("failed to load stored exception keys: %w", err)
	}

	candidates := DetectExceptions(employees, transactions, asOf)

	newCount := 0
	for _, exc := range candidates {
		if _, ok := existing[exc.Key()]; ok {
			continue
		}

		if err := s.ExceptionRepository.Insert(ctx, exc); err != nil {
			return exception.RescanResponse{NewCount: newCount}, fmt.Errorf("rescan stopped after %d new exceptions: %w", newCount, err)
		}
		newCount++
	}

	return exception.RescanResponse{NewCount: newCount}, nil
}

// DetectExceptions scans transactions grouped by (employee, date) and raises
// anomaly candidates with deterministic IDs. Pure: the current processing
// date comes in as asOf so in-progress shifts are never flagged.
func DetectExceptions(employees []employee.Employee, transactions []attendance.Transaction, asOf time.Time) []exception.Exception {
	active := make(map[string]bool, len(employees))
	for _, emp := range employees {
		if emp.IsActive() {
			active[emp.ID] = true
		}
	}

	type dayGroup struct {
		employeeID string
		date       time.Time
		firstIn    string
		lastOut    string
		hasIn      bool
		hasOut     bool
	}

	groups := make(map[string]*dayGroup)
	var order []string
	for _, txn := range transactions {
		if !active[txn.EmployeeID] {
			continue
		}

		key := attendance.SummaryKey(txn.EmployeeID, txn.Date)
		g, ok := groups[key]
		if !ok {
			g = &dayGroup{employeeID: txn.EmployeeID, date: txn.Date}
			groups[key] = g
			order = append(order, key)
		}

		switch txn.Type {
		case attendance.TransactionCheckIn:
			if !g.hasIn || txn.Time < g.firstIn {
				g.firstIn = txn.Time
				g.hasIn = true
			}
		case attendance.TransactionCheckOut:
			if !g.hasOut || txn.Time > g.lastOut {
				g.lastOut = txn.Time
				g.hasOut = true
			}
		}
	}
	sort.Strings(order)

	asOfKey := attendance.DateKey(asOf)
	var result []exception.Exception
	for _, key := range order {
		g := groups[key]

		if g.hasIn {
			lateMinutes, err := attendance.MinutesBetween(attendance.WorkStart, g.firstIn)
			if err == nil && lateMinutes >= attendance.LateThresholdMinutes {
				result = append(result, newException(g.employeeID, g.date, exception.TypeLateArrival,
					exception.SeverityForMinutes(lateMinutes),
					fmt.Sprintf("checked in at %s, %d minutes after work start %s", g.firstIn, lateMinutes, attendance.WorkStart)))
			}
		}

		if g.hasOut {
			earlyMinutes, err := attendance.MinutesBetween(g.lastOut, attendance.WorkEnd)
			if err == nil && earlyMinutes >= attendance.LateThresholdMinutes {
				result = append(result, newException(g.employeeID, g.date, exception.TypeEarlyDeparture,
					exception.SeverityForMinutes(earlyMinutes),
					fmt.Sprintf("checked out at %s, %d minutes before work end %s", g.lastOut, earlyMinutes, attendance.WorkEnd)))
			}
		}

		// Never flag an in-progress shift: only days strictly before asOf can
		// be missing a checkout.
		if g.hasIn && !g.hasOut && attendance.DateKey(g.date) != asOfKey && g.date.Before(asOf) {
			result = append(result, newException(g.employeeID, g.date, exception.TypeMissingCheckout,
				exception.SeverityHigh,
				fmt.Sprintf("checked in at %s with no checkout recorded", g.firstIn)))
		}
	}

	return result
}

func newException(employeeID string, date time.Time, t exception.ExceptionType, severity exception.Severity, details string) exception.Exception {
	return exception.Exception{
		ID:            exception.NewID(employeeID, date, t),
		EmployeeID:    employeeID,
		ExceptionDate: date,
		Type:          t,
		Severity:      severity,
		Details:       details,
		ReviewStatus:  exception.ReviewStatusPending,
	}
}
