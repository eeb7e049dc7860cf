package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/clinixa-his/attendance-engine-go/internal/domain/attendance"
	"github.com/clinixa-his/attendance-engine-go/internal/pkg/database"
)

type transactionRepository struct {
	db *database.DB
}

func NewTransactionRepository(db *database.DB) attendance.TransactionRepository {
	return &transactionRepository{db: db}
}

// ListByDateRange implements attendance.TransactionRepository.
func (r *transactionRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]attendance.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, transaction_date, transaction_time,
			   transaction_type, created_at
		FROM attendance_transactions
		WHERE transaction_date >= $1
		  AND transaction_date <= $2
		ORDER BY employee_id, transaction_date, transaction_time
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance transactions: %w", err)
	}
	defer rows.Close()

	var transactions []attendance.Transaction
	for rows.Next() {
		var txn attendance.Transaction
		err := rows.Scan(
			&txn.ID, &txn.EmployeeID, &txn.Date, &txn.Time,
			&txn.Type, &txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance transaction: %w", err)
		}
		transactions = append(transactions, txn)
	}

	return transactions, nil
}
