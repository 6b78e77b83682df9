package repository

import (
	"context"
	"fmt"

	"github.com/edulingo/tutorcrm/internal/models"
)

// CreatePayment вставляет новый платёж и возвращает его ID.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (student_id, subscription_id, amount, currency,
			      method, account_id, notes, paid_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		payment.StudentID, payment.SubscriptionID, payment.Amount, payment.Currency,
		payment.Method, payment.AccountID, payment.Notes, payment.PaidAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPaymentsByStudent возвращает платежи ученика, новые первыми.
func (s *Storage) ListPaymentsByStudent(ctx context.Context, studentID int) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsByStudent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, student_id, subscription_id, amount, currency, method,
				account_id, notes, paid_at
			  FROM payments
			  WHERE student_id = $1
			  ORDER BY paid_at DESC, id DESC`
	rows, err := s.DB.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var results []*models.Payment
	for rows.Next() {
		var payment models.Payment
		if err = rows.Scan(&payment.ID, &payment.StudentID, &payment.SubscriptionID,
			&payment.Amount, &payment.Currency, &payment.Method,
			&payment.AccountID, &payment.Notes, &payment.PaidAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		results = append(results, &payment)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}

// SumPayments подсчитывает сумму платежей за период по фильтру.
func (s *Storage) SumPayments(ctx context.Context, filter models.RevenueFilter) (float64, error) {
	const op = "storage.SumPayments"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0)
			  FROM payments
			  WHERE paid_at >= $1 AND paid_at < $2
			    AND ($3 = '' OR currency = $3)`
	var total float64
	err := s.DB.QueryRowContext(ctx, query, filter.From, filter.To, filter.Currency).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// GetDashboardStats собирает значения виджетов сводной панели одним запросом.
func (s *Storage) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	const op = "storage.GetDashboardStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
				(SELECT COUNT(DISTINCT student_id) FROM subscriptions WHERE status = 'active'),
				(SELECT COUNT(*) FROM subscriptions WHERE status = 'active'),
				(SELECT COUNT(*) FROM sessions
				   WHERE status = 'completed'
				     AND date >= date_trunc('month', CURRENT_DATE)),
				COALESCE((SELECT SUM(amount) FROM payments
				   WHERE paid_at >= date_trunc('month', CURRENT_DATE)), 0)`
	var stats models.DashboardStats
	err := s.DB.QueryRowContext(ctx, query).Scan(&stats.ActiveStudents,
		&stats.ActiveSubscriptions, &stats.SessionsThisMonth, &stats.RevenueThisMonth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &stats, nil
}
