package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/edulingo/tutorcrm/internal/models"
)

// ErrNotFound возвращается при запросе несуществующей записи.
var ErrNotFound = errors.New("record not found")

// CreateSubscription вставляет абонемент вместе со сгенерированными занятиями
// и первым платежом (если есть) в одной транзакции и возвращает ID записи.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription,
	sessions []models.Session, initial *models.Payment) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	schedule, err := json.Marshal(sub.Schedule)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO subscriptions (uid, student_id, teacher_id, session_count,
			      duration_months, session_duration_minutes, start_date, schedule,
			      price_mode, price_per_session, fixed_price, currency, status, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  RETURNING id`
	var newID int
	err = tx.QueryRowContext(ctx, query,
		sub.UID, sub.StudentID, sub.TeacherID, sub.SessionCount,
		sub.DurationMonths, sub.SessionDurationMinutes, sub.StartDate, schedule,
		sub.PriceMode, sub.PricePerSession, sub.FixedPrice, sub.Currency,
		sub.Status, sub.Notes).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err = insertSessionsTx(ctx, tx, newID, sessions); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if initial != nil {
		query = `INSERT INTO payments (student_id, subscription_id, amount, currency,
				     method, account_id, notes, paid_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err = tx.ExecContext(ctx, query,
			initial.StudentID, newID, initial.Amount, initial.Currency,
			initial.Method, initial.AccountID, initial.Notes, initial.PaidAt); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscription возвращает абонемент по ID вместе с производными полями:
// количеством проведённых занятий и суммой платежей.
func (s *Storage) ReadSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.uid, s.student_id, s.teacher_id, s.session_count,
				s.duration_months, s.session_duration_minutes, s.start_date, s.schedule,
				s.price_mode, s.price_per_session, s.fixed_price, s.currency, s.status, s.notes,
				(SELECT COUNT(*) FROM sessions WHERE subscription_id = s.id AND status = 'completed'),
				COALESCE((SELECT SUM(amount) FROM payments WHERE subscription_id = s.id), 0)
			  FROM subscriptions s WHERE s.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// UpdateSubscription обновляет данные абонемента по его ID
// и возвращает количество изменённых строк.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription, id int) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	schedule, err := json.Marshal(sub.Schedule)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE subscriptions
			  SET teacher_id = $1, session_count = $2, duration_months = $3,
			      session_duration_minutes = $4, start_date = $5, schedule = $6,
			      price_mode = $7, price_per_session = $8, fixed_price = $9,
			      currency = $10, status = $11, notes = $12
			  WHERE id = $13`
	result, err := s.DB.ExecContext(ctx, query,
		sub.TeacherID, sub.SessionCount, sub.DurationMonths,
		sub.SessionDurationMinutes, sub.StartDate, schedule,
		sub.PriceMode, sub.PricePerSession, sub.FixedPrice,
		sub.Currency, sub.Status, sub.Notes, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubscription удаляет абонемент по ID (занятия и платежи удаляются
// каскадно) и возвращает количество удалённых строк.
func (s *Storage) RemoveSubscription(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscriptions возвращает список абонементов с пагинацией,
// отсортированный по дате начала.
func (s *Storage) ListSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.uid, s.student_id, s.teacher_id, s.session_count,
				s.duration_months, s.session_duration_minutes, s.start_date, s.schedule,
				s.price_mode, s.price_per_session, s.fixed_price, s.currency, s.status, s.notes,
				(SELECT COUNT(*) FROM sessions WHERE subscription_id = s.id AND status = 'completed'),
				COALESCE((SELECT SUM(amount) FROM payments WHERE subscription_id = s.id), 0)
			  FROM subscriptions s
			  ORDER BY s.start_date DESC, s.id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var results []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		results = append(results, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}

// ListSubscriptionsByStudent возвращает абонементы одного ученика.
func (s *Storage) ListSubscriptionsByStudent(ctx context.Context, studentID int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptionsByStudent"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.uid, s.student_id, s.teacher_id, s.session_count,
				s.duration_months, s.session_duration_minutes, s.start_date, s.schedule,
				s.price_mode, s.price_per_session, s.fixed_price, s.currency, s.status, s.notes,
				(SELECT COUNT(*) FROM sessions WHERE subscription_id = s.id AND status = 'completed'),
				COALESCE((SELECT SUM(amount) FROM payments WHERE subscription_id = s.id), 0)
			  FROM subscriptions s
			  WHERE s.student_id = $1
			  ORDER BY s.start_date DESC, s.id`
	rows, err := s.DB.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var results []*models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		results = append(results, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*models.Subscription, error) {
	var sub models.Subscription
	var schedule []byte
	if err := row.Scan(&sub.ID, &sub.UID, &sub.StudentID, &sub.TeacherID, &sub.SessionCount,
		&sub.DurationMonths, &sub.SessionDurationMinutes, &sub.StartDate, &schedule,
		&sub.PriceMode, &sub.PricePerSession, &sub.FixedPrice, &sub.Currency, &sub.Status,
		&sub.Notes, &sub.SessionsCompleted, &sub.TotalPaid); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(schedule, &sub.Schedule); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return &sub, nil
}
