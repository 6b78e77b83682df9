package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/edulingo/tutorcrm/internal/models"
)

func insertSessionsTx(ctx context.Context, tx *sql.Tx, subscriptionID int, sessions []models.Session) error {
	query := `INSERT INTO sessions (subscription_id, student_id, teacher_id, date,
			      start_time, duration_minutes, status, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, session := range sessions {
		if _, err := tx.ExecContext(ctx, query,
			subscriptionID, session.StudentID, session.TeacherID, session.Date,
			session.StartTime, session.DurationMinutes, session.Status, session.Notes); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceSessions удаляет все занятия абонемента и вставляет новые
// в одной транзакции. Используется при сбросе истории занятий.
func (s *Storage) ReplaceSessions(ctx context.Context, subscriptionID int, sessions []models.Session) error {
	const op = "storage.ReplaceSessions"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM sessions WHERE subscription_id = $1`, subscriptionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = insertSessionsTx(ctx, tx, subscriptionID, sessions); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListSessions возвращает занятия абонемента в хронологическом порядке.
func (s *Storage) ListSessions(ctx context.Context, subscriptionID int) ([]*models.Session, error) {
	const op = "storage.ListSessions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscription_id, student_id, teacher_id, date,
				start_time, duration_minutes, status, notes
			  FROM sessions
			  WHERE subscription_id = $1
			  ORDER BY date, start_time, id`
	rows, err := s.DB.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var results []*models.Session
	for rows.Next() {
		var session models.Session
		if err = rows.Scan(&session.ID, &session.SubscriptionID, &session.StudentID,
			&session.TeacherID, &session.Date, &session.StartTime,
			&session.DurationMinutes, &session.Status, &session.Notes); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		results = append(results, &session)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}

// UpdateSessionStatus меняет статус занятия (посещено, отменено, пропущено)
// и возвращает количество изменённых строк.
func (s *Storage) UpdateSessionStatus(ctx context.Context, id int, status, notes string) (int, error) {
	const op = "storage.UpdateSessionStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE sessions SET status = $1, notes = $2 WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, status, notes, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RetimeFutureSessions переносит время будущих незавершённых занятий
// абонемента, выпадающих на указанный день недели и начинающихся в oldTime,
// на новое время. Отбор по старому времени не даёт соседним занятиям того же
// дня затирать друг друга. Историю (completed, cancelled, missed) не трогает.
func (s *Storage) RetimeFutureSessions(ctx context.Context, subscriptionID int,
	weekday time.Weekday, oldTime, newTime string, from time.Time) (int, error) {
	const op = "storage.RetimeFutureSessions"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE sessions
			  SET start_time = $1
			  WHERE subscription_id = $2
			    AND start_time = $3
			    AND status = 'scheduled'
			    AND date >= $4
			    AND EXTRACT(DOW FROM date) = $5`
	result, err := s.DB.ExecContext(ctx, query, newTime, subscriptionID, oldTime, from, int(weekday))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindTeacherSessionsOnDate возвращает неотменённые занятия преподавателя
// на дату, исключая занятия указанного абонемента (0 — без исключений).
// Пересечение интервалов считает вызывающая сторона.
func (s *Storage) FindTeacherSessionsOnDate(ctx context.Context, teacherID int,
	date time.Time, excludeSubscriptionID int) ([]*models.Session, error) {
	const op = "storage.FindTeacherSessionsOnDate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscription_id, student_id, teacher_id, date,
				start_time, duration_minutes, status, notes
			  FROM sessions
			  WHERE teacher_id = $1
			    AND date = $2
			    AND status <> 'cancelled'
			    AND ($3 = 0 OR subscription_id <> $3)
			  ORDER BY start_time`
	rows, err := s.DB.QueryContext(ctx, query, teacherID, date, excludeSubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var results []*models.Session
	for rows.Next() {
		var session models.Session
		if err = rows.Scan(&session.ID, &session.SubscriptionID, &session.StudentID,
			&session.TeacherID, &session.Date, &session.StartTime,
			&session.DurationMinutes, &session.Status, &session.Notes); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		results = append(results, &session)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}

// FindSessionsForTomorrow возвращает данные для напоминаний о занятиях,
// запланированных на завтра.
func (s *Storage) FindSessionsForTomorrow(ctx context.Context) ([]*models.SessionReminder, error) {
	const op = "storage.FindSessionsForTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT st.first_name || ' ' || st.last_name, st.email, t.full_name,
				se.date, se.start_time
			  FROM sessions se
			  JOIN students st ON st.id = se.student_id
			  JOIN teachers t ON t.id = se.teacher_id
			  WHERE se.status = 'scheduled'
			    AND se.date = CURRENT_DATE + 1
			    AND st.email <> ''
			  ORDER BY se.start_time`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var results []*models.SessionReminder
	for rows.Next() {
		var reminder models.SessionReminder
		if err = rows.Scan(&reminder.StudentName, &reminder.Email, &reminder.TeacherName,
			&reminder.Date, &reminder.StartTime); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		results = append(results, &reminder)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}
