// Package conflict реализует проверку пересечений занятий в расписании преподавателя.
package conflict

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/edulingo/tutorcrm/internal/lib/clock"
	"github.com/edulingo/tutorcrm/internal/models"
)

// SessionSource определяет метод выборки занятий преподавателя на дату.
type SessionSource interface {
	// FindTeacherSessionsOnDate возвращает неотменённые занятия преподавателя
	// на дату, исключая занятия указанного абонемента (0 — без исключений).
	FindTeacherSessionsOnDate(ctx context.Context, teacherID int,
		date time.Time, excludeSubscriptionID int) ([]*models.Session, error)
}

// Validator проверяет предлагаемый слот на пересечение с занятиями преподавателя.
type Validator struct {
	source SessionSource
	log    *slog.Logger
}

// NewValidator создает новый экземпляр Validator.
func NewValidator(source SessionSource, log *slog.Logger) *Validator {
	return &Validator{source: source, log: log}
}

// Validate проверяет слот на конфликт. Ошибка источника данных никогда
// не трактуется как отсутствие конфликта — она возвращается вызывающей стороне.
func (v *Validator) Validate(ctx context.Context, check models.ConflictCheck) (models.ConflictResult, error) {
	const op = "services.conflict.Validate"

	start, err := clock.MinutesOfDay(check.StartTime)
	if err != nil {
		return models.ConflictResult{}, fmt.Errorf("%s: %w", op, err)
	}

	sessions, err := v.source.FindTeacherSessionsOnDate(ctx, check.TeacherID, check.Date, check.ExcludeSubscriptionID)
	if err != nil {
		return models.ConflictResult{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, session := range sessions {
		sessionStart, err := clock.MinutesOfDay(session.StartTime)
		if err != nil {
			v.log.Warn("session has unparsable start time",
				slog.Int("session_id", session.ID), slog.String("start_time", session.StartTime))
			continue
		}
		if clock.Overlaps(start, check.DurationMinutes, sessionStart, session.DurationMinutes) {
			return models.ConflictResult{
				HasConflict: true,
				ConflictMessage: fmt.Sprintf(
					"Teacher already has a session on %s from %s (%d min)",
					check.Date.Format("2006-01-02"), session.StartTime, session.DurationMinutes),
			}, nil
		}
	}

	return models.ConflictResult{}, nil
}
