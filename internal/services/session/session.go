// Package session содержит операции над занятиями: просмотр плана
// и отметку посещаемости.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edulingo/tutorcrm/internal/models"
)

// SessionRepository описывает методы для работы с занятиями в хранилище.
type SessionRepository interface {
	ListSessions(ctx context.Context, subscriptionID int) ([]*models.Session, error)
	UpdateSessionStatus(ctx context.Context, id int, status, notes string) (int, error)
}

// SessionService реализует просмотр занятий абонемента и смену их статусов.
type SessionService struct {
	repo SessionRepository
	log  *slog.Logger
}

// New создает новый экземпляр SessionService.
func New(repo SessionRepository, log *slog.Logger) *SessionService {
	return &SessionService{repo: repo, log: log}
}

// List возвращает занятия абонемента по возрастанию даты.
func (s *SessionService) List(ctx context.Context, subscriptionID int) ([]*models.Session, error) {
	return s.repo.ListSessions(ctx, subscriptionID)
}

// UpdateStatus отмечает посещаемость занятия: переходы в completed,
// cancelled и missed, а также возврат в scheduled для ошибочно
// отмеченных занятий.
func (s *SessionService) UpdateStatus(ctx context.Context, id int, status, notes string) (int, error) {
	switch status {
	case models.SessionScheduled, models.SessionCompleted, models.SessionCancelled, models.SessionMissed:
	default:
		return 0, fmt.Errorf("unknown session status: %s", status)
	}

	count, err := s.repo.UpdateSessionStatus(ctx, id, status, notes)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated session status", slog.Int("id", id), slog.String("status", status))
	return count, nil
}
