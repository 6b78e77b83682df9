// Package services содержит периодический поиск завтрашних занятий
// и публикацию напоминаний в брокер уведомлений.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/edulingo/tutorcrm/internal/lib/rabbitmq"
	"github.com/edulingo/tutorcrm/internal/lib/sl"
	"github.com/edulingo/tutorcrm/internal/models"
)

// SessionRepository описывает выборку занятий для напоминаний.
type SessionRepository interface {
	FindSessionsForTomorrow(ctx context.Context) ([]*models.SessionReminder, error)
}

// SchedulerService периодически сканирует расписание и публикует напоминания
// о завтрашних занятиях.
type SchedulerService struct {
	repo SessionRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo SessionRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// RemindUpcomingSessions запускает цикл публикации напоминаний: первый проход
// сразу, далее каждые 12 часов до отмены контекста.
func (s *SchedulerService) RemindUpcomingSessions(ctx context.Context, channel *amqp.Channel) {
	s.runRemindUpcomingSessions(ctx, channel)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runRemindUpcomingSessions(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runRemindUpcomingSessions(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting scan for tomorrow's sessions")
	reminders, err := s.repo.FindSessionsForTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find sessions", sl.Err(err))
		return
	}
	if len(reminders) == 0 {
		s.log.Info("no sessions scheduled for tomorrow")
		return
	}
	s.log.Info("found sessions for tomorrow", "count", len(reminders))
	for _, reminder := range reminders {
		err = rabbitmq.PublishMessage(channel, "notifications", "reminders", reminder)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
