// Package services содержит бизнес-логику управления абонементами: проверку
// черновиков, обнаружение изменений при редактировании, решение о сохранении
// или сбросе занятий и кеширование прочитанных записей.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/edulingo/tutorcrm/internal/lib/clock"
	"github.com/edulingo/tutorcrm/internal/models"
)

const defaultSessionDurationMinutes = 60

// SubscriptionRepository определяет методы для работы с абонементами
// и их занятиями в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет абонемент с планом занятий и первым платежом.
	CreateSubscription(ctx context.Context, sub models.Subscription,
		sessions []models.Session, initial *models.Payment) (int, error)
	// ReadSubscription возвращает абонемент по ID.
	ReadSubscription(ctx context.Context, id int) (*models.Subscription, error)
	// UpdateSubscription обновляет абонемент и возвращает количество записей.
	UpdateSubscription(ctx context.Context, sub models.Subscription, id int) (int, error)
	// RemoveSubscription удаляет абонемент по ID.
	RemoveSubscription(ctx context.Context, id int) (int, error)
	// ListSubscriptions возвращает список абонементов с пагинацией.
	ListSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error)
	// ListSubscriptionsByStudent возвращает абонементы ученика.
	ListSubscriptionsByStudent(ctx context.Context, studentID int) ([]*models.Subscription, error)
	// ReplaceSessions удаляет все занятия абонемента и записывает новые.
	ReplaceSessions(ctx context.Context, subscriptionID int, sessions []models.Session) error
	// RetimeFutureSessions переносит будущие запланированные занятия
	// абонемента в указанный день недели с oldTime на newTime.
	RetimeFutureSessions(ctx context.Context, subscriptionID int,
		weekday time.Weekday, oldTime, newTime string, from time.Time) (int, error)
}

// ConflictValidator проверяет предлагаемый слот на пересечение
// с занятиями преподавателя.
type ConflictValidator interface {
	Validate(ctx context.Context, check models.ConflictCheck) (models.ConflictResult, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher публикует доменные события в брокер уведомлений.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// SubscriptionService реализует жизненный цикл абонемента: создание с
// генерацией плана занятий, редактирование с подтверждением изменений,
// чтение через кеш и удаление.
type SubscriptionService struct {
	repo      SubscriptionRepository
	validator ConflictValidator
	cache     Cache
	events    EventPublisher
	log       *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// events может быть nil, тогда события не публикуются.
func NewSubscriptionService(repo SubscriptionRepository, validator ConflictValidator,
	cache Cache, events EventPublisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		validator: validator,
		cache:     cache,
		events:    events,
		log:       log,
	}
}

// Create проверяет черновик, нормализует времена расписания, выполняет
// финальную проверку конфликтов, генерирует план занятий и сохраняет
// абонемент вместе с первым платежом.
func (s *SubscriptionService) Create(ctx context.Context, req models.DraftEntry) (int, error) {
	sub, err := s.buildSubscription(req)
	if err != nil {
		return 0, err
	}
	sub.UID = uuid.NewString()

	if err := s.checkConflicts(ctx, sub, 0); err != nil {
		return 0, err
	}

	sessions := GenerateSessions(sub)

	var initial *models.Payment
	if req.InitialPayment != nil && req.InitialPayment.Amount > 0 {
		initial = &models.Payment{
			StudentID: sub.StudentID,
			Amount:    req.InitialPayment.Amount,
			Currency:  sub.Currency,
			Method:    req.InitialPayment.Method,
			AccountID: req.InitialPayment.AccountID,
			Notes:     req.InitialPayment.Notes,
			PaidAt:    time.Now(),
		}
	}

	id, err := s.repo.CreateSubscription(ctx, sub, sessions, initial)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new subscription",
		slog.Int("id", id), slog.Int("sessions", len(sessions)))

	sub.ID = id
	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Set(cacheKey, sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), slog.Any("err", err))
	}
	s.publish("subscription.created", sub)

	return id, nil
}

// Update применяет черновик к существующему абонементу. Если изменения есть,
// а решение о судьбе занятий не принято, возвращается ConfirmationRequiredError
// со сводкой изменений и мутация не выполняется. При preserve_sessions=true
// история посещений сохраняется, будущие занятия переносятся на новое время;
// при false весь план занятий удаляется и генерируется заново.
func (s *SubscriptionService) Update(ctx context.Context, req models.DraftUpdateEntry, id int) (models.ChangeSummary, error) {
	original, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return models.ChangeSummary{}, err
	}

	sub, err := s.buildSubscription(req.DraftEntry)
	if err != nil {
		return models.ChangeSummary{}, err
	}

	summary := DetectChanges(*original, draftWithSchedule(req.DraftEntry, sub.Schedule))
	if !summary.Empty() && req.PreserveSessions == nil {
		return models.ChangeSummary{}, &ConfirmationRequiredError{Summary: summary}
	}

	// Пустой список изменений означает неявное "сохранить занятия".
	preserve := true
	if req.PreserveSessions != nil {
		preserve = *req.PreserveSessions
	}

	if err := s.checkConflicts(ctx, sub, id); err != nil {
		return models.ChangeSummary{}, err
	}

	if _, err := s.repo.UpdateSubscription(ctx, sub, id); err != nil {
		return models.ChangeSummary{}, err
	}

	sub.ID = id
	if preserve {
		if err := s.retimeSessions(ctx, sub, original.Schedule); err != nil {
			return models.ChangeSummary{}, err
		}
	} else {
		if err := s.repo.ReplaceSessions(ctx, id, GenerateSessions(sub)); err != nil {
			return models.ChangeSummary{}, err
		}
	}

	s.log.Info("updated subscription", slog.Int("id", id),
		slog.Bool("preserve_sessions", preserve), slog.Int("changes", len(summary.Changes)))

	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	s.publish("subscription.updated", sub)

	return summary, nil
}

// PreviewChanges возвращает сводку изменений между сохранённым абонементом
// и черновиком, не выполняя мутаций. Используется для показа подтверждения.
func (s *SubscriptionService) PreviewChanges(ctx context.Context, req models.DraftEntry, id int) (models.ChangeSummary, error) {
	original, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return models.ChangeSummary{}, err
	}
	sub, err := s.buildSubscription(req)
	if err != nil {
		return models.ChangeSummary{}, err
	}
	return DetectChanges(*original, draftWithSchedule(req, sub.Schedule)), nil
}

// Read возвращает абонемент по ID, используя кеш или репозиторий.
func (s *SubscriptionService) Read(ctx context.Context, id int) (*models.Subscription, error) {
	var result *models.Subscription
	cacheKey := fmt.Sprintf("subscription:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
				slog.Any("err", err))
		}
	}
	return result, nil
}

// Remove удаляет абонемент по ID вместе с занятиями и инвалидирует кеш.
func (s *SubscriptionService) Remove(ctx context.Context, id int) (int, error) {
	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveSubscription(ctx, id)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// List возвращает список абонементов с пагинацией.
func (s *SubscriptionService) List(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, limit, offset)
}

// ListByStudent возвращает абонементы ученика.
func (s *SubscriptionService) ListByStudent(ctx context.Context, studentID int) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptionsByStudent(ctx, studentID)
}

// buildSubscription проверяет черновик и собирает из него доменную модель:
// полнота расписания, положительная итоговая цена, счёт для платежа,
// нормализация времён к 24-часовому формату.
func (s *SubscriptionService) buildSubscription(req models.DraftEntry) (models.Subscription, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return models.Subscription{}, &ValidationError{Message: "invalid start date, expected format 2006-01-02"}
	}

	if len(req.Schedule) == 0 {
		return models.Subscription{}, &ValidationError{Message: "schedule must contain at least one entry"}
	}
	schedule := make([]models.ScheduleEntry, 0, len(req.Schedule))
	for i, entry := range req.Schedule {
		if entry.Day == "" || entry.Time == "" {
			return models.Subscription{}, &ValidationError{
				Message: fmt.Sprintf("schedule entry %d is incomplete: day and time are required", i+1)}
		}
		if _, err := clock.Weekday(entry.Day); err != nil {
			return models.Subscription{}, &ValidationError{
				Message: fmt.Sprintf("schedule entry %d: unknown day %q", i+1, entry.Day)}
		}
		canonical, err := clock.To24Hour(entry.Time)
		if err != nil {
			return models.Subscription{}, &ValidationError{
				Message: fmt.Sprintf("schedule entry %d: invalid time %q", i+1, entry.Time)}
		}
		schedule = append(schedule, models.ScheduleEntry{Day: entry.Day, Time: canonical})
	}

	status := req.Status
	if status == "" {
		status = models.SubscriptionActive
	}

	sub := models.Subscription{
		StudentID:              req.StudentID,
		TeacherID:              req.TeacherID,
		SessionCount:           req.SessionCount,
		DurationMonths:         req.DurationMonths,
		SessionDurationMinutes: normalizedDuration(req.SessionDurationMinutes),
		StartDate:              startDate,
		Schedule:               schedule,
		PriceMode:              req.PriceMode,
		PricePerSession:        req.PricePerSession,
		FixedPrice:             req.FixedPrice,
		Currency:               req.Currency,
		Status:                 status,
		Notes:                  req.Notes,
	}

	if sub.TotalPrice() <= 0 {
		return models.Subscription{}, &ValidationError{Message: "total price must be greater than zero"}
	}
	if req.InitialPayment != nil && req.InitialPayment.Amount > 0 && req.InitialPayment.AccountID == 0 {
		return models.Subscription{}, &ValidationError{Message: "initial payment requires an account"}
	}

	return sub, nil
}

// checkConflicts выполняет обязательную финальную проверку конфликтов:
// первое вхождение каждой строки расписания начиная с даты старта.
// Ошибка проверки блокирует отправку, а не пропускает её.
func (s *SubscriptionService) checkConflicts(ctx context.Context, sub models.Subscription, excludeID int) error {
	for _, entry := range sub.Schedule {
		weekday, err := clock.Weekday(entry.Day)
		if err != nil {
			return &ValidationError{Message: fmt.Sprintf("unknown day %q", entry.Day)}
		}
		date := clock.NextOccurrence(sub.StartDate, weekday)

		result, err := s.validator.Validate(ctx, models.ConflictCheck{
			TeacherID:             sub.TeacherID,
			Date:                  date,
			StartTime:             entry.Time,
			DurationMinutes:       sub.SessionDurationMinutes,
			ExcludeSubscriptionID: excludeID,
		})
		if err != nil {
			return fmt.Errorf("conflict validation failed: %w", err)
		}
		if result.HasConflict {
			return &ConflictError{Message: result.ConflictMessage}
		}
	}
	return nil
}

// retimeSessions переносит будущие запланированные занятия на новое время,
// сопоставляя строки старого и нового расписания по позиции. Переносятся
// только пары с тем же днём недели и изменившимся временем: несколько
// занятий в один день переносятся независимо, история посещений не трогается.
func (s *SubscriptionService) retimeSessions(ctx context.Context, sub models.Subscription,
	oldSchedule []models.ScheduleEntry) error {
	if len(oldSchedule) != len(sub.Schedule) {
		return nil
	}
	today := time.Now().Truncate(24 * time.Hour)
	for i, entry := range sub.Schedule {
		prev := oldSchedule[i]
		if prev.Time == entry.Time {
			continue
		}
		oldDay, err := clock.Weekday(prev.Day)
		if err != nil {
			continue
		}
		newDay, err := clock.Weekday(entry.Day)
		if err != nil || oldDay != newDay {
			continue
		}
		if _, err := s.repo.RetimeFutureSessions(ctx, sub.ID, newDay, prev.Time, entry.Time, today); err != nil {
			return err
		}
	}
	return nil
}

func (s *SubscriptionService) publish(eventType string, sub models.Subscription) {
	if s.events == nil {
		return
	}
	event := models.SubscriptionEvent{
		Type:           eventType,
		SubscriptionID: sub.ID,
		StudentID:      sub.StudentID,
		TeacherID:      sub.TeacherID,
	}
	if err := s.events.Publish("events", event); err != nil {
		s.log.Warn("failed to publish subscription event",
			slog.String("type", eventType), slog.Any("err", err))
	}
}

func normalizedDuration(minutes int) int {
	if minutes <= 0 {
		return defaultSessionDurationMinutes
	}
	return minutes
}

func draftWithSchedule(req models.DraftEntry, schedule []models.ScheduleEntry) models.DraftEntry {
	req.Schedule = schedule
	return req
}
