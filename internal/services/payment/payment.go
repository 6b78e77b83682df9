// Package payment содержит бизнес-логику журнала платежей.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edulingo/tutorcrm/internal/models"
)

// ErrInvalidPeriod возвращается, когда границы периода выручки
// не разбираются или заданы в обратном порядке.
var ErrInvalidPeriod = errors.New("invalid revenue period")

// PaymentRepository описывает методы для работы с платежами в хранилище.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment models.Payment) (int, error)
	ListPaymentsByStudent(ctx context.Context, studentID int) ([]*models.Payment, error)
	SumPayments(ctx context.Context, filter models.RevenueFilter) (float64, error)
}

// PaymentService реализует приём отдельных платежей и подсчёт выручки.
type PaymentService struct {
	repo PaymentRepository
	log  *slog.Logger
}

// New создает новый экземпляр PaymentService.
func New(repo PaymentRepository, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo: repo,
		log:  log,
	}
}

// Create записывает отдельный платёж ученика и возвращает его ID.
func (s *PaymentService) Create(ctx context.Context, req models.DummyStandalonePayment) (int, error) {
	payment := models.Payment{
		StudentID:      req.StudentID,
		SubscriptionID: req.SubscriptionID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Method:         req.Method,
		AccountID:      req.AccountID,
		Notes:          req.Notes,
		PaidAt:         time.Now(),
	}
	id, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return 0, err
	}
	s.log.Info("recorded payment", slog.Int("id", id), slog.Int("student_id", req.StudentID))
	return id, nil
}

// ListByStudent возвращает платежи ученика.
func (s *PaymentService) ListByStudent(ctx context.Context, studentID int) ([]*models.Payment, error) {
	return s.repo.ListPaymentsByStudent(ctx, studentID)
}

// Revenue считает сумму платежей за период, правая граница не включается.
func (s *PaymentService) Revenue(ctx context.Context, req models.DummyRevenueFilter) (float64, error) {
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return 0, fmt.Errorf("%w: bad from date %q", ErrInvalidPeriod, req.From)
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return 0, fmt.Errorf("%w: bad to date %q", ErrInvalidPeriod, req.To)
	}
	if !to.After(from) {
		return 0, fmt.Errorf("%w: to date must be after from date", ErrInvalidPeriod)
	}
	return s.repo.SumPayments(ctx, models.RevenueFilter{
		From:     from,
		To:       to,
		Currency: req.Currency,
	})
}
