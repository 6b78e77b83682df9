package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/edulingo/tutorcrm/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindSessionsForTomorrow(ctx context.Context) ([]*models.SessionReminder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SessionReminder), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSchedulerService_runRemindUpcomingSessions(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*MockRepository)
	}{
		{
			name: "нет занятий на завтра - публикации нет",
			setupMocks: func(r *MockRepository) {
				r.On("FindSessionsForTomorrow", mock.Anything).Return([]*models.SessionReminder{}, nil).Once()
			},
		},
		{
			name: "ошибка хранилища логируется, паники нет",
			setupMocks: func(r *MockRepository) {
				r.On("FindSessionsForTomorrow", mock.Anything).Return(nil, errors.New("db error")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			service := NewSchedulerService(repo, newNoopLogger())

			tt.setupMocks(repo)

			service.runRemindUpcomingSessions(context.Background(), nil)

			repo.AssertExpectations(t)
		})
	}
}
