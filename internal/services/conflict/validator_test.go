package conflict

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edulingo/tutorcrm/internal/models"
)

type mockSessionSource struct {
	mock.Mock
}

func (m *mockSessionSource) FindTeacherSessionsOnDate(ctx context.Context, teacherID int,
	date time.Time, excludeSubscriptionID int) ([]*models.Session, error) {
	args := m.Called(ctx, teacherID, date, excludeSubscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Session), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValidate(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		check        models.ConflictCheck
		existing     []*models.Session
		sourceErr    error
		wantConflict bool
		wantErr      bool
	}{
		{
			name: "нет занятий - нет конфликта",
			check: models.ConflictCheck{
				TeacherID: 1, Date: date, StartTime: "15:00", DurationMinutes: 60,
			},
			existing:     []*models.Session{},
			wantConflict: false,
		},
		{
			name: "пересечение интервалов - конфликт",
			check: models.ConflictCheck{
				TeacherID: 1, Date: date, StartTime: "15:00", DurationMinutes: 60,
			},
			existing: []*models.Session{
				{ID: 10, StartTime: "15:30", DurationMinutes: 60, Status: models.SessionScheduled},
			},
			wantConflict: true,
		},
		{
			name: "занятия встык не пересекаются",
			check: models.ConflictCheck{
				TeacherID: 1, Date: date, StartTime: "15:00", DurationMinutes: 60,
			},
			existing: []*models.Session{
				{ID: 10, StartTime: "16:00", DurationMinutes: 60, Status: models.SessionScheduled},
				{ID: 11, StartTime: "14:00", DurationMinutes: 60, Status: models.SessionScheduled},
			},
			wantConflict: false,
		},
		{
			name: "ошибка источника не означает отсутствие конфликта",
			check: models.ConflictCheck{
				TeacherID: 1, Date: date, StartTime: "15:00", DurationMinutes: 60,
			},
			sourceErr: errors.New("connection refused"),
			wantErr:   true,
		},
		{
			name: "занятие с нечитаемым временем пропускается",
			check: models.ConflictCheck{
				TeacherID: 1, Date: date, StartTime: "15:00", DurationMinutes: 60,
			},
			existing: []*models.Session{
				{ID: 10, StartTime: "garbage", DurationMinutes: 60, Status: models.SessionScheduled},
			},
			wantConflict: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(mockSessionSource)
			if tt.sourceErr != nil {
				source.On("FindTeacherSessionsOnDate", mock.Anything, tt.check.TeacherID,
					tt.check.Date, tt.check.ExcludeSubscriptionID).Return(nil, tt.sourceErr)
			} else {
				source.On("FindTeacherSessionsOnDate", mock.Anything, tt.check.TeacherID,
					tt.check.Date, tt.check.ExcludeSubscriptionID).Return(tt.existing, nil)
			}

			validator := NewValidator(source, discardLogger())
			result, err := validator.Validate(context.Background(), tt.check)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantConflict, result.HasConflict)
			if tt.wantConflict {
				assert.NotEmpty(t, result.ConflictMessage)
			}
			source.AssertExpectations(t)
		})
	}
}

func TestValidate_ExcludesOwnSubscription(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	source := new(mockSessionSource)
	source.On("FindTeacherSessionsOnDate", mock.Anything, 1, date, 42).
		Return([]*models.Session{}, nil)

	validator := NewValidator(source, discardLogger())
	result, err := validator.Validate(context.Background(), models.ConflictCheck{
		TeacherID: 1, Date: date, StartTime: "15:00",
		DurationMinutes: 60, ExcludeSubscriptionID: 42,
	})
	require.NoError(t, err)
	assert.False(t, result.HasConflict)
	source.AssertExpectations(t)
}

func TestLiveChecker_OnlyLastScheduledFires(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	source := new(mockSessionSource)
	source.On("FindTeacherSessionsOnDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.Session{}, nil)

	validator := NewValidator(source, discardLogger())
	checker := NewLiveChecker(validator, 30*time.Millisecond, discardLogger())
	defer checker.Stop()

	var mu sync.Mutex
	var delivered []string

	// Пять быстрых правок подряд: сработать должна только последняя
	times := []string{"10:00", "11:00", "12:00", "13:00", "14:00"}
	for _, startTime := range times {
		st := startTime
		checker.Schedule("draft:1", models.ConflictCheck{
			TeacherID: 1, Date: date, StartTime: st, DurationMinutes: 60,
		}, func(_ models.ConflictResult, _ error) {
			mu.Lock()
			delivered = append(delivered, st)
			mu.Unlock()
		})
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 1)
	assert.Equal(t, "14:00", delivered[0])
}

func TestLiveChecker_CancelPreventsDelivery(t *testing.T) {
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	source := new(mockSessionSource)
	source.On("FindTeacherSessionsOnDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]*models.Session{}, nil)

	validator := NewValidator(source, discardLogger())
	checker := NewLiveChecker(validator, 30*time.Millisecond, discardLogger())
	defer checker.Stop()

	var mu sync.Mutex
	fired := false

	checker.Schedule("draft:1", models.ConflictCheck{
		TeacherID: 1, Date: date, StartTime: "10:00", DurationMinutes: 60,
	}, func(_ models.ConflictResult, _ error) {
		mu.Lock()
		fired = true
		mu.Unlock()
	})
	checker.Cancel("draft:1")

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.False(t, fired, "cancelled check should not deliver a result")
}
