package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/edulingo/tutorcrm/internal/models"
)

// MockService реализует интерфейс validate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Validate(ctx context.Context, check models.ConflictCheck) (models.ConflictResult, error) {
	args := m.Called(ctx, check)
	return args.Get(0).(models.ConflictResult), args.Error(1)
}

func validRequest() models.DummyConflictCheck {
	return models.DummyConflictCheck{
		TeacherID:       2,
		Date:            "2026-09-07",
		StartTime:       "15:00",
		DurationMinutes: 60,
	}
}

func TestValidateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "слот свободен",
			requestBody: validRequest(),
			setupMock: func(m *MockService) {
				m.On("Validate", mock.Anything, mock.AnythingOfType("models.ConflictCheck")).
					Return(models.ConflictResult{HasConflict: false}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"has_conflict":false`,
		},
		{
			name:        "слот занят",
			requestBody: validRequest(),
			setupMock: func(m *MockService) {
				m.On("Validate", mock.Anything, mock.AnythingOfType("models.ConflictCheck")).
					Return(models.ConflictResult{
						HasConflict:     true,
						ConflictMessage: "Teacher already has a session on 2026-09-07 from 15:00 (60 min)",
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"has_conflict":true`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name: "некорректная дата",
			requestBody: models.DummyConflictCheck{
				TeacherID:       2,
				Date:            "07.09.2026",
				StartTime:       "15:00",
				DurationMinutes: 60,
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid date`,
		},
		{
			name: "нечитаемое время",
			requestBody: models.DummyConflictCheck{
				TeacherID:       2,
				Date:            "2026-09-07",
				StartTime:       "midnightish",
				DurationMinutes: 60,
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid start time`,
		},
		{
			name: "ошибка валидации полей",
			requestBody: models.DummyConflictCheck{
				TeacherID: 2,
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:        "ошибка источника занятий",
			requestBody: validRequest(),
			setupMock: func(m *MockService) {
				m.On("Validate", mock.Anything, mock.AnythingOfType("models.ConflictCheck")).
					Return(models.ConflictResult{}, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not validate schedule`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/schedule/validate", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestToConflictCheck(t *testing.T) {
	check, err := ToConflictCheck(models.DummyConflictCheck{
		TeacherID:             2,
		Date:                  "2026-09-07",
		StartTime:             "3:00 PM",
		DurationMinutes:       90,
		ExcludeSubscriptionID: 5,
	})
	assert.NoError(t, err)
	assert.Equal(t, "15:00", check.StartTime)
	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), check.Date)
	assert.Equal(t, 5, check.ExcludeSubscriptionID)
}
