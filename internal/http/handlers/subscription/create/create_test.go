package create

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

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/edulingo/tutorcrm/internal/models"
	services "github.com/edulingo/tutorcrm/internal/services/subscription"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DraftEntry) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func validDraft() models.DraftEntry {
	return models.DraftEntry{
		StudentID:    1,
		TeacherID:    2,
		SessionCount: 8,
		StartDate:    "2026-09-01",
		Schedule: []models.ScheduleEntry{
			{Day: "monday", Time: "15:00"},
			{Day: "thursday", Time: "5:00 PM"},
		},
		PriceMode:       models.PriceModePerSession,
		PricePerSession: 500,
		Currency:        "RUB",
	}
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное создание абонемента",
			requestBody: validDraft(),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.DraftEntry")).
					Return(42, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"last_added_id":42`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name: "ошибка валидации полей",
			requestBody: models.DraftEntry{
				StudentID: 1,
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:        "ошибка валидации черновика",
			requestBody: validDraft(),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.DraftEntry")).
					Return(0, &services.ValidationError{Message: "unknown schedule day: someday"})
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `unknown schedule day`,
		},
		{
			name:        "пересечение с расписанием преподавателя",
			requestBody: validDraft(),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.DraftEntry")).
					Return(0, &services.ConflictError{
						Message: "Teacher already has a session on 2026-09-07 from 15:00 (60 min)",
					})
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `Teacher already has a session`,
		},
		{
			name:        "ошибка сервиса",
			requestBody: validDraft(),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.AnythingOfType("models.DraftEntry")).
					Return(0, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not create subscription`,
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

			req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewReader(body))
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
