package precheck

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/edulingo/tutorcrm/internal/models"
)

// fakeChecker доставляет заранее заданный результат либо молчит,
// имитируя вытеснение проверки более новым запросом.
type fakeChecker struct {
	delay   time.Duration
	result  *models.ConflictResult
	err     error
	lastKey string
}

func (f *fakeChecker) Schedule(key string, _ models.ConflictCheck,
	deliver func(models.ConflictResult, error)) {
	f.lastKey = key
	if f.result == nil && f.err == nil {
		return // молчим, проверку вытеснили
	}
	go func() {
		time.Sleep(f.delay / 2)
		var result models.ConflictResult
		if f.result != nil {
			result = *f.result
		}
		deliver(result, f.err)
	}()
}

func (f *fakeChecker) Delay() time.Duration {
	return f.delay
}

func validRequest() Request {
	return Request{
		DummyConflictCheck: models.DummyConflictCheck{
			TeacherID:       2,
			Date:            "2026-09-07",
			StartTime:       "3:00 PM",
			DurationMinutes: 60,
		},
		DraftKey: "draft:42",
	}
}

func newRequest(t *testing.T, body interface{}) *http.Request {
	t.Helper()

	var raw []byte
	if str, ok := body.(string); ok {
		raw = []byte(str)
	} else {
		var err error
		raw, err = json.Marshal(body)
		assert.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, "/schedule/precheck", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))
}

func TestPrecheckHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	t.Run("результат проверки доставлен", func(t *testing.T) {
		checker := &fakeChecker{
			delay: 20 * time.Millisecond,
			result: &models.ConflictResult{
				HasConflict:     true,
				ConflictMessage: "Teacher already has a session on 2026-09-07 from 15:00 (60 min)",
			},
		}
		handler := New(logger, checker)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(t, validRequest()))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"superseded":false`)
		assert.Contains(t, rr.Body.String(), `"has_conflict":true`)
		assert.Contains(t, rr.Body.String(), "Teacher already has a session")
		assert.Equal(t, "draft:42", checker.lastKey)
	})

	t.Run("вытесненный запрос получает superseded", func(t *testing.T) {
		checker := &fakeChecker{delay: 20 * time.Millisecond}
		handler := New(logger, checker)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(t, validRequest()))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"superseded":true`)
	})

	t.Run("время в 12-часовом формате нормализуется", func(t *testing.T) {
		var gotCheck models.ConflictCheck
		checker := &fakeChecker{
			delay:  20 * time.Millisecond,
			result: &models.ConflictResult{},
		}
		handler := New(logger, &captureChecker{inner: checker, check: &gotCheck})

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(t, validRequest()))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "15:00", gotCheck.StartTime)
	})

	t.Run("некорректный JSON", func(t *testing.T) {
		handler := New(logger, &fakeChecker{delay: 20 * time.Millisecond})

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(t, "not a json"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid request body")
	})

	t.Run("отсутствует draft_key", func(t *testing.T) {
		handler := New(logger, &fakeChecker{delay: 20 * time.Millisecond})

		req := validRequest()
		req.DraftKey = ""

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(t, req))

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("нечитаемое время слота", func(t *testing.T) {
		handler := New(logger, &fakeChecker{delay: 20 * time.Millisecond})

		req := validRequest()
		req.StartTime = "half past three"

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest(t, req))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid start time")
	})
}

// captureChecker записывает переданный ConflictCheck и делегирует вложенному.
type captureChecker struct {
	inner *fakeChecker
	check *models.ConflictCheck
}

func (c *captureChecker) Schedule(key string, check models.ConflictCheck,
	deliver func(models.ConflictResult, error)) {
	*c.check = check
	c.inner.Schedule(key, check, deliver)
}

func (c *captureChecker) Delay() time.Duration {
	return c.inner.Delay()
}
