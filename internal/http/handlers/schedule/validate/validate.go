// Package validate реализует HTTP-обработчик авторитетной проверки
// пересечений расписания преподавателя.
//
// Проверка выполняется синхронно и используется перед сохранением
// абонемента: предлагаемый слот сравнивается с занятиями преподавателя
// на указанную дату. Занятия абонемента из exclude_subscription_id
// конфликтом не считаются, что позволяет редактировать абонемент,
// не конфликтуя с его собственными занятиями.
package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/edulingo/tutorcrm/internal/http/response"
	"github.com/edulingo/tutorcrm/internal/lib/clock"
	"github.com/edulingo/tutorcrm/internal/lib/sl"
	"github.com/edulingo/tutorcrm/internal/models"
)

// Handler обрабатывает запросы синхронной проверки расписания.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис проверки пересечений
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс проверки пересечений расписания.
type Service interface {
	Validate(ctx context.Context, check models.ConflictCheck) (models.ConflictResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Проверить слот расписания
// @Description Синхронно проверяет, пересекается ли предлагаемый слот с занятиями преподавателя на указанную дату
// @Tags Schedule
// @Accept  json
// @Produce  json
// @Param request body models.DummyConflictCheck true "Параметры проверяемого слота"
// @Success 200 {object} map[string]any "Результат проверки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, дата или время"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при проверке расписания"
// @Router /schedule/validate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedule.validate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyConflictCheck
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	check, err := ToConflictCheck(req)
	if err != nil {
		log.Error("invalid slot parameters", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	log.Info("slot parameters parsed", slog.String("start_time", check.StartTime))

	result, err := h.service.Validate(r.Context(), check)
	if err != nil {
		log.Error("failed to validate schedule", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not validate schedule"))
		return
	}

	log.Info("success to validate schedule", slog.Bool("has_conflict", result.HasConflict))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"has_conflict":     result.HasConflict,
		"conflict_message": result.ConflictMessage,
	}))
}

// ToConflictCheck разбирает дату и нормализует время слота
// в канонический 24-часовой формат.
func ToConflictCheck(req models.DummyConflictCheck) (models.ConflictCheck, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return models.ConflictCheck{}, fmt.Errorf("invalid date: %s", req.Date)
	}
	start, err := clock.To24Hour(req.StartTime)
	if err != nil {
		return models.ConflictCheck{}, fmt.Errorf("invalid start time: %s", req.StartTime)
	}
	return models.ConflictCheck{
		TeacherID:             req.TeacherID,
		Date:                  date,
		StartTime:             start,
		DurationMinutes:       req.DurationMinutes,
		ExcludeSubscriptionID: req.ExcludeSubscriptionID,
	}, nil
}
