// Package update реализует HTTP-обработчик для редактирования абонементов.
//
// Обработчик поддерживает двухшаговый сценарий подтверждения: если изменения
// затрагивают уже созданные занятия, а клиент не указал поле preserve_sessions,
// сервер не изменяет данные и возвращает сводку изменений с флагом
// confirmation_required. Повторный запрос с явным preserve_sessions применяет
// изменения окончательно.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/edulingo/tutorcrm/internal/http/response"
	"github.com/edulingo/tutorcrm/internal/lib/sl"
	"github.com/edulingo/tutorcrm/internal/models"
	services "github.com/edulingo/tutorcrm/internal/services/subscription"
	"github.com/edulingo/tutorcrm/internal/storage/repository"
)

// Handler управляет HTTP-запросами на обновление абонементов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики обновления абонементов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики обновления абонемента.
type Service interface {
	Update(ctx context.Context, req models.DraftUpdateEntry, id int) (models.ChangeSummary, error)
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
// @Summary Обновить абонемент
// @Description Обновляет абонемент по ID. Если изменения затрагивают занятия и поле preserve_sessions не передано, данные не изменяются: возвращается сводка изменений с confirmation_required=true.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path int true "ID абонемента"
// @Param request body models.DraftUpdateEntry true "Новые данные абонемента"
// @Success 200 {object} map[string]any "Изменения применены либо требуется подтверждение"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 404 {object} response.ErrorResponse "Абонемент не найден"
// @Failure 409 {object} response.ErrorResponse "Пересечение с расписанием преподавателя"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при обновлении абонемента"
// @Router /subscriptions/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid subscription id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid subscription id"))
		return
	}

	var req models.DraftUpdateEntry
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

	summary, err := h.service.Update(r.Context(), req, id)
	if err != nil {
		var confirmErr *services.ConfirmationRequiredError
		var validationErr *services.ValidationError
		var conflictErr *services.ConflictError
		switch {
		case errors.As(err, &confirmErr):
			log.Info("confirmation required", slog.Any("changes", confirmErr.Summary.Changes))
			render.JSON(w, r, response.StatusOKWithData(map[string]any{
				"confirmation_required": true,
				"changes":               confirmErr.Summary.Changes,
				"major_change":          confirmErr.Summary.MajorChange,
				"suggest_preserve":      confirmErr.Summary.SuggestPreserve,
			}))
		case errors.As(err, &validationErr):
			log.Error("draft validation failed", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(validationErr.Message))
		case errors.As(err, &conflictErr):
			log.Error("schedule conflict", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(conflictErr.Message))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("subscription not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
		default:
			log.Error("failed to update subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update subscription"))
		}
		return
	}

	log.Info("success to update subscription", slog.Any("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"confirmation_required": false,
		"changes":               summary.Changes,
		"major_change":          summary.MajorChange,
	}))
}
