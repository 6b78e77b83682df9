// Package changes реализует HTTP-обработчик предпросмотра изменений абонемента.
//
// Обработчик сравнивает присланный черновик с сохранённым абонементом и
// возвращает человеко-читаемую сводку изменений, не изменяя данные.
// Используется интерфейсом редактирования для показа диалога подтверждения
// до отправки окончательного запроса на обновление.
package changes

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

// Handler обрабатывает запросы предпросмотра изменений абонемента.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики сравнения абонементов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики сравнения абонементов.
type Service interface {
	PreviewChanges(ctx context.Context, req models.DraftEntry, id int) (models.ChangeSummary, error)
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
// @Summary Предпросмотр изменений абонемента
// @Description Сравнивает черновик с сохранённым абонементом и возвращает сводку изменений без их применения
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path int true "ID абонемента"
// @Param request body models.DraftEntry true "Черновик абонемента"
// @Success 200 {object} map[string]any "Сводка изменений"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 404 {object} response.ErrorResponse "Абонемент не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при сравнении"
// @Router /subscriptions/{id}/changes [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.changes"
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

	var req models.DraftEntry
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

	summary, err := h.service.PreviewChanges(r.Context(), req, id)
	if err != nil {
		var validationErr *services.ValidationError
		switch {
		case errors.As(err, &validationErr):
			log.Error("draft validation failed", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(validationErr.Message))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("subscription not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
		default:
			log.Error("failed to preview changes", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not preview changes"))
		}
		return
	}

	log.Info("success to preview changes", slog.Any("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"changes":          summary.Changes,
		"major_change":     summary.MajorChange,
		"suggest_preserve": summary.SuggestPreserve,
	}))
}
