// Package list реализует HTTP-обработчик получения списка абонементов.
//
// Список отдаётся постранично через query-параметры limit и offset.
// При передаче параметра student_id возвращаются только абонементы
// указанного ученика без пагинации.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/edulingo/tutorcrm/internal/http/response"
	"github.com/edulingo/tutorcrm/internal/lib/sl"
	"github.com/edulingo/tutorcrm/internal/models"
)

// Значения пагинации по умолчанию.
const (
	defaultLimit  = 20
	defaultOffset = 0
)

// Handler обрабатывает запросы списка абонементов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики списка абонементов
}

// Service описывает интерфейс бизнес-логики списка абонементов.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Subscription, error)
	ListByStudent(ctx context.Context, studentID int) ([]*models.Subscription, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить список абонементов
// @Description Возвращает страницу абонементов. При переданном student_id — все абонементы ученика.
// @Tags Subscriptions
// @Produce  json
// @Param limit query int false "Размер страницы (по умолчанию 20)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Param student_id query int false "Фильтр по ученику"
// @Success 200 {object} map[string]any "Список абонементов"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры запроса"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при получении списка"
// @Router /subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if raw := r.URL.Query().Get("student_id"); raw != "" {
		studentID, err := strconv.Atoi(raw)
		if err != nil {
			log.Error("invalid student_id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid student_id"))
			return
		}
		entries, err := h.service.ListByStudent(r.Context(), studentID)
		if err != nil {
			log.Error("failed to list subscriptions by student", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not list subscriptions"))
			return
		}
		log.Info("success to list subscriptions", slog.Int("student_id", studentID))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"entries": entries,
		}))
		return
	}

	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil {
		log.Error("invalid limit", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid limit"))
		return
	}
	offset, err := queryInt(r, "offset", defaultOffset)
	if err != nil {
		log.Error("invalid offset", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid offset"))
		return
	}

	entries, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list subscriptions"))
		return
	}

	log.Info("success to list subscriptions", slog.Int("count", len(entries)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"entries": entries,
	}))
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
