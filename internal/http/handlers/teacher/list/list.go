// Package list реализует HTTP-обработчик получения списка преподавателей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/edulingo/tutorcrm/internal/http/response"
	"github.com/edulingo/tutorcrm/internal/lib/sl"
	"github.com/edulingo/tutorcrm/internal/models"
)

// Handler обрабатывает запросы списка преподавателей.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис картотеки учеников и преподавателей
}

// Service описывает интерфейс бизнес-логики списка преподавателей.
type Service interface {
	ListTeachers(ctx context.Context) ([]*models.Teacher, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить список преподавателей
// @Tags Teachers
// @Produce  json
// @Success 200 {object} map[string]any "Список преподавателей"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при получении списка"
// @Router /teachers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.teacher.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	entries, err := h.service.ListTeachers(r.Context())
	if err != nil {
		log.Error("failed to list teachers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list teachers"))
		return
	}

	log.Info("success to list teachers", slog.Int("count", len(entries)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"entries": entries,
	}))
}
