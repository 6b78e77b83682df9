// Package stats реализует HTTP-обработчик сводной панели школы.
package stats

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

// Handler обрабатывает запросы сводной статистики.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис сводной статистики
}

// Service описывает интерфейс бизнес-логики сводной статистики.
type Service interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить сводную статистику
// @Description Возвращает значения виджетов панели: активные ученики и абонементы, занятия и выручка текущего месяца
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} map[string]any "Значения виджетов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при подсчёте статистики"
// @Router /dashboard/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error("failed to load dashboard stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load dashboard stats"))
		return
	}

	log.Info("success to load dashboard stats")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"stats": res,
	}))
}
