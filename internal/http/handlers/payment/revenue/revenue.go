// Package revenue реализует HTTP-обработчик подсчёта выручки за период.
package revenue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/edulingo/tutorcrm/internal/http/response"
	"github.com/edulingo/tutorcrm/internal/lib/sl"
	"github.com/edulingo/tutorcrm/internal/models"
	"github.com/edulingo/tutorcrm/internal/services/payment"
)

// Handler обрабатывает запросы подсчёта выручки.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис учёта платежей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики подсчёта выручки.
type Service interface {
	Revenue(ctx context.Context, req models.DummyRevenueFilter) (float64, error)
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
// @Summary Подсчитать выручку за период
// @Description Возвращает сумму платежей за период [from, to) с необязательным фильтром по валюте
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyRevenueFilter true "Границы периода и валюта"
// @Success 200 {object} map[string]any "Сумма выручки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или период"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при подсчёте выручки"
// @Router /payments/revenue [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.revenue"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyRevenueFilter
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

	total, err := h.service.Revenue(r.Context(), req)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidPeriod) {
			log.Error("invalid revenue period", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid revenue period"))
			return
		}
		log.Error("failed to calculate revenue", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not calculate revenue"))
		return
	}

	log.Info("success to calculate revenue", slog.Float64("total", total))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"total": total,
	}))
}
