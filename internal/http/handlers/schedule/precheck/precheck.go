// Package precheck реализует HTTP-обработчик живой проверки расписания
// во время набора данных в форме абонемента.
//
// Запросы по одному draft_key схлопываются: проверка выполняется только
// после паузы во вводе, каждый новый запрос отменяет таймер предыдущего.
// Запрос, вытесненный более новым, завершается ответом superseded=true
// без результата проверки — актуальный результат придёт в ответе на
// последний запрос.
package precheck

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/edulingo/tutorcrm/internal/http/handlers/schedule/validate"
	"github.com/edulingo/tutorcrm/internal/http/response"
	"github.com/edulingo/tutorcrm/internal/lib/sl"
	"github.com/edulingo/tutorcrm/internal/models"
)

// Handler обрабатывает запросы живой проверки расписания.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	checker  Checker             // Отложенная проверка конфликтов по ключу черновика
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Checker описывает интерфейс отложенной проверки конфликтов.
type Checker interface {
	Schedule(key string, check models.ConflictCheck, deliver func(models.ConflictResult, error))
	Delay() time.Duration
}

// Request описывает параметры живой проверки из JSON-запроса.
// DraftKey идентифицирует редактируемую форму, по нему схлопываются
// проверки при быстром вводе.
type Request struct {
	models.DummyConflictCheck
	DraftKey string `json:"draft_key" validate:"required"`
}

type delivery struct {
	result models.ConflictResult
	err    error
}

// New создает новый Handler с переданными логгером и проверкой.
func New(log *slog.Logger, checker Checker) *Handler {
	return &Handler{
		log:      log,
		checker:  checker,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Живая проверка слота расписания
// @Description Планирует отложенную проверку слота. Запросы по одному draft_key схлопываются: вытесненный запрос получает superseded=true, последний — результат проверки.
// @Tags Schedule
// @Accept  json
// @Produce  json
// @Param request body Request true "Параметры слота и ключ черновика"
// @Success 200 {object} map[string]any "Результат проверки либо superseded=true"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, дата или время"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при проверке расписания"
// @Router /schedule/precheck [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.schedule.precheck"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	check, err := validate.ToConflictCheck(req.DummyConflictCheck)
	if err != nil {
		log.Error("invalid slot parameters", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	done := make(chan delivery, 1)
	h.checker.Schedule(req.DraftKey, check, func(result models.ConflictResult, err error) {
		done <- delivery{result: result, err: err}
	})

	// Запрос держится открытым на двойную задержку ввода: запас на саму
	// проверку после срабатывания таймера. Если таймер вытеснен более новым
	// запросом, deliver для этого запроса не вызовется — истечёт запас
	// и клиент получит superseded.
	timeout := time.NewTimer(2 * h.checker.Delay())
	defer timeout.Stop()

	select {
	case d := <-done:
		if d.err != nil {
			log.Error("failed to precheck schedule", sl.Err(d.err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not validate schedule"))
			return
		}
		log.Info("success to precheck schedule", slog.Bool("has_conflict", d.result.HasConflict))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"superseded":       false,
			"has_conflict":     d.result.HasConflict,
			"conflict_message": d.result.ConflictMessage,
		}))
	case <-timeout.C:
		log.Info("precheck superseded", slog.String("draft_key", req.DraftKey))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"superseded": true,
		}))
	case <-r.Context().Done():
		log.Info("precheck aborted by client", slog.String("draft_key", req.DraftKey))
	}
}
