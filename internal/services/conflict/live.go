package conflict

import (
	"context"
	"log/slog"
	"time"

	"github.com/edulingo/tutorcrm/internal/lib/debounce"
	"github.com/edulingo/tutorcrm/internal/models"
)

// LiveChecker выполняет отложенную проверку конфликтов во время редактирования
// черновика. Проверки по одному ключу схлопываются: каждая новая отменяет
// ещё не сработавший таймер предыдущей, срабатывает только последняя.
type LiveChecker struct {
	validator *Validator
	debouncer *debounce.Debouncer
	delay     time.Duration
	log       *slog.Logger
}

// NewLiveChecker создает новый экземпляр LiveChecker с заданной задержкой.
func NewLiveChecker(validator *Validator, delay time.Duration, log *slog.Logger) *LiveChecker {
	return &LiveChecker{
		validator: validator,
		debouncer: debounce.New(delay),
		delay:     delay,
		log:       log,
	}
}

// Schedule планирует проверку слота по ключу черновика. Результат передаётся
// в deliver после срабатывания таймера; если до этого по тому же ключу пришла
// новая проверка, deliver не вызывается вовсе.
func (c *LiveChecker) Schedule(key string, check models.ConflictCheck,
	deliver func(models.ConflictResult, error)) {
	c.debouncer.Trigger(key, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		result, err := c.validator.Validate(ctx, check)
		if err != nil {
			c.log.Warn("live conflict check failed",
				slog.String("key", key), slog.Any("err", err))
		}
		deliver(result, err)
	})
}

// Cancel отменяет запланированную проверку по ключу.
func (c *LiveChecker) Cancel(key string) {
	c.debouncer.Cancel(key)
}

// Delay возвращает задержку срабатывания проверки.
func (c *LiveChecker) Delay() time.Duration {
	return c.delay
}

// Stop отменяет все запланированные проверки.
func (c *LiveChecker) Stop() {
	c.debouncer.Stop()
}
