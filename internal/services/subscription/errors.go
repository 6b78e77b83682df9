package services

import "github.com/edulingo/tutorcrm/internal/models"

// ValidationError сигнализирует о неполном или противоречивом черновике:
// пустое расписание, незаполненная строка, нулевая цена, платёж без счёта.
// Черновик при этом остаётся у клиента, мутация в хранилище не выполняется.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError сигнализирует о пересечении предлагаемого слота с занятием
// преподавателя. Отправка не повторяется автоматически: пользователь должен
// поменять день или время и отправить заново.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ConfirmationRequiredError возвращается из Update, когда изменения найдены,
// а решение о судьбе занятий ещё не принято (preserve_sessions отсутствует).
// Summary содержит список изменений и рекомендацию для пользователя.
type ConfirmationRequiredError struct {
	Summary models.ChangeSummary
}

func (e *ConfirmationRequiredError) Error() string {
	return "confirmation required: subscription changes affect existing sessions"
}
