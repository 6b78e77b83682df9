package models

import "time"

// Допустимые способы оплаты.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// Payment представляет один платёж ученика. Платёж может быть привязан
// к абонементу (первый платёж при создании) или существовать отдельно.
type Payment struct {
	ID             int       // Идентификатор платежа
	StudentID      int       // Ученик, внёсший платёж
	SubscriptionID *int      // Абонемент (nil для платежей вне абонемента)
	Amount         float64   // Сумма
	Currency       string    // Код валюты
	Method         string    // cash, card, transfer
	AccountID      int       // Счёт зачисления
	Notes          string    // Заметки
	PaidAt         time.Time // Дата платежа
}

// DraftPayment используется для приёма данных платежа из JSON-запроса.
// При положительной сумме обязательно указание счёта зачисления.
type DraftPayment struct {
	Amount    float64 `json:"amount" validate:"gte=0"`                              // Сумма (>= 0)
	Method    string  `json:"method" validate:"omitempty,oneof=cash card transfer"` // Способ оплаты
	AccountID int     `json:"account_id"`                                           // Счёт зачисления
	Notes     string  `json:"notes"`                                                // Заметки
}

// DummyStandalonePayment используется для приёма отдельного платежа,
// не связанного с созданием абонемента.
type DummyStandalonePayment struct {
	StudentID      int     `json:"student_id" validate:"required"`
	SubscriptionID *int    `json:"subscription_id,omitempty"`
	Amount         float64 `json:"amount" validate:"required,gt=0"`
	Currency       string  `json:"currency" validate:"required,len=3,alpha"`
	Method         string  `json:"method" validate:"required,oneof=cash card transfer"`
	AccountID      int     `json:"account_id" validate:"required"`
	Notes          string  `json:"notes"`
}
