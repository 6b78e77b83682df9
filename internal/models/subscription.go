// Package models содержит доменные структуры абонементов, занятий, учеников
// и платежей, а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Допустимые значения режима цены абонемента.
const (
	PriceModePerSession = "per_session"
	PriceModeFixed      = "fixed_price"
)

// Допустимые статусы абонемента.
const (
	SubscriptionActive    = "active"
	SubscriptionPaused    = "paused"
	SubscriptionCompleted = "completed"
	SubscriptionCancelled = "cancelled"
)

// ScheduleEntry описывает одну строку недельного расписания абонемента:
// день недели и время начала занятия в каноническом 24-часовом формате "HH:MM".
// Дубликаты дней допустимы — несколько занятий в один день с разным временем.
type ScheduleEntry struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

// Subscription представляет собой основную модель абонемента,
// используемую в бизнес-логике и хранилище. Расписание хранится
// в колонке schedule как JSON-массив строк {day, time}.
type Subscription struct {
	ID                     int             // Идентификатор записи
	UID                    string          // Внешний UUID абонемента
	StudentID              int             // Ученик, которому принадлежит абонемент
	TeacherID              int             // Преподаватель, ведущий занятия
	SessionCount           int             // Общее количество занятий
	DurationMonths         int             // Длительность абонемента в месяцах
	SessionDurationMinutes int             // Длительность одного занятия в минутах
	StartDate              time.Time       // Дата начала
	Schedule               []ScheduleEntry // Недельное расписание
	PriceMode              string          // per_session или fixed_price
	PricePerSession        float64         // Цена одного занятия
	FixedPrice             float64         // Фиксированная цена абонемента
	Currency               string          // Код валюты (ISO-4217)
	Status                 string          // active, paused, completed, cancelled
	Notes                  string          // Произвольные заметки

	// Производные поля, заполняются при чтении из хранилища.
	SessionsCompleted int     // Количество проведённых занятий
	TotalPaid         float64 // Сумма всех платежей по абонементу
}

// TotalPrice возвращает полную стоимость абонемента согласно режиму цены:
// цена занятия, умноженная на количество занятий, либо фиксированная цена.
func (s Subscription) TotalPrice() float64 {
	if s.PriceMode == PriceModePerSession {
		return s.PricePerSession * float64(s.SessionCount)
	}
	return s.FixedPrice
}

// DraftEntry используется для приёма данных абонемента из JSON-запроса,
// прежде чем конвертировать их в Subscription. Дата начала приходит строкой
// в формате 2006-01-02, время в строках расписания — в 12- или 24-часовом
// виде и нормализуется на границе приёма.
type DraftEntry struct {
	StudentID              int             `json:"student_id" validate:"required"`                                      // Идентификатор ученика
	TeacherID              int             `json:"teacher_id" validate:"required"`                                      // Идентификатор преподавателя
	SessionCount           int             `json:"session_count" validate:"gte=0"`                                      // Количество занятий
	DurationMonths         int             `json:"duration_months" validate:"gte=0"`                                    // Длительность в месяцах
	SessionDurationMinutes int             `json:"session_duration_minutes" validate:"gte=0"`                           // Длительность занятия (0 — значение по умолчанию)
	StartDate              string          `json:"start_date" validate:"required"`                                      // Дата начала в формате 2006-01-02
	Schedule               []ScheduleEntry `json:"schedule"`                                                            // Недельное расписание
	PriceMode              string          `json:"price_mode" validate:"required,oneof=per_session fixed_price"`        // Режим цены
	PricePerSession        float64         `json:"price_per_session" validate:"gte=0"`                                  // Цена занятия
	FixedPrice             float64         `json:"fixed_price" validate:"gte=0"`                                        // Фиксированная цена
	Currency               string          `json:"currency" validate:"required,len=3,alpha"`                            // Код валюты
	Status                 string          `json:"status" validate:"omitempty,oneof=active paused completed cancelled"` // Статус (по умолчанию active)
	Notes                  string          `json:"notes"`                                                               // Заметки
	InitialPayment         *DraftPayment   `json:"initial_payment,omitempty"`                                           // Первый платёж (только при создании)
}

// DraftUpdateEntry используется для приёма данных обновления абонемента.
// Поле PreserveSessions отражает решение пользователя о судьбе уже
// созданных занятий: nil — решение ещё не принято, true — сохранить
// историю посещений, false — удалить занятия и сгенерировать заново.
type DraftUpdateEntry struct {
	DraftEntry
	PreserveSessions *bool `json:"preserve_sessions,omitempty"`
}

// ChangeSummary описывает результат сравнения исходного абонемента
// с черновиком при редактировании. Существует только на время
// подтверждения изменений и не сохраняется.
type ChangeSummary struct {
	Changes         []string `json:"changes"`          // Человеко-читаемые описания изменений
	MajorChange     bool     `json:"major_change"`     // Изменились дни расписания или количество занятий
	SuggestPreserve bool     `json:"suggest_preserve"` // Рекомендация сохранить историю занятий
}

// Empty сообщает, что изменений между оригиналом и черновиком нет.
func (c ChangeSummary) Empty() bool {
	return len(c.Changes) == 0
}
