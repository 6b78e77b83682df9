package models

import "time"

// Допустимые статусы занятия.
const (
	SessionScheduled = "scheduled"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
	SessionMissed    = "missed"
)

// Session представляет одно конкретное занятие, принадлежащее абонементу.
// Именно эти записи защищает решение "сохранить/сбросить" при редактировании:
// в статусах completed, cancelled и missed хранится история посещений.
type Session struct {
	ID              int       // Идентификатор занятия
	SubscriptionID  int       // Абонемент, которому принадлежит занятие
	StudentID       int       // Ученик
	TeacherID       int       // Преподаватель
	Date            time.Time // Календарная дата занятия
	StartTime       string    // Время начала в формате "HH:MM" (24 часа)
	DurationMinutes int       // Длительность в минутах
	Status          string    // scheduled, completed, cancelled, missed
	Notes           string    // Заметки (причина отмены и т.п.)
}

// ConflictCheck описывает параметры проверки пересечения расписания
// преподавателя: предлагаемый слот и абонемент, занятия которого
// не считаются конфликтом при редактировании.
type ConflictCheck struct {
	TeacherID             int       // Преподаватель
	Date                  time.Time // Дата проверяемого слота
	StartTime             string    // Время начала "HH:MM" (24 часа)
	DurationMinutes       int       // Длительность слота
	ExcludeSubscriptionID int       // 0 — без исключений
}

// DummyConflictCheck используется для приёма параметров проверки слота
// из JSON-запроса. Дата приходит строкой в формате 2006-01-02, время —
// в 12- или 24-часовом виде.
type DummyConflictCheck struct {
	TeacherID             int    `json:"teacher_id" validate:"required"`
	Date                  string `json:"date" validate:"required"`
	StartTime             string `json:"start_time" validate:"required"`
	DurationMinutes       int    `json:"duration_minutes" validate:"required,gt=0"`
	ExcludeSubscriptionID int    `json:"exclude_subscription_id" validate:"gte=0"`
}

// ConflictResult — результат проверки пересечения расписания.
type ConflictResult struct {
	HasConflict     bool   `json:"has_conflict"`
	ConflictMessage string `json:"conflict_message,omitempty"`
}

// SessionReminder содержит данные для письма-напоминания о завтрашнем занятии.
type SessionReminder struct {
	StudentName string    // Имя ученика
	Email       string    // Адрес для отправки
	TeacherName string    // Имя преподавателя
	Date        time.Time // Дата занятия
	StartTime   string    // Время начала "HH:MM"
}
