package models

import "time"

// Student представляет ученика школы.
type Student struct {
	ID        int       // Идентификатор
	FirstName string    // Имя
	LastName  string    // Фамилия
	Email     string    // Электронная почта
	Phone     string    // Телефон
	Notes     string    // Заметки
	CreatedAt time.Time // Дата создания записи
}

// Teacher представляет преподавателя школы.
type Teacher struct {
	ID       int    // Идентификатор
	FullName string // Полное имя
	Email    string // Электронная почта
}

// DummyStudent используется для приёма данных ученика из JSON-запроса.
type DummyStudent struct {
	FirstName string `json:"first_name" validate:"required"` // Имя
	LastName  string `json:"last_name" validate:"required"`  // Фамилия
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

// DummyTeacher используется для приёма данных преподавателя из JSON-запроса.
type DummyTeacher struct {
	FullName string `json:"full_name" validate:"required"` // Полное имя
	Email    string `json:"email" validate:"omitempty,email"`
}
