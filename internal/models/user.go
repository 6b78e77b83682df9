package models

import "time"

// User представляет учётную запись сотрудника школы.
type User struct {
	UID          string    // Внешний UUID пользователя
	Username     string    // Имя пользователя
	Email        string    // Электронная почта
	PasswordHash string    // bcrypt-хэш пароля
	Role         string    // admin или manager
	CreatedAt    time.Time // Дата регистрации
}

// RegisterRequest используется для приёма данных регистрации из JSON-запроса.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest используется для приёма данных входа из JSON-запроса.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
