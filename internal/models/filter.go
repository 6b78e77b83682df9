package models

import "time"

// RevenueFilter представляет параметры подсчёта выручки за период,
// которые передаются в слой доступа к данным.
type RevenueFilter struct {
	From     time.Time // Начало периода (включительно)
	To       time.Time // Конец периода (исключительно)
	Currency string    // Код валюты (пустая строка — без фильтра)
}

// DummyRevenueFilter используется для приёма параметров фильтра из
// JSON-запроса до их валидации и преобразования в RevenueFilter.
// Даты приходят строками в формате 2006-01-02.
type DummyRevenueFilter struct {
	From     string `json:"from" validate:"required"`
	To       string `json:"to" validate:"required"`
	Currency string `json:"currency" validate:"omitempty,len=3,alpha"`
}

// DashboardStats содержит значения виджетов сводной панели.
type DashboardStats struct {
	ActiveStudents      int     `json:"active_students"`      // Ученики с активными абонементами
	ActiveSubscriptions int     `json:"active_subscriptions"` // Активные абонементы
	SessionsThisMonth   int     `json:"sessions_this_month"`  // Проведённые занятия в текущем месяце
	RevenueThisMonth    float64 `json:"revenue_this_month"`   // Выручка в текущем месяце
}
