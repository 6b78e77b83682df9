package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulingo/tutorcrm/internal/models"
)

func TestGenerateSessions(t *testing.T) {
	// 1 сентября 2026 — вторник
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("количество и порядок занятий", func(t *testing.T) {
		sub := baseSubscription()
		sub.StartDate = start
		sub.SessionCount = 4
		sub.Schedule = []models.ScheduleEntry{
			{Day: "Monday", Time: "15:00"},
			{Day: "Thursday", Time: "17:00"},
		}

		sessions := GenerateSessions(sub)
		require.Len(t, sessions, 4)

		// Первый четверг - 3 сентября, первый понедельник - 7 сентября
		assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), sessions[0].Date)
		assert.Equal(t, "17:00", sessions[0].StartTime)
		assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), sessions[1].Date)
		assert.Equal(t, "15:00", sessions[1].StartTime)
		assert.Equal(t, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), sessions[2].Date)
		assert.Equal(t, time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC), sessions[3].Date)

		for _, session := range sessions {
			assert.Equal(t, models.SessionScheduled, session.Status)
			assert.Equal(t, sub.ID, session.SubscriptionID)
			assert.Equal(t, 60, session.DurationMinutes)
		}
	})

	t.Run("занятие в день старта попадает в план", func(t *testing.T) {
		sub := baseSubscription()
		sub.StartDate = start
		sub.SessionCount = 2
		sub.Schedule = []models.ScheduleEntry{{Day: "Tuesday", Time: "10:00"}}

		sessions := GenerateSessions(sub)
		require.Len(t, sessions, 2)
		assert.Equal(t, start, sessions[0].Date)
		assert.Equal(t, start.AddDate(0, 0, 7), sessions[1].Date)
	})

	t.Run("два занятия в один день по возрастанию времени", func(t *testing.T) {
		sub := baseSubscription()
		sub.StartDate = start
		sub.SessionCount = 2
		sub.Schedule = []models.ScheduleEntry{
			{Day: "Tuesday", Time: "18:00"},
			{Day: "Tuesday", Time: "10:00"},
		}

		sessions := GenerateSessions(sub)
		require.Len(t, sessions, 2)
		assert.Equal(t, sessions[0].Date, sessions[1].Date)
		assert.Equal(t, "10:00", sessions[0].StartTime)
		assert.Equal(t, "18:00", sessions[1].StartTime)
	})

	t.Run("пустое расписание - пустой план", func(t *testing.T) {
		sub := baseSubscription()
		sub.Schedule = nil
		assert.Nil(t, GenerateSessions(sub))
	})

	t.Run("нулевое количество занятий - пустой план", func(t *testing.T) {
		sub := baseSubscription()
		sub.SessionCount = 0
		assert.Nil(t, GenerateSessions(sub))
	})

	t.Run("расписание без распознаваемых дней - пустой план", func(t *testing.T) {
		sub := baseSubscription()
		sub.Schedule = []models.ScheduleEntry{{Day: "Someday", Time: "10:00"}}
		assert.Nil(t, GenerateSessions(sub))
	})
}
