package services

import (
	"sort"
	"time"

	"github.com/edulingo/tutorcrm/internal/lib/clock"
	"github.com/edulingo/tutorcrm/internal/models"
)

// GenerateSessions строит план занятий абонемента: обходит календарные даты
// начиная с даты старта и создает занятие на каждую строку расписания,
// выпадающую на этот день недели, пока не наберётся нужное количество.
// Несколько строк на один день дают несколько занятий, по возрастанию времени.
func GenerateSessions(sub models.Subscription) []models.Session {
	if sub.SessionCount <= 0 || len(sub.Schedule) == 0 {
		return nil
	}

	byWeekday := make(map[time.Weekday][]string)
	for _, entry := range sub.Schedule {
		weekday, err := clock.Weekday(entry.Day)
		if err != nil {
			continue
		}
		byWeekday[weekday] = append(byWeekday[weekday], entry.Time)
	}
	if len(byWeekday) == 0 {
		return nil
	}
	for _, times := range byWeekday {
		sort.Strings(times)
	}

	sessions := make([]models.Session, 0, sub.SessionCount)
	date := sub.StartDate
	for len(sessions) < sub.SessionCount {
		for _, startTime := range byWeekday[date.Weekday()] {
			sessions = append(sessions, models.Session{
				SubscriptionID:  sub.ID,
				StudentID:       sub.StudentID,
				TeacherID:       sub.TeacherID,
				Date:            date,
				StartTime:       startTime,
				DurationMinutes: sub.SessionDurationMinutes,
				Status:          models.SessionScheduled,
			})
			if len(sessions) == sub.SessionCount {
				break
			}
		}
		date = date.AddDate(0, 0, 1)
	}
	return sessions
}
