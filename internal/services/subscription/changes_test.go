package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulingo/tutorcrm/internal/models"
)

func baseSubscription() models.Subscription {
	return models.Subscription{
		ID:                     1,
		SessionCount:           8,
		DurationMonths:         2,
		SessionDurationMinutes: 60,
		StartDate:              time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Schedule: []models.ScheduleEntry{
			{Day: "Monday", Time: "15:00"},
			{Day: "Thursday", Time: "17:00"},
		},
		PriceMode:       models.PriceModePerSession,
		PricePerSession: 500,
		Currency:        "RUB",
		Status:          models.SubscriptionActive,
	}
}

func baseDraft() models.DraftEntry {
	return models.DraftEntry{
		SessionCount:           8,
		DurationMonths:         2,
		SessionDurationMinutes: 60,
		StartDate:              "2026-09-01",
		Schedule: []models.ScheduleEntry{
			{Day: "Monday", Time: "15:00"},
			{Day: "Thursday", Time: "17:00"},
		},
		PriceMode:       models.PriceModePerSession,
		PricePerSession: 500,
		Currency:        "RUB",
	}
}

func TestDetectChanges(t *testing.T) {
	tests := []struct {
		name            string
		mutate          func(*models.DraftEntry)
		wantChanges     int
		wantMajor       bool
		wantSuggest     bool
		wantContains    string
		wantNotContains string
	}{
		{
			name:        "без изменений - пустая сводка",
			mutate:      func(_ *models.DraftEntry) {},
			wantChanges: 0,
			wantSuggest: true,
		},
		{
			name: "изменение дней - крупное изменение",
			mutate: func(d *models.DraftEntry) {
				d.Schedule = []models.ScheduleEntry{
					{Day: "Tuesday", Time: "15:00"},
					{Day: "Thursday", Time: "17:00"},
				}
			},
			wantChanges:  1,
			wantMajor:    true,
			wantSuggest:  false,
			wantContains: "Schedule days changed",
		},
		{
			name: "изменение только времени - мелкое изменение",
			mutate: func(d *models.DraftEntry) {
				d.Schedule = []models.ScheduleEntry{
					{Day: "Monday", Time: "16:00"},
					{Day: "Thursday", Time: "17:00"},
				}
			},
			wantChanges:  1,
			wantMajor:    false,
			wantSuggest:  true,
			wantContains: "Session times updated",
		},
		{
			name: "при изменении дней сообщение о времени подавляется",
			mutate: func(d *models.DraftEntry) {
				d.Schedule = []models.ScheduleEntry{
					{Day: "Tuesday", Time: "09:00"},
					{Day: "Thursday", Time: "17:00"},
				}
			},
			wantChanges:     1,
			wantMajor:       true,
			wantSuggest:     false,
			wantNotContains: "Session times updated",
		},
		{
			name: "перестановка строк расписания не считается изменением",
			mutate: func(d *models.DraftEntry) {
				d.Schedule = []models.ScheduleEntry{
					{Day: "Thursday", Time: "17:00"},
					{Day: "Monday", Time: "15:00"},
				}
			},
			wantChanges: 0,
			wantSuggest: true,
		},
		{
			name: "изменение количества занятий - крупное изменение",
			mutate: func(d *models.DraftEntry) {
				d.SessionCount = 12
			},
			wantChanges:  1,
			wantMajor:    true,
			wantSuggest:  false,
			wantContains: "Session count changed from 8 to 12",
		},
		{
			name: "изменение цены занятия - мелкое изменение",
			mutate: func(d *models.DraftEntry) {
				d.PricePerSession = 600
			},
			wantChanges:  1,
			wantMajor:    false,
			wantSuggest:  true,
			wantContains: "Price per session changed",
		},
		{
			name: "изменение режима цены - мелкое изменение",
			mutate: func(d *models.DraftEntry) {
				d.PriceMode = models.PriceModeFixed
				d.FixedPrice = 4000
			},
			wantChanges: 2,
			wantMajor:   false,
			wantSuggest: true,
		},
		{
			name: "изменение длительности занятия - мелкое изменение",
			mutate: func(d *models.DraftEntry) {
				d.SessionDurationMinutes = 90
			},
			wantChanges:  1,
			wantMajor:    false,
			wantSuggest:  true,
			wantContains: "Session duration changed from 60 to 90 minutes",
		},
		{
			name: "дни и количество - оба сообщения, крупное изменение",
			mutate: func(d *models.DraftEntry) {
				d.Schedule = []models.ScheduleEntry{{Day: "Friday", Time: "15:00"}}
				d.SessionCount = 4
			},
			wantChanges: 2,
			wantMajor:   true,
			wantSuggest: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := baseDraft()
			tt.mutate(&draft)

			summary := DetectChanges(baseSubscription(), draft)

			require.Len(t, summary.Changes, tt.wantChanges)
			assert.Equal(t, tt.wantMajor, summary.MajorChange)
			assert.Equal(t, tt.wantSuggest, summary.SuggestPreserve)
			assert.Equal(t, tt.wantChanges == 0, summary.Empty())
			if tt.wantContains != "" {
				assert.Contains(t, summary.Changes[0], tt.wantContains)
			}
			if tt.wantNotContains != "" {
				for _, change := range summary.Changes {
					assert.NotContains(t, change, tt.wantNotContains)
				}
			}
		})
	}
}
