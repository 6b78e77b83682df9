package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/edulingo/tutorcrm/internal/models"
)

// DetectChanges сравнивает сохранённый абонемент с черновиком и классифицирует
// изменения. Крупные изменения (дни расписания, количество занятий) ломают
// сгенерированный план занятий, мелкие (время, цена, длительность) — нет.
// Времена в черновике должны быть уже нормализованы к 24-часовому формату.
func DetectChanges(original models.Subscription, draft models.DraftEntry) models.ChangeSummary {
	var summary models.ChangeSummary

	originalDays := sortedDays(original.Schedule)
	draftDays := sortedDays(draft.Schedule)
	if !slices.Equal(originalDays, draftDays) {
		summary.Changes = append(summary.Changes, fmt.Sprintf(
			"Schedule days changed from [%s] to [%s]",
			strings.Join(originalDays, ", "), strings.Join(draftDays, ", ")))
		summary.MajorChange = true
	} else if !slices.Equal(sortedSlots(original.Schedule), sortedSlots(draft.Schedule)) {
		// Сравнение пар день:время имеет смысл только при совпадающих
		// наборах дней, иначе сообщение дублирует предыдущее.
		summary.Changes = append(summary.Changes, "Session times updated")
	}

	if original.SessionCount != draft.SessionCount {
		summary.Changes = append(summary.Changes, fmt.Sprintf(
			"Session count changed from %d to %d", original.SessionCount, draft.SessionCount))
		summary.MajorChange = true
	}

	if original.PriceMode != draft.PriceMode {
		summary.Changes = append(summary.Changes, fmt.Sprintf(
			"Price mode changed from %s to %s", original.PriceMode, draft.PriceMode))
	}
	if original.PricePerSession != draft.PricePerSession {
		summary.Changes = append(summary.Changes, fmt.Sprintf(
			"Price per session changed from %.2f to %.2f",
			original.PricePerSession, draft.PricePerSession))
	}
	if original.FixedPrice != draft.FixedPrice {
		summary.Changes = append(summary.Changes, fmt.Sprintf(
			"Fixed price changed from %.2f to %.2f", original.FixedPrice, draft.FixedPrice))
	}
	if original.SessionDurationMinutes != normalizedDuration(draft.SessionDurationMinutes) {
		summary.Changes = append(summary.Changes, fmt.Sprintf(
			"Session duration changed from %d to %d minutes",
			original.SessionDurationMinutes, normalizedDuration(draft.SessionDurationMinutes)))
	}

	summary.SuggestPreserve = !summary.MajorChange
	return summary
}

func sortedDays(schedule []models.ScheduleEntry) []string {
	days := make([]string, 0, len(schedule))
	for _, entry := range schedule {
		days = append(days, entry.Day)
	}
	slices.Sort(days)
	return days
}

func sortedSlots(schedule []models.ScheduleEntry) []string {
	slots := make([]string, 0, len(schedule))
	for _, entry := range schedule {
		slots = append(slots, entry.Day+":"+entry.Time)
	}
	slices.Sort(slots)
	return slots
}
