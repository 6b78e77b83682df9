// Package clock содержит вспомогательные функции для работы со временем
// занятий: нормализацию 12-часового формата в канонический 24-часовой,
// обратное преобразование для отображения и проверку пересечения интервалов.
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// To24Hour нормализует строку времени в канонический 24-часовой формат "HH:MM".
//
// Принимает как 12-часовой формат "H:MM AM/PM" (регистр и пробел перед
// AM/PM не важны), так и уже 24-часовой "H:MM". Особые случаи:
// "12:MM AM" → "00:MM", "12:MM PM" → "12:MM".
func To24Hour(raw string) (string, error) {
	const op = "clock.To24Hour"

	s := strings.ToUpper(strings.TrimSpace(raw))
	var meridiem string
	switch {
	case strings.HasSuffix(s, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(s, "PM"):
		meridiem = "PM"
	}
	if meridiem != "" {
		s = strings.TrimSpace(strings.TrimSuffix(s, meridiem))
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("%s: invalid time %q", op, raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("%s: invalid time %q", op, raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("%s: invalid time %q", op, raw)
	}
	if minutes < 0 || minutes > 59 {
		return "", fmt.Errorf("%s: minutes out of range in %q", op, raw)
	}

	switch meridiem {
	case "":
		if hours < 0 || hours > 23 {
			return "", fmt.Errorf("%s: hours out of range in %q", op, raw)
		}
	default:
		if hours < 1 || hours > 12 {
			return "", fmt.Errorf("%s: hours out of range in %q", op, raw)
		}
		if meridiem == "AM" && hours == 12 {
			hours = 0
		}
		if meridiem == "PM" && hours < 12 {
			hours += 12
		}
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes), nil
}

// To12Hour преобразует каноническое 24-часовое время "HH:MM"
// в 12-часовой формат "H:MM AM/PM" для отображения.
func To12Hour(canonical string) (string, error) {
	const op = "clock.To12Hour"

	minutes, err := MinutesOfDay(canonical)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	hours := minutes / 60
	mins := minutes % 60

	meridiem := "AM"
	switch {
	case hours == 0:
		hours = 12
	case hours == 12:
		meridiem = "PM"
	case hours > 12:
		hours -= 12
		meridiem = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hours, mins, meridiem), nil
}

// MinutesOfDay возвращает количество минут с начала суток
// для канонического времени "HH:MM".
func MinutesOfDay(canonical string) (int, error) {
	const op = "clock.MinutesOfDay"

	parts := strings.Split(strings.TrimSpace(canonical), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%s: invalid time %q", op, canonical)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid time %q", op, canonical)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid time %q", op, canonical)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%s: time out of range %q", op, canonical)
	}
	return hours*60 + minutes, nil
}

// Overlaps сообщает, пересекаются ли два интервала в минутах от начала суток.
// Интервалы полуоткрытые: занятие 14:00-15:00 не конфликтует с занятием 15:00.
func Overlaps(startA, durationA, startB, durationB int) bool {
	return startA < startB+durationB && startB < startA+durationA
}

// Weekday возвращает time.Weekday по английскому названию дня недели.
func Weekday(day string) (time.Weekday, error) {
	const op = "clock.Weekday"

	switch strings.TrimSpace(day) {
	case "Sunday":
		return time.Sunday, nil
	case "Monday":
		return time.Monday, nil
	case "Tuesday":
		return time.Tuesday, nil
	case "Wednesday":
		return time.Wednesday, nil
	case "Thursday":
		return time.Thursday, nil
	case "Friday":
		return time.Friday, nil
	case "Saturday":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("%s: unknown day %q", op, day)
}

// NextOccurrence возвращает первую дату с указанным днём недели,
// не раньше заданной (сама дата подходит, если день совпадает).
func NextOccurrence(from time.Time, weekday time.Weekday) time.Time {
	days := (int(weekday) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, days)
}
