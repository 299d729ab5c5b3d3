package dto

import (
	"fmt"
	"time"
)

// DateLayout: формат дат в запросах и ответах
const DateLayout = "2006-01-02"

// ParseDate разбирает YYYY-MM-DD; пустая строка даёт нулевое время
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
