package models

import "time"

// DateOnly обрезает время до даты. Все сравнения сроков подписки и
// членства идут по датам, чтобы вебхук утром и сверка вечером не
// расходились из-за времени суток.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
