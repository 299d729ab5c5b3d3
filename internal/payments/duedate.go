// Package payments считает ближайшую дату оплаты по аренде и решает,
// в какой статус должна перейти аренда на заданную дату.
package payments

import (
	"time"

	"ejaraat_backend/internal/models"

	"github.com/jinzhu/now"
)

// Due: ближайший платёж по договору
type Due struct {
	Date      time.Time
	DaysUntil int
}

// Day приводит момент времени к календарному дню (полночь UTC)
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween: число календарных дней от from до to (может быть отрицательным)
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}

// NextDue возвращает первую дату оплаты, которая не раньше today.
// false означает, что по договору больше ничего не причитается (дата дошла до end).
// Платёж, приходящийся ровно на today, возвращается с DaysUntil == 0.
func NextDue(interval models.PaymentInterval, start, end, today time.Time) (Due, bool) {
	start, end, today = Day(start), Day(end), Day(today)

	candidate := start
	for k := 1; candidate.Before(today) && candidate.Before(end); k++ {
		candidate = stepFrom(interval, start, k)
	}

	if !candidate.Before(end) {
		return Due{}, false
	}
	return Due{Date: candidate, DaysUntil: DaysBetween(today, candidate)}, true
}

// stepFrom: k-й платёж от начала договора.
// Месяцы и годы считаются от start, поэтому 31 января даёт 29 февраля, а потом снова 31 марта.
func stepFrom(interval models.PaymentInterval, start time.Time, k int) time.Time {
	switch interval {
	case models.PaymentYearly:
		return AddMonths(start, 12*k)
	case models.PaymentMonthly:
		return AddMonths(start, k)
	default:
		days := int(interval)
		if days <= 0 {
			days = int(models.PaymentDaily)
		}
		return start.AddDate(0, 0, days*k)
	}
}

// AddMonths сдвигает дату на months календарных месяцев с прижатием к концу месяца
func AddMonths(t time.Time, months int) time.Time {
	first := now.With(t).BeginningOfMonth().AddDate(0, months, 0)
	last := now.With(first).EndOfMonth()

	day := t.Day()
	if day > last.Day() {
		day = last.Day()
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// ExpiringWithin проверяет, истекает ли договор в ближайшие window дней, и сколько дней осталось
func ExpiringWithin(end, today time.Time, window int) (bool, int) {
	daysLeft := DaysBetween(today, end)
	return daysLeft <= window, daysLeft
}

// MonthlyAmount нормализует цену к месячной: день*30, неделя*4, год/12
func MonthlyAmount(interval models.PaymentInterval, price int64) int64 {
	switch interval {
	case models.PaymentDaily:
		return price * 30
	case models.PaymentWeekly:
		return price * 4
	case models.PaymentYearly:
		return price / 12
	default:
		return price
	}
}
