package payments

import (
	"time"

	"ejaraat_backend/internal/models"
)

// UpcomingWindowDays: за сколько дней до оплаты аренда попадает в "ближайшие платежи"
const UpcomingWindowDays = 7

// ExpiringWindowDays: за сколько дней до конца договора он считается истекающим
const ExpiringWindowDays = 30

// Decision: результат классификации аренды на дату
type Decision struct {
	Status    models.RentalStatus
	Changed   bool
	Attention bool
	Due       Due
	HasDue    bool
}

// Classify решает, в какой статус перевести аренду.
// Функция чистая: сохранение делает сервис.
func Classify(status models.RentalStatus, due Due, hasDue bool) Decision {
	d := Decision{Status: status, Due: due, HasDue: hasDue}

	if !hasDue {
		// Договор закончился, а оплаты не было
		if status != models.RentalStatusPaid && status != models.RentalStatusOverdue {
			d.Status = models.RentalStatusOverdue
		}
	} else if due.DaysUntil <= UpcomingWindowDays {
		switch {
		case due.DaysUntil < 0 && status != models.RentalStatusPaid:
			d.Status = models.RentalStatusOverdue
		case due.DaysUntil >= 0 && status != models.RentalStatusPending && status != models.RentalStatusPaid:
			d.Status = models.RentalStatusPending
		}
	}

	d.Changed = d.Status != status
	inWindow := hasDue && due.DaysUntil <= UpcomingWindowDays
	d.Attention = d.Changed || (inWindow && d.Status != models.RentalStatusPaid)
	return d
}

// Evaluate: NextDue + Classify для одной аренды
func Evaluate(rental *models.RentProperty, today time.Time) Decision {
	due, ok := NextDue(rental.Payment, rental.StartDate, rental.EndDate, today)
	return Classify(rental.Status, due, ok)
}
