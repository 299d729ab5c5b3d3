package payments

import (
	"testing"

	"ejaraat_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		status        models.RentalStatus
		due           Due
		hasDue        bool
		wantStatus    models.RentalStatus
		wantAttention bool
	}{
		{"no due unpaid -> overdue", models.RentalStatusUnpaid, Due{}, false, models.RentalStatusOverdue, true},
		{"no due pending -> overdue", models.RentalStatusPending, Due{}, false, models.RentalStatusOverdue, true},
		{"no due paid stays", models.RentalStatusPaid, Due{}, false, models.RentalStatusPaid, false},
		{"no due overdue stays", models.RentalStatusOverdue, Due{}, false, models.RentalStatusOverdue, false},
		{"due today unpaid -> pending", models.RentalStatusUnpaid, Due{DaysUntil: 0}, true, models.RentalStatusPending, true},
		{"due in 7 overdue -> pending", models.RentalStatusOverdue, Due{DaysUntil: 7}, true, models.RentalStatusPending, true},
		{"due in 3 pending stays", models.RentalStatusPending, Due{DaysUntil: 3}, true, models.RentalStatusPending, true},
		{"due in 3 paid stays", models.RentalStatusPaid, Due{DaysUntil: 3}, true, models.RentalStatusPaid, false},
		{"past due unpaid -> overdue", models.RentalStatusUnpaid, Due{DaysUntil: -2}, true, models.RentalStatusOverdue, true},
		{"past due paid stays", models.RentalStatusPaid, Due{DaysUntil: -2}, true, models.RentalStatusPaid, false},
		{"far away unpaid stays", models.RentalStatusUnpaid, Due{DaysUntil: 8}, true, models.RentalStatusUnpaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.status, tt.due, tt.hasDue)
			assert.Equal(t, tt.wantStatus, d.Status)
			assert.Equal(t, tt.wantStatus != tt.status, d.Changed)
			assert.Equal(t, tt.wantAttention, d.Attention)
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	cases := []struct {
		status models.RentalStatus
		due    Due
		hasDue bool
	}{
		{models.RentalStatusUnpaid, Due{}, false},
		{models.RentalStatusUnpaid, Due{DaysUntil: 0}, true},
		{models.RentalStatusUnpaid, Due{DaysUntil: -1}, true},
		{models.RentalStatusOverdue, Due{DaysUntil: 4}, true},
	}

	for _, c := range cases {
		first := Classify(c.status, c.due, c.hasDue)
		second := Classify(first.Status, c.due, c.hasDue)
		assert.False(t, second.Changed)
		assert.Equal(t, first.Status, second.Status)
	}
}

func TestEvaluate_Scenarios(t *testing.T) {
	t.Run("monthly payment due today becomes pending", func(t *testing.T) {
		rental := &models.RentProperty{
			Payment:   models.PaymentMonthly,
			StartDate: date(2024, 1, 1),
			EndDate:   date(2024, 12, 31),
			Status:    models.RentalStatusUnpaid,
		}
		d := Evaluate(rental, date(2024, 3, 1))

		assert.True(t, d.HasDue)
		assert.Equal(t, date(2024, 3, 1), d.Due.Date)
		assert.Equal(t, 0, d.Due.DaysUntil)
		assert.Equal(t, models.RentalStatusPending, d.Status)

		rental.Status = models.RentalStatusPending
		assert.False(t, Evaluate(rental, date(2024, 3, 1)).Changed)
	})

	t.Run("yearly unpaid becomes overdue", func(t *testing.T) {
		rental := &models.RentProperty{
			Payment:   models.PaymentYearly,
			StartDate: date(2023, 1, 1),
			EndDate:   date(2025, 1, 1),
			Status:    models.RentalStatusUnpaid,
		}
		d := Evaluate(rental, date(2024, 6, 1))

		assert.Equal(t, models.RentalStatusOverdue, d.Status)
		assert.True(t, d.Changed)
	})

	t.Run("elapsed unpaid contract becomes overdue", func(t *testing.T) {
		rental := &models.RentProperty{
			Payment:   models.PaymentMonthly,
			StartDate: date(2023, 1, 1),
			EndDate:   date(2023, 12, 31),
			Status:    models.RentalStatusUnpaid,
		}
		d := Evaluate(rental, date(2024, 2, 1))

		assert.False(t, d.HasDue)
		assert.Equal(t, models.RentalStatusOverdue, d.Status)
	})
}
