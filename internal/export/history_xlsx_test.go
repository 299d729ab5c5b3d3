package export

import (
	"bytes"
	"testing"
	"time"

	"ejaraat_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRentHistoryXLSX(t *testing.T) {
	deposit := int64(500)
	property := &models.Property{Name: "Flat 4", Currency: models.CurrencySDG}
	property.ID = "p-1"

	history := []models.RentHistory{
		{
			Price:         12500,
			DamageDeposit: &deposit,
			PaymentType:   "month",
			StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
			Tenant:        &models.Tenant{Name: "John Smith", PhoneNumber: "+249911111111"},
		},
		{
			Price:       300,
			PaymentType: "week",
			StartDate:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	data, err := RentHistoryXLSX(property, history)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{historySheet}, f.GetSheetList())

	rows, err := f.GetRows(historySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, HistoryHeader, rows[0])

	name, err := f.GetCellValue(historySheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", name)

	price, err := f.GetCellValue(historySheet, "C2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "12500", price)

	end, err := f.GetCellValue(historySheet, "H2")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-30", end)

	// удалённый арендатор: пустые колонки, без паники
	tenant, err := f.GetCellValue(historySheet, "A3")
	require.NoError(t, err)
	assert.Empty(t, tenant)
	payment, err := f.GetCellValue(historySheet, "E3")
	require.NoError(t, err)
	assert.Equal(t, "week", payment)
}

func TestRentHistoryXLSX_Empty(t *testing.T) {
	data, err := RentHistoryXLSX(&models.Property{}, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(historySheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
