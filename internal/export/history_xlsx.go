// Package export выгружает историю аренды в XLSX.
package export

import (
	"bytes"
	"fmt"

	"ejaraat_backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const historySheet = "Rent History"

// HistoryHeader: колонки выгрузки
var HistoryHeader = []string{
	"Tenant",
	"Phone",
	"Price",
	"Currency",
	"Payment",
	"Damage Deposit",
	"Start Date",
	"End Date",
	"Contract",
}

var historyColumnWidths = []float64{24, 16, 14, 10, 10, 16, 14, 14, 40}

// RentHistoryXLSX строит книгу с историей аренды объекта.
// Суммы пишутся числами с форматом "#,##0", даты строками YYYY-MM-DD.
func RentHistoryXLSX(property *models.Property, history []models.RentHistory) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(historySheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	numFmt := "#,##0"
	amountStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("failed to create amount style: %w", err)
	}

	for col, header := range HistoryHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(historySheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(historySheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(historySheet, name, name, historyColumnWidths[col]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	currency := ""
	if property != nil {
		currency = string(property.Currency)
	}

	for i, h := range history {
		row := i + 2
		tenantName, phone := "", ""
		if h.Tenant != nil {
			tenantName = h.Tenant.Name
			phone = h.Tenant.PhoneNumber
		}
		var deposit any
		if h.DamageDeposit != nil {
			deposit = *h.DamageDeposit
		}

		values := []any{
			tenantName,
			phone,
			h.Price,
			currency,
			h.PaymentType,
			deposit,
			h.StartDate.Format("2006-01-02"),
			h.EndDate.Format("2006-01-02"),
			h.Contract,
		}
		for col, v := range values {
			if v == nil || v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(historySheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}

		priceCell, _ := excelize.CoordinatesToCellName(3, row)
		if err := f.SetCellStyle(historySheet, priceCell, priceCell, amountStyle); err != nil {
			return nil, fmt.Errorf("failed to set amount style: %w", err)
		}
		depositCell, _ := excelize.CoordinatesToCellName(6, row)
		if err := f.SetCellStyle(historySheet, depositCell, depositCell, amountStyle); err != nil {
			return nil, fmt.Errorf("failed to set amount style: %w", err)
		}
	}

	// закрепляем шапку
	if err := f.SetPanes(historySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// HistoryFilename: имя файла для Content-Disposition
func HistoryFilename(property *models.Property) string {
	return fmt.Sprintf("rent_history_%s.xlsx", property.ID)
}
