package dashboard

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ciclopay/ciclopay/internal/engine"
	"github.com/ciclopay/ciclopay/internal/shared"
)

const (
	sheetSummary = "Summary"
	sheetSeries  = "Daily Series"
	sheetRanking = "Ranking"
)

// ExportXLSX renders a dashboard into a spreadsheet with three sheets:
// the consolidated summary, the daily profit series and the commission
// ranking. Monetary cells carry the BRL display form.
func ExportXLSX(dash engine.Dashboard) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetSummary)
	if err != nil {
		return nil, fmt.Errorf("dashboard: new sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("dashboard: delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	summary := []struct {
		label string
		value string
	}{
		{"Consolidated balance", shared.FormatBRL(dash.FinalConsolidated)},
		{"Personal profit", shared.FormatBRL(dash.MyPersonalProfit)},
		{"Commission paid", shared.FormatBRL(dash.MyCommissionPaid)},
		{"ROI %", fmt.Sprintf("%.2f", dash.MyROI)},
		{"Expenses", shared.FormatBRL(dash.MyExpenses)},
		{"Invested", shared.FormatBRL(dash.MyInvested)},
		{"Team commissions", shared.FormatBRL(dash.TeamCommissions)},
		{"Team total return", shared.FormatBRL(dash.TeamTotalReturn)},
		{"Team total invested", shared.FormatBRL(dash.TeamTotalInvested)},
	}
	for i, row := range summary {
		if err := f.SetCellValue(sheetSummary, fmt.Sprintf("A%d", i+1), row.label); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetSummary, fmt.Sprintf("B%d", i+1), row.value); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetSeries); err != nil {
		return nil, err
	}
	for i, header := range []string{"Date", "Profit"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetSeries, cell, header); err != nil {
			return nil, err
		}
	}
	for i, point := range dash.DailySeries {
		if err := f.SetCellValue(sheetSeries, fmt.Sprintf("A%d", i+2), point.Label); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetSeries, fmt.Sprintf("B%d", i+2), point.Profit); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetRanking); err != nil {
		return nil, err
	}
	for i, header := range []string{"Operator", "Commission"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetRanking, cell, header); err != nil {
			return nil, err
		}
	}
	for i, entry := range dash.OperatorRanking {
		name := entry.Name
		if name == "" {
			name = entry.OperatorID
		}
		if err := f.SetCellValue(sheetRanking, fmt.Sprintf("A%d", i+2), name); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetRanking, fmt.Sprintf("B%d", i+2), shared.FormatBRL(entry.Commission)); err != nil {
			return nil, err
		}
	}

	return f, nil
}
