package models

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildSalesReportXlsx renders the daily sales summary as a workbook for
// the back-office download. The caller owns closing the returned file.
func BuildSalesReportXlsx(summaries []*DailySalesSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, err
	}

	// Add headers
	f.SetCellValue(sheetName, "A1", "Day")
	f.SetCellValue(sheetName, "B1", "Orders")
	f.SetCellValue(sheetName, "C1", "GrossInCents")
	f.SetCellValue(sheetName, "D1", "AverageOrderValue")

	// Add data
	for i, d := range summaries {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheetName, "A"+row, d.Day)
		f.SetCellValue(sheetName, "B"+row, d.OrdersCount)
		f.SetCellValue(sheetName, "C"+row, d.GrossInCents)
		f.SetCellValue(sheetName, "D"+row, d.AverageOrderValue.String())
	}

	return f, nil
}
