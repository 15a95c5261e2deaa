// Package export builds the admin sales export workbook.
package export

import (
	"fmt"

	"github.com/Mimieamichy/handy-dashboard/internal/repository"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sales"

var headers = []string{
	"Sale ID",
	"Date",
	"Cashier",
	"Product",
	"Quantity",
	"Unit Price",
	"Line Total",
}

// SalesWorkbook renders one row per sale line item plus a grand-total row.
// The caller owns closing the returned file.
func SalesWorkbook(rows []repository.SaleExportRow) (*excelize.File, error) {
	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := file.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header %q: %w", header, err)
		}
	}

	grandTotal := 0.0
	for i, row := range rows {
		values := []any{
			row.SaleID.String(),
			row.CreatedAt.Format("2006-01-02 15:04:05"),
			row.CashierName,
			row.ProductName,
			row.Quantity,
			row.UnitPrice,
			row.LineTotal,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := file.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
		grandTotal += row.LineTotal
	}

	totalRow := len(rows) + 2
	labelCell, err := excelize.CoordinatesToCellName(len(headers)-1, totalRow)
	if err != nil {
		return nil, fmt.Errorf("total label cell: %w", err)
	}
	if err := file.SetCellValue(sheetName, labelCell, "Total"); err != nil {
		return nil, fmt.Errorf("write total label: %w", err)
	}
	valueCell, err := excelize.CoordinatesToCellName(len(headers), totalRow)
	if err != nil {
		return nil, fmt.Errorf("total value cell: %w", err)
	}
	if err := file.SetCellValue(sheetName, valueCell, grandTotal); err != nil {
		return nil, fmt.Errorf("write total value: %w", err)
	}

	if err := file.SetColWidth(sheetName, "A", "D", 24); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	return file, nil
}
