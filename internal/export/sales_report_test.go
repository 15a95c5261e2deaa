package export

import (
	"testing"
	"time"

	"github.com/Mimieamichy/handy-dashboard/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesWorkbook(t *testing.T) {
	saleID := uuid.New()
	rows := []repository.SaleExportRow{
		{
			SaleID:      saleID,
			CreatedAt:   time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
			CashierName: "Dana",
			ProductName: "Coffee",
			Quantity:    2,
			UnitPrice:   4.5,
			LineTotal:   9.0,
		},
		{
			SaleID:      saleID,
			CreatedAt:   time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
			CashierName: "Dana",
			ProductName: "Muffin",
			Quantity:    1,
			UnitPrice:   3.0,
			LineTotal:   3.0,
		},
	}

	file, err := SalesWorkbook(rows)
	require.NoError(t, err)
	defer file.Close()

	header, err := file.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Sale ID", header)

	product, err := file.GetCellValue(sheetName, "D2")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", product)

	label, err := file.GetCellValue(sheetName, "F4")
	require.NoError(t, err)
	assert.Equal(t, "Total", label)

	total, err := file.GetCellValue(sheetName, "G4")
	require.NoError(t, err)
	assert.Equal(t, "12", total)
}

func TestSalesWorkbookEmpty(t *testing.T) {
	file, err := SalesWorkbook(nil)
	require.NoError(t, err)
	defer file.Close()

	label, err := file.GetCellValue(sheetName, "F2")
	require.NoError(t, err)
	assert.Equal(t, "Total", label)

	total, err := file.GetCellValue(sheetName, "G2")
	require.NoError(t, err)
	assert.Equal(t, "0", total)
}
