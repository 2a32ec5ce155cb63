// Package export writes the formatted bills listing to an Excel report.
package export

import (
	"fmt"

	"github.com/billed-app/billed/internal/bill"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const sheetName = "Notes de frais"

// Column headers mirror the listing table.
var headers = []string{"Type", "Nom", "Date", "Montant", "Statut"}

// ExcelWriter renders a bills listing into an .xlsx workbook
type ExcelWriter struct {
	logger *zap.Logger
}

// NewExcelWriter creates a new Excel writer
func NewExcelWriter(logger *zap.Logger) *ExcelWriter {
	return &ExcelWriter{logger: logger}
}

// Write saves the listing to outputPath, one row per bill in the given
// display order.
func (w *ExcelWriter) Write(bills []bill.Bill, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to set header cell: %w", err)
		}
	}

	for row, b := range bills {
		values := []interface{}{
			b.Type,
			b.Name,
			b.Date,
			fmt.Sprintf("%d €", b.Amount),
			string(b.Status),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to set cell: %w", err)
			}
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save export: %w", err)
	}

	w.logger.Info("Listing exported",
		zap.String("path", outputPath),
		zap.Int("bills", len(bills)))
	return nil
}
