package export

import (
	"path/filepath"
	"testing"

	"github.com/billed-app/billed/internal/bill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestWriteListing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.xlsx")
	writer := NewExcelWriter(zap.NewNop())

	bills := []bill.Bill{
		{Type: "Transports", Name: "Vol Paris Londres", Date: "01/04/2024", Amount: 348, Status: bill.Status("En attente")},
		{Type: "Restaurants et bars", Name: "Déjeuner client", Date: "02/02/2022", Amount: 50, Status: bill.Status("Accepté")},
	}

	require.NoError(t, writer.Write(bills, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		value, err := f.GetCellValue(sheetName, cell)
		require.NoError(t, err)
		return value
	}

	assert.Equal(t, "Type", get("A1"))
	assert.Equal(t, "Statut", get("E1"))
	assert.Equal(t, "Transports", get("A2"))
	assert.Equal(t, "01/04/2024", get("C2"))
	assert.Equal(t, "348 €", get("D2"))
	assert.Equal(t, "En attente", get("E2"))
	assert.Equal(t, "Déjeuner client", get("B3"))
	assert.Equal(t, "Accepté", get("E3"))
}

func TestWriteEmptyListing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	writer := NewExcelWriter(zap.NewNop())

	require.NoError(t, writer.Write([]bill.Bill{}, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1, "only the header row")
}
