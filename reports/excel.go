// Package reports produces spreadsheet artifacts from job metadata.
package reports

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type served for downloaded report files.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Snapshot is the single row written into a job report.
type Snapshot struct {
	JobNumber string
	Status    string
	CreatedAt time.Time
}

// ExcelGenerator writes one-sheet, one-row xlsx files.
type ExcelGenerator struct{}

// Generate writes the snapshot as a spreadsheet at path. Any serialization
// failure is returned to the caller; nothing is retried.
func (ExcelGenerator) Generate(snap Snapshot, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Job Number", "Status", "Created At"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	row := []interface{}{snap.JobNumber, snap.Status, snap.CreatedAt.Format(time.RFC3339)}
	if err := f.SetSheetRow(sheet, "A2", &row); err != nil {
		return fmt.Errorf("failed to write data row: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report %s: %w", path, err)
	}
	return nil
}
