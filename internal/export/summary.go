// Package export writes a spreadsheet summary of a batch run.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/hetulpatel/appealdigest/internal/artifact"
	"github.com/hetulpatel/appealdigest/internal/runner"
)

const SheetName = "Run"

var headers = []string{
	"Document",
	"Process Number",
	"Naming Key",
	"Status",
	"Failed Stage",
	"Error",
	"Initial File",
	"Improved File",
	"Text Chars",
}

// WriteSummary writes one row per outcome to an XLSX workbook at path.
func WriteSummary(path string, summary runner.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if index, _ := f.GetSheetIndex(SheetName); index == -1 {
		if _, err := f.NewSheet(SheetName); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	row := 2
	for _, out := range summary.Outcomes {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		errText := ""
		if out.Cause != nil {
			errText = out.Cause.Error()
		}
		write(1, out.Document.Name())
		write(2, out.Identifier)
		write(3, out.NamingKey)
		write(4, runner.Status(out))
		write(5, string(out.Stage))
		write(6, errText)
		write(7, out.ArtifactPath(artifact.PhaseInitial))
		write(8, out.ArtifactPath(artifact.PhaseImproved))
		write(9, out.TextLength)
		row++
	}

	_ = f.SetColWidth(SheetName, "A", "A", 32) // document
	_ = f.SetColWidth(SheetName, "B", "C", 28) // identifiers
	_ = f.SetColWidth(SheetName, "D", "E", 24)
	_ = f.SetColWidth(SheetName, "F", "F", 48) // error
	_ = f.SetColWidth(SheetName, "G", "H", 60) // paths
	_ = f.SetColWidth(SheetName, "I", "I", 12)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure summary dir: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
