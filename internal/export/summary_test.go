package export

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hetulpatel/appealdigest/internal/artifact"
	"github.com/hetulpatel/appealdigest/internal/pipeline"
	"github.com/hetulpatel/appealdigest/internal/runner"
)

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.xlsx")
	summary := runner.Summary{
		RunID: "run-1",
		Outcomes: []pipeline.Outcome{
			{
				Document:   pipeline.Document{Path: "/docs/recurso.pdf"},
				Kind:       pipeline.KindSuccess,
				Identifier: "1234567-89.2023.8.26.0100",
				NamingKey:  "1234567-89.2023.8.26.0100",
				TextLength: 120,
				Artifacts: []artifact.Artifact{
					{Phase: artifact.PhaseInitial, Path: "/r/i.txt"},
					{Phase: artifact.PhaseImproved, Path: "/r/m.txt"},
				},
			},
			{
				Document:  pipeline.Document{Path: "/docs/caso.pdf"},
				Kind:      pipeline.KindPartialFailure,
				Stage:     pipeline.StageInitialAnalysis,
				Cause:     &pipeline.StageError{Stage: pipeline.StageInitialAnalysis, Err: errors.New("quota")},
				NamingKey: "caso",
			},
		},
	}
	if err := WriteSummary(path, summary); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "Document" || rows[0][3] != "Status" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "recurso.pdf" || rows[1][3] != "success" || rows[1][7] != "/r/m.txt" || rows[1][8] != "120" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][2] != "caso" || rows[2][3] != "failure" || rows[2][4] != "initial_analysis" || rows[2][5] != "initial_analysis: quota" {
		t.Errorf("row 2 = %v", rows[2])
	}
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		t.Errorf("default sheet still present")
	}
}
