package export

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	domain "github.com/bryanwahyu/forensic-audit/internal/domain/audit"
)

const (
	sheetEvidence = "Evidence"
	sheetReport   = "Report"
)

// XLSX renders a session dossier as a two-sheet workbook.
type XLSX struct {
	logger *zap.Logger
}

func NewXLSX(logger *zap.Logger) *XLSX {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &XLSX{logger: logger}
}

func (x *XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ExportDossier implements audit.DossierExporter
func (x *XLSX) ExportDossier(ctx context.Context, d domain.Dossier) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	// default sheet "Sheet1" diganti nama jadi Evidence
	if err := f.SetSheetName("Sheet1", sheetEvidence); err != nil {
		return nil, err
	}
	if err := writeEvidence(f, d); err != nil {
		return nil, fmt.Errorf("evidence sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetReport); err != nil {
		return nil, err
	}
	if err := writeReport(f, d); err != nil {
		return nil, fmt.Errorf("report sheet: %w", err)
	}
	idx, _ := f.GetSheetIndex(sheetEvidence)
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	x.logger.Info("export.xlsx.ok",
		zap.String("session_id", d.Session.ID),
		zap.Int("rows", len(d.Inventory)),
		zap.Bool("with_report", d.Report != nil),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func writeEvidence(f *excelize.File, d domain.Dossier) error {
	if err := writeRow(f, sheetEvidence, 1, "File", "Category", "Size (bytes)", "Size", "Status"); err != nil {
		return err
	}
	for i, it := range d.Inventory {
		size := it.File.Size
		if size < 0 {
			size = 0
		}
		if err := writeRow(f, sheetEvidence, i+2,
			it.File.Name, it.Tag, it.File.Size, humanize.Bytes(uint64(size)), it.Status,
		); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheetEvidence, "A", "A", 48)
	_ = f.SetColWidth(sheetEvidence, "B", "B", 14)
	_ = f.SetColWidth(sheetEvidence, "C", "D", 14)
	return nil
}

func writeReport(f *excelize.File, d domain.Dossier) error {
	p := d.Profile
	rows := [][]any{
		{"Session", d.Session.ID},
		{"Display hash", d.Session.Hash},
		{"Client", p.Name},
		{"Tax ID", p.TaxID},
		{"Platform", string(p.Platform)},
		{"Year", p.Year},
		{"Period", string(p.Period)},
	}
	if r := d.Report; r != nil {
		rows = append(rows,
			[]any{"Run", r.RunID},
			[]any{"Gross ledger amount", r.Result.GrossLedgerAmount},
			[]any{"Reported amount", r.Result.ReportedAmount},
			[]any{"Commission", r.Result.Commission},
			[]any{"Discrepancy", r.Result.Discrepancy},
			[]any{"Deviation %", r.Result.DeviationPercent},
			[]any{"Quantum", r.Result.Quantum},
			[]any{"Verdict", r.VerdictLabel},
			[]any{"Description", r.Description},
		)
		if r.Narrative != "" {
			rows = append(rows, []any{"Commentary", r.Narrative})
		}
	} else {
		rows = append(rows, []any{"Verdict", "no analysis run"})
	}
	for i, row := range rows {
		if err := writeRow(f, sheetReport, i+1, row...); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheetReport, "A", "A", 22)
	_ = f.SetColWidth(sheetReport, "B", "B", 60)
	return nil
}
