package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mylabvault/labvault/internal/entity"
)

// Service produces XLSX bytes for an import session's results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportSessionXLSX returns an XLSX workbook (as bytes) holding the
// session's candidates in document order, one row per candidate with its
// typed fields and review annotations.
func (s *Service) ExportSessionXLSX(session *entity.ImportSession) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Lab Results"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Test Name",
		"Canonical Name",
		"Value",
		"Unit",
		"Reference Range",
		"Flag",
		"Collection Date",
		"Panel",
		"Provider",
		"Confidence",
		"Status",
		"Duplicate",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, c := range session.Candidates {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, c.TestNameRaw)
		write(2, deref(c.TestNameCanonical))
		switch {
		case c.ValueNumeric != nil:
			write(3, *c.ValueNumeric)
		case c.ValueQualitative != nil:
			write(3, *c.ValueQualitative)
		default:
			write(3, c.ValueRaw)
		}
		write(4, deref(c.Unit))
		if c.ReferenceRange != nil {
			write(5, c.ReferenceRange.Text)
		}
		write(6, string(c.Flag))
		if c.CollectionDate != nil {
			write(7, c.CollectionDate.Format("2006-01-02"))
		}
		write(8, deref(c.PanelHint))
		write(9, deref(c.ProviderHint))
		write(10, fmt.Sprintf("%.2f", c.Confidence))
		write(11, string(c.Status))
		if c.DuplicateOf != nil {
			write(12, string(c.DuplicateOf.Kind))
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("export.xlsx.done",
		"session_id", session.ID, "rows", row-2, "duration", time.Since(start))
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
