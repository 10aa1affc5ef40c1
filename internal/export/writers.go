package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"atenciones-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Atenciones"

// Serialize renders visits with the selected columns in format.
// day names the file; PDF reports ErrUnsupportedFormat.
func Serialize(visits []*models.VisitDetail, mask FieldMask, format Format, day time.Time) (*File, error) {
	header, rows := Table(visits, mask)

	var (
		content []byte
		err     error
	)
	switch format {
	case FormatCSV:
		content, err = WriteCSV(header, rows)
	case FormatExcel:
		content, err = WriteXLSX(header, rows)
	case FormatPDF:
		return nil, ErrUnsupportedFormat
	default:
		return nil, fmt.Errorf("unknown export format %s", format)
	}
	if err != nil {
		return nil, err
	}

	return &File{
		Filename:    Filename(day, format),
		ContentType: format.ContentType(),
		Content:     content,
	}, nil
}

// WriteCSV renders an RFC 4180 document: fields holding commas, quotes or
// newlines are quoted, rows end in CRLF.
func WriteCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteXLSX renders a single-sheet workbook with a styled, frozen header row
func WriteXLSX(header []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E2EFDA"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	widths := make([]int, len(header))
	for col, h := range header {
		if err := setCell(f, col+1, 1, h); err != nil {
			f.Close()
			return nil, err
		}
		widths[col] = len([]rune(h))
	}
	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for r, row := range rows {
		for col, value := range row {
			if value == "" {
				continue
			}
			if err := setCell(f, col+1, r+2, value); err != nil {
				f.Close()
				return nil, err
			}
			if n := len([]rune(value)); n > widths[col] {
				widths[col] = n
			}
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, columnWidth(w)); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write to buffer: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, value string) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	// Explicit string cells keep cedulas and codes like 2023-001 from being reinterpreted
	if err := f.SetCellStr(sheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}

// columnWidth clamps a character count to a readable column width
func columnWidth(chars int) float64 {
	switch {
	case chars < 10:
		return 12
	case chars > 60:
		return 60
	}
	return float64(chars) + 2
}
