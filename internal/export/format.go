// Package export renders visit records as downloadable tables.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnsupportedFormat is returned for formats that are declared but not yet available
var ErrUnsupportedFormat = errors.New("export format not yet available")

// Format is the closed set of export formats
type Format int

const (
	FormatCSV Format = iota + 1
	FormatExcel
	FormatPDF
)

// ParseFormat maps the wire names "csv", "excel" and "pdf" to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	}
	return 0, fmt.Errorf("unknown export format %q", s)
}

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatExcel:
		return "excel"
	case FormatPDF:
		return "pdf"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension is the file extension without the dot
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatExcel:
		return "xlsx"
	case FormatPDF:
		return "pdf"
	}
	return "bin"
}

// ContentType is the MIME type sent with the download
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Filename returns atenciones_<YYYY-MM-DD>.<ext> for the export day
func Filename(day time.Time, f Format) string {
	return fmt.Sprintf("atenciones_%s.%s", day.Format("2006-01-02"), f.Extension())
}

// File is a rendered export
type File struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"-"`
}
