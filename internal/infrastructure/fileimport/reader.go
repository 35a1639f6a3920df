package fileimport

import (
	"io"
	"path/filepath"
	"strings"
)

// Row is one parsed data row keyed by header name. Values are trimmed.
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value for a column by header name.
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty reports whether the row has no non-empty values.
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// Reader iterates over the data rows of a tabular file.
type Reader interface {
	// Headers returns the header row, trimmed.
	Headers() []string
	// ReadRow returns the next data row, or io.EOF when exhausted.
	ReadRow() (*Row, error)
}

// SupportedExtension reports whether the filename carries an extension
// the importer can parse.
func SupportedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx", ".xls":
		return true
	}
	return false
}

// Open builds a Reader for the given upload based on its file extension.
// Legacy .xls is recognized so callers get a pointed message rather than
// a parse failure deep inside the workbook reader.
func Open(filename string, r io.Reader) (Reader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return NewCSVReader(r)
	case ".xlsx":
		return NewExcelReader(r)
	case ".xls":
		return nil, ErrLegacyExcel
	default:
		return nil, ErrUnsupportedFormat
	}
}
