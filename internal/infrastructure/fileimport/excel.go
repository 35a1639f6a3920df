package fileimport

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelReader parses .xlsx workbooks. Only the first sheet is read,
// which matches how provincial catalog exports are laid out.
type ExcelReader struct {
	headers []string
	rows    [][]string
	next    int
}

// NewExcelReader loads the workbook from r and consumes the header row.
func NewExcelReader(r io.Reader) (*ExcelReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrMissingHeader
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	return &ExcelReader{headers: headers, rows: rows[1:], next: 0}, nil
}

// Headers returns the trimmed header row.
func (r *ExcelReader) Headers() []string {
	return r.headers
}

// ReadRow returns the next data row, or io.EOF.
func (r *ExcelReader) ReadRow() (*Row, error) {
	if r.next >= len(r.rows) {
		return nil, io.EOF
	}
	record := r.rows[r.next]
	r.next++

	row := &Row{
		// Header occupies line 1; data starts at line 2.
		LineNumber: r.next + 1,
		Data:       make(map[string]string, len(r.headers)),
	}
	for i, header := range r.headers {
		if i < len(record) {
			row.Data[header] = strings.TrimSpace(record[i])
		} else {
			row.Data[header] = ""
		}
	}
	return row, nil
}
