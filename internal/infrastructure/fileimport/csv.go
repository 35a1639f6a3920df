package fileimport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// CSVReader parses comma-separated uploads. It strips a UTF-8 BOM,
// validates encoding and tolerates rows with a variable field count.
type CSVReader struct {
	reader     *csv.Reader
	headers    []string
	currentRow int
}

// NewCSVReader wraps r and consumes the header row.
func NewCSVReader(r io.Reader) (*CSVReader, error) {
	buf := bufio.NewReader(r)

	peek, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(peek) == 0 {
		return nil, ErrEmptyFile
	}
	if len(peek) >= 3 && peek[0] == 0xEF && peek[1] == 0xBB && peek[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	if err := checkUTF8(buf); err != nil {
		return nil, err
	}

	cr := csv.NewReader(buf)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	record, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	headers := make([]string, len(record))
	for i, h := range record {
		headers[i] = strings.TrimSpace(h)
	}

	return &CSVReader{reader: cr, headers: headers, currentRow: 1}, nil
}

func checkUTF8(buf *bufio.Reader) error {
	const checkSize = 4096
	content, err := buf.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("read upload: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	// A peek can split a multi-byte rune at the boundary. Trim up to
	// three trailing bytes of an incomplete sequence before validating.
	if len(content) == checkSize {
		for i := 0; i < 3 && len(content) > 0; i++ {
			if utf8.Valid(content) {
				break
			}
			content = content[:len(content)-1]
		}
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

// Headers returns the trimmed header row.
func (r *CSVReader) Headers() []string {
	return r.headers
}

// ReadRow returns the next data row, or io.EOF.
func (r *CSVReader) ReadRow() (*Row, error) {
	record, err := r.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	r.currentRow++
	if err != nil {
		return nil, fmt.Errorf("row %d: %w", r.currentRow, err)
	}

	row := &Row{
		LineNumber: r.currentRow,
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
