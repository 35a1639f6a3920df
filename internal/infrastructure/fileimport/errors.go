package fileimport

import (
	"fmt"

	"github.com/dispensa/backend/internal/domain/shared"
)

// Parse failures are domain errors so the HTTP layer can map them to
// 4xx responses instead of swallowing them as internal errors.
var (
	// ErrEmptyFile is returned when the uploaded file has no content.
	ErrEmptyFile = shared.NewDomainError("EMPTY_FILE", "File is empty")

	// ErrInvalidEncoding is returned when a CSV file is not valid UTF-8.
	ErrInvalidEncoding = shared.NewDomainError("INVALID_ENCODING", "File is not valid UTF-8")

	// ErrMissingHeader is returned when the file has no header row.
	ErrMissingHeader = shared.NewDomainError("MISSING_HEADER", "File is missing a header row")

	// ErrNoDataRows is returned when the file has a header but no data.
	ErrNoDataRows = shared.NewDomainError("NO_DATA_ROWS", "File contains no data rows")

	// ErrUnsupportedFormat is returned for file extensions we cannot parse.
	ErrUnsupportedFormat = shared.NewDomainError("INVALID_FILE_TYPE", "Unsupported file format")

	// ErrLegacyExcel is returned for BIFF .xls workbooks, which the
	// importer cannot parse.
	ErrLegacyExcel = shared.NewDomainError("INVALID_FILE_TYPE", "Legacy .xls workbooks are not supported; re-save the file as .xlsx and upload again")
)

// RowError describes a problem with a single data row.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// NewRowError creates a RowError for the given row and column.
func NewRowError(row int, column, message string) RowError {
	return RowError{Row: row, Column: column, Message: message}
}
