package fileimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVReader_ParsesHeader(t *testing.T) {
	r, err := NewCSVReader(strings.NewReader("SKU,Product Name,Category\n1,Blue Dream,Flower\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU", "Product Name", "Category"}, r.Headers())
}

func TestNewCSVReader_StripsBOM(t *testing.T) {
	input := "\xEF\xBB\xBFSKU,Name\n1,Blue Dream\n"
	r, err := NewCSVReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU", "Name"}, r.Headers())
}

func TestNewCSVReader_EmptyFile(t *testing.T) {
	_, err := NewCSVReader(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestNewCSVReader_InvalidEncoding(t *testing.T) {
	_, err := NewCSVReader(strings.NewReader("SKU,Name\n1,\xFF\xFE\n"))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestCSVReader_ReadRow(t *testing.T) {
	input := "SKU,Name,THC\n101557_28G___,  Blue Dream  ,22.5\n"
	r, err := NewCSVReader(strings.NewReader(input))
	require.NoError(t, err)

	row, err := r.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, 2, row.LineNumber)
	assert.Equal(t, "101557_28G___", row.Get("SKU"))
	assert.Equal(t, "Blue Dream", row.Get("Name"))
	assert.Equal(t, "22.5", row.Get("THC"))

	_, err = r.ReadRow()
	assert.Equal(t, io.EOF, err)
}

func TestCSVReader_ShortRowPadsMissingColumns(t *testing.T) {
	r, err := NewCSVReader(strings.NewReader("SKU,Name,Category\n1,Blue Dream\n"))
	require.NoError(t, err)

	row, err := r.ReadRow()
	require.NoError(t, err)
	assert.Equal(t, "Blue Dream", row.Get("Name"))
	assert.Equal(t, "", row.Get("Category"))
}

func TestRow_IsEmptyFlagsBlankLines(t *testing.T) {
	input := "SKU,Name\n1,Blue Dream\n,\n2,Sour Diesel\n"
	r, err := NewCSVReader(strings.NewReader(input))
	require.NoError(t, err)

	var rows []*Row
	for {
		row, err := r.ReadRow()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	require.Len(t, rows, 2)
	assert.Equal(t, "Sour Diesel", rows[1].Get("Name"))
}

func TestSupportedExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"catalog.csv", true},
		{"catalog.CSV", true},
		{"catalog.xlsx", true},
		{"catalog.xls", true},
		{"catalog.pdf", false},
		{"catalog.txt", false},
		{"catalog", false},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, SupportedExtension(tt.filename))
		})
	}
}

func TestOpen_UnsupportedFormat(t *testing.T) {
	_, err := Open("catalog.pdf", strings.NewReader("data"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpen_LegacyExcelRejected(t *testing.T) {
	// BIFF magic bytes; excelize cannot read pre-OOXML workbooks.
	_, err := Open("catalog.xls", strings.NewReader("\xD0\xCF\x11\xE0"))
	assert.ErrorIs(t, err, ErrLegacyExcel)
	assert.Equal(t, "INVALID_FILE_TYPE", ErrLegacyExcel.Code)
}
