// Package tabular reads spreadsheet and CSV files into a RawTable. File
// parsing is a caller-side concern; the pipeline itself only ever sees the
// tokenized table this package produces.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"marketpulse/domain/table"
	"marketpulse/internal/errors"
)

// Reader handles reading Excel and CSV files
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewReader creates a reader that handles both Excel and CSV files by
// extension.
func NewReader(filePath string) *Reader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// Read loads the file into a RawTable. Short rows are padded to the header
// width so the table invariant holds regardless of how ragged the source
// was.
func (r *Reader) Read() (table.RawTable, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return table.RawTable{}, errors.SourceError(r.fileType, fmt.Errorf("file not found: %s", r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSV()
	case "xlsx":
		return r.readExcel()
	default:
		return table.RawTable{}, errors.SourceError(r.fileType, fmt.Errorf("unsupported file type"))
	}
}

func (r *Reader) readExcel() (table.RawTable, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return table.RawTable{}, errors.SourceError("xlsx", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return table.RawTable{}, errors.SourceError("xlsx", fmt.Errorf("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return table.RawTable{}, errors.SourceError("xlsx", err)
	}
	return splitRows(rows)
}

func (r *Reader) readCSV() (table.RawTable, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return table.RawTable{}, errors.SourceError("csv", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, padding happens below
	rows, err := reader.ReadAll()
	if err != nil {
		return table.RawTable{}, errors.SourceError("csv", err)
	}
	return splitRows(rows)
}

// splitRows separates the header row from the data rows
func splitRows(rows [][]string) (table.RawTable, error) {
	if len(rows) < 2 {
		return table.RawTable{}, errors.SourceError("table",
			fmt.Errorf("need at least a header row and one data row, got %d rows", len(rows)))
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return table.NewRawTableFromStrings(headers, rows[1:]), nil
}
