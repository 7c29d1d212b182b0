package table

import (
	"fmt"
	"strings"

	"marketpulse/domain/core"
)

// RawTable is the tokenized input snapshot: one header row plus data rows.
// Cells arrive as strings; numeric and empty JSON cells are stringified at
// the boundary by NewRawTable. Every row has exactly len(Headers) cells.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// NewRawTable builds a RawTable from loosely typed cells (string, number or
// nil), padding or truncating rows to the header width so the width
// invariant always holds.
func NewRawTable(headers []string, rows [][]interface{}) RawTable {
	t := RawTable{Headers: append([]string(nil), headers...)}
	width := len(headers)
	t.Rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, width)
		for i := 0; i < width && i < len(row); i++ {
			cells[i] = stringifyCell(row[i])
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// NewRawTableFromStrings builds a RawTable from already-tokenized string
// rows, enforcing the width invariant by padding short rows.
func NewRawTableFromStrings(headers []string, rows [][]string) RawTable {
	t := RawTable{Headers: append([]string(nil), headers...)}
	width := len(headers)
	t.Rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, width)
		copy(cells, row)
		t.Rows = append(t.Rows, cells[:width])
	}
	return t
}

// Validate checks structural invariants
func (t RawTable) Validate() error {
	if len(t.Headers) == 0 || len(t.Rows) == 0 {
		return core.ErrEmptyTable
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return fmt.Errorf("%w: row %d has %d cells, want %d", core.ErrRaggedTable, i, len(row), len(t.Headers))
		}
	}
	return nil
}

// Column returns all values of the column at index i in row order.
func (t RawTable) Column(i int) []string {
	if i < 0 || i >= len(t.Headers) {
		return nil
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// ColumnCount returns the number of columns
func (t RawTable) ColumnCount() int { return len(t.Headers) }

// RowCount returns the number of data rows
func (t RawTable) RowCount() int { return len(t.Rows) }

// stringifyCell converts a loosely typed cell to its string token
func stringifyCell(v interface{}) string {
	if v == nil {
		return ""
	}
	switch c := v.(type) {
	case string:
		return c
	case float64:
		// JSON numbers decode as float64; keep integers clean
		if c == float64(int64(c)) {
			return fmt.Sprintf("%d", int64(c))
		}
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", c), "0"), ".")
	case float32:
		return stringifyCell(float64(c))
	case int:
		return fmt.Sprintf("%d", c)
	case int64:
		return fmt.Sprintf("%d", c)
	case bool:
		return fmt.Sprintf("%t", c)
	default:
		return fmt.Sprintf("%v", c)
	}
}

// CampaignContext is the read-only campaign identity supplied by the caller.
// ExternalConversionCount, when present, outranks any in-dataset conversion
// column (source priority).
type CampaignContext struct {
	Name                    string `json:"name"`
	Platform                string `json:"platform"`
	ExternalConversionCount *int64 `json:"external_conversion_count,omitempty"`
}

// HasExternalConversions reports whether the caller supplied a conversion
// count from a platform API.
func (c CampaignContext) HasExternalConversions() bool {
	return c.ExternalConversionCount != nil
}

// Validate checks the context carries a usable campaign identity
func (c CampaignContext) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return core.ErrEmptyCampaign
	}
	return nil
}
