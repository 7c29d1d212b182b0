package table

import (
	"time"
)

// CellKind discriminates the normalized cell variants
type CellKind string

const (
	CellText    CellKind = "text"
	CellDecimal CellKind = "decimal"
	CellDate    CellKind = "date"
	CellMissing CellKind = "missing"
	CellInvalid CellKind = "invalid"
)

// Cell is a normalized cell value as a tagged union. Downstream stages
// switch on Kind instead of inspecting runtime types; Invalid carries the
// original token for diagnostics.
type Cell struct {
	Kind       CellKind   `json:"kind"`
	TextVal    *string    `json:"text_val,omitempty"`
	DecimalVal *Decimal   `json:"decimal_val,omitempty"`
	DateVal    *time.Time `json:"date_val,omitempty"`
	Raw        string     `json:"raw,omitempty"`
}

// NewTextCell creates a text cell; empty strings become missing
func NewTextCell(s string) Cell {
	if s == "" {
		return NewMissingCell()
	}
	return Cell{Kind: CellText, TextVal: &s, Raw: s}
}

// NewDecimalCell creates a decimal cell
func NewDecimalCell(d Decimal, raw string) Cell {
	return Cell{Kind: CellDecimal, DecimalVal: &d, Raw: raw}
}

// NewDateCell creates a calendar-date cell (midnight UTC)
func NewDateCell(t time.Time, raw string) Cell {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Cell{Kind: CellDate, DateVal: &day, Raw: raw}
}

// NewMissingCell creates a missing cell
func NewMissingCell() Cell {
	return Cell{Kind: CellMissing}
}

// NewInvalidCell marks a cell that failed coercion, keeping the raw token
func NewInvalidCell(raw string) Cell {
	return Cell{Kind: CellInvalid, Raw: raw}
}

// IsMissing reports whether the cell carries no value
func (c Cell) IsMissing() bool { return c.Kind == CellMissing }

// IsInvalid reports whether coercion failed for this cell
func (c Cell) IsInvalid() bool { return c.Kind == CellInvalid }

// HasValue reports whether the cell carries a usable value
func (c Cell) HasValue() bool {
	return c.Kind == CellText || c.Kind == CellDecimal || c.Kind == CellDate
}

// AsText returns the text value, or empty string for other kinds
func (c Cell) AsText() string {
	if c.TextVal != nil {
		return *c.TextVal
	}
	return ""
}

// AsDecimal returns the decimal value, or zero for other kinds
func (c Cell) AsDecimal() Decimal {
	if c.DecimalVal != nil {
		return *c.DecimalVal
	}
	return 0
}

// AsDate returns the date value, or the zero time for other kinds
func (c Cell) AsDate() time.Time {
	if c.DateVal != nil {
		return *c.DateVal
	}
	return time.Time{}
}

// String renders the cell for reports and logs
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.AsText()
	case CellDecimal:
		return c.AsDecimal().String()
	case CellDate:
		return c.AsDate().Format("2006-01-02")
	case CellMissing:
		return "<missing>"
	default:
		return "<invalid:" + c.Raw + ">"
	}
}
