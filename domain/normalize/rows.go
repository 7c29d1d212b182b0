package normalize

import (
	"marketpulse/domain/fields"
	"marketpulse/domain/report"
	"marketpulse/domain/table"
)

// CanonicalRow is one source row after normalization: canonical fields
// carry typed cells, everything unmapped is preserved as raw metadata for
// traceability. Rows are owned by the pipeline run that created them.
type CanonicalRow struct {
	Values         map[fields.Field]table.Cell `json:"values"`
	Unmapped       map[string]string           `json:"unmapped,omitempty"`
	SourceRowIndex int                         `json:"source_row_index"`
	Confidence     float64                     `json:"confidence"`
}

// Get returns the cell for a field, defaulting to missing
func (r CanonicalRow) Get(f fields.Field) table.Cell {
	if c, ok := r.Values[f]; ok {
		return c
	}
	return table.NewMissingCell()
}

// Has reports whether the field carries a usable value in this row
func (r CanonicalRow) Has(f fields.Field) bool {
	return r.Get(f).HasValue()
}

// Clone returns a deep copy so later stages can derive new rows without
// mutating earlier stage output.
func (r CanonicalRow) Clone() CanonicalRow {
	out := CanonicalRow{
		Values:         make(map[fields.Field]table.Cell, len(r.Values)),
		SourceRowIndex: r.SourceRowIndex,
		Confidence:     r.Confidence,
	}
	for f, c := range r.Values {
		out.Values[f] = c
	}
	if r.Unmapped != nil {
		out.Unmapped = make(map[string]string, len(r.Unmapped))
		for k, v := range r.Unmapped {
			out.Unmapped[k] = v
		}
	}
	return out
}

// BuildRows normalizes every table row against the applied mappings. Cells
// that fail coercion are recorded as TypeCoercionFailure warnings and kept
// as invalid cells; the row itself is never dropped here.
func BuildRows(t table.RawTable, registry fields.Registry, mappings []fields.Mapping) ([]CanonicalRow, report.Report) {
	var rep report.Report
	set := fields.NewMappingSet(mappings)

	// Row confidence is the mean confidence of the applied mappings
	applied := 0
	confidenceSum := 0.0
	for _, m := range mappings {
		if m.Applied() {
			applied++
			confidenceSum += m.Confidence
		}
	}
	rowConfidence := 0.0
	if applied > 0 {
		rowConfidence = confidenceSum / float64(applied)
	}

	rows := make([]CanonicalRow, 0, t.RowCount())
	for rowIdx, raw := range t.Rows {
		row := CanonicalRow{
			Values:         make(map[fields.Field]table.Cell, applied),
			SourceRowIndex: rowIdx,
			Confidence:     rowConfidence,
		}
		for colIdx, token := range raw {
			mapping, ok := set.ByColumn(colIdx)
			if !ok {
				if token != "" {
					if row.Unmapped == nil {
						row.Unmapped = map[string]string{}
					}
					row.Unmapped[t.Headers[colIdx]] = token
				}
				continue
			}
			spec, ok := registry.Spec(mapping.Field)
			if !ok {
				continue
			}
			cell := ForType(spec.Type, token)
			if cell.IsInvalid() {
				rep.WarnRow(report.TypeCoercionFailure, rowIdx,
					"row %d: %q cannot be read as %s for %s", rowIdx, token, spec.Type, mapping.Field)
			}
			row.Values[mapping.Field] = cell
		}
		rows = append(rows, row)
	}
	return rows, rep
}
