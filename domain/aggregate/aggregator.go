// Package aggregate folds selected canonical rows into the summary the
// whole pipeline exists to produce: total revenue, total conversions and
// the conversion value. Revenue accumulates in integer cents; conversion
// value is revenue per conversion, or undeterminable when no conversions
// are available, which is distinct from a computed zero.
package aggregate

import (
	"time"

	"marketpulse/domain/fields"
	"marketpulse/domain/normalize"
	"marketpulse/domain/table"
)

// ConversionSource records where the conversion total came from
type ConversionSource string

const (
	SourceExternal ConversionSource = "external" // supplied by the caller, outranks the dataset
	SourceDataset  ConversionSource = "dataset"  // summed from the conversions column
	SourceNone     ConversionSource = "none"
)

// DateRange is the min/max of non-null dates among selected rows
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Result is the canonical aggregation output
type Result struct {
	TotalRevenue     table.Decimal    `json:"total_revenue"`
	TotalConversions int64            `json:"total_conversions"`
	ConversionSource ConversionSource `json:"conversion_source"`
	RowCount         int              `json:"row_count"`
	DateRange        DateRange        `json:"date_range"`

	// ConversionValue is nil when TotalConversions is zero: the metric is
	// undeterminable, never a division error and never a fake zero.
	ConversionValue *table.Decimal `json:"conversion_value,omitempty"`
}

// Determinable reports whether the conversion value could be computed
func (r Result) Determinable() bool { return r.ConversionValue != nil }

// Compute aggregates the selected rows under the campaign context's
// source-priority rules. It is total: any row set, including empty,
// produces a result.
func Compute(rows []normalize.CanonicalRow, ctx table.CampaignContext) Result {
	res := Result{RowCount: len(rows), ConversionSource: SourceNone}

	var revenueCents table.Decimal
	var datasetConversions int64
	sawConversions := false

	for _, row := range rows {
		if cell := row.Get(fields.Revenue); cell.Kind == table.CellDecimal {
			revenueCents = revenueCents.Add(cell.AsDecimal())
		}
		if cell := row.Get(fields.Conversions); cell.Kind == table.CellDecimal {
			datasetConversions += cell.AsDecimal().Cents() / 100
			sawConversions = true
		}
		if cell := row.Get(fields.Date); cell.Kind == table.CellDate {
			d := cell.AsDate()
			if res.DateRange.Start == nil || d.Before(*res.DateRange.Start) {
				start := d
				res.DateRange.Start = &start
			}
			if res.DateRange.End == nil || d.After(*res.DateRange.End) {
				end := d
				res.DateRange.End = &end
			}
		}
	}
	res.TotalRevenue = revenueCents

	switch {
	case ctx.HasExternalConversions():
		res.TotalConversions = *ctx.ExternalConversionCount
		res.ConversionSource = SourceExternal
	case sawConversions:
		res.TotalConversions = datasetConversions
		res.ConversionSource = SourceDataset
	}

	if res.TotalConversions > 0 {
		value := res.TotalRevenue.DivideBy(res.TotalConversions)
		res.ConversionValue = &value
	}
	return res
}
