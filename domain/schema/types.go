package schema

// ColumnType is the automatically detected data type of a source column
type ColumnType string

const (
	TypeText       ColumnType = "text"
	TypeInteger    ColumnType = "integer"
	TypeDecimal    ColumnType = "decimal"
	TypeCurrency   ColumnType = "currency"
	TypeDate       ColumnType = "date"
	TypePercentage ColumnType = "percentage"
	TypeBoolean    ColumnType = "boolean"
)

// NumericSummary carries distribution statistics for numeric-typed columns
type NumericSummary struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Q1           float64 `json:"q1"`
	Q3           float64 `json:"q3"`
	OutlierCount int     `json:"outlier_count"` // IQR method
}

// ColumnProfile is the immutable per-column inspection result
type ColumnProfile struct {
	Index         int             `json:"index"`
	OriginalName  string          `json:"original_name"`
	InferredType  ColumnType      `json:"inferred_type"`
	SampleValues  []string        `json:"sample_values"`
	NullCount     int             `json:"null_count"`
	DistinctCount int             `json:"distinct_count"`
	Entropy       float64         `json:"entropy"` // Shannon entropy of the value distribution
	Numeric       *NumericSummary `json:"numeric,omitempty"`
}

// AggregationLevel describes what one row of the dataset represents
type AggregationLevel string

const (
	AggregationDetail  AggregationLevel = "detail"  // one row per event/record
	AggregationDaily   AggregationLevel = "daily"   // one row per day
	AggregationSummary AggregationLevel = "summary" // pre-rolled totals
)

// DatasetProfile carries dataset-level patterns and quality signals
type DatasetProfile struct {
	IsMultiPlatform   bool             `json:"is_multi_platform"`
	IsTimeSeries      bool             `json:"is_time_series"`
	AggregationLevel  AggregationLevel `json:"aggregation_level"`
	DuplicateRowCount int              `json:"duplicate_row_count"`
	RowCount          int              `json:"row_count"`
}

// Result bundles the per-column and dataset-level profiles for one table
type Result struct {
	Columns []ColumnProfile `json:"columns"`
	Dataset DatasetProfile  `json:"dataset"`
}

// Column returns the profile at the given source index
func (r Result) Column(i int) (ColumnProfile, bool) {
	for _, c := range r.Columns {
		if c.Index == i {
			return c, true
		}
	}
	return ColumnProfile{}, false
}

// Config defines the profiling parameters
type Config struct {
	SampleSize          int     `json:"sample_size"`           // max distinct samples kept per column
	TypeThreshold       float64 `json:"type_threshold"`        // share of non-empty values a type must parse
	TimeSeriesThreshold float64 `json:"time_series_threshold"` // share of adjacent date pairs that must be non-decreasing
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		SampleSize:          5,
		TypeThreshold:       0.9,
		TimeSeriesThreshold: 0.8,
	}
}
