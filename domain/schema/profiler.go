// Package schema inspects a raw table before any mapping decision is made:
// per-column type inference by parse vote, dataset-level pattern detection
// and quality signals. Profiles are computed once per table and never
// mutated afterwards.
package schema

import (
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"marketpulse/domain/normalize"
	"marketpulse/domain/table"
)

// typeOrder is the detection order, most specific first. The vote winner
// is the earliest type that clears the threshold.
var typeOrder = []ColumnType{
	TypeInteger, TypeDecimal, TypeCurrency, TypeDate, TypePercentage, TypeBoolean,
}

// Profile inspects the table and returns column and dataset profiles. It
// is total over any structurally valid table, including empty ones.
func Profile(t table.RawTable, cfg Config) Result {
	result := Result{
		Columns: make([]ColumnProfile, 0, t.ColumnCount()),
		Dataset: DatasetProfile{RowCount: t.RowCount()},
	}
	for i, name := range t.Headers {
		result.Columns = append(result.Columns, profileColumn(i, name, t.Column(i), cfg))
	}

	result.Dataset.DuplicateRowCount = countDuplicateRows(t)
	result.Dataset.IsMultiPlatform = detectMultiPlatform(t, result.Columns)
	result.Dataset.IsTimeSeries = detectTimeSeries(t, result.Columns, cfg)
	result.Dataset.AggregationLevel = detectAggregationLevel(t, result.Columns)
	return result
}

func profileColumn(index int, name string, values []string, cfg Config) ColumnProfile {
	profile := ColumnProfile{
		Index:        index,
		OriginalName: name,
		InferredType: TypeText,
	}

	distinct := map[string]int{}
	var nonEmpty []string
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			profile.NullCount++
			continue
		}
		nonEmpty = append(nonEmpty, v)
		distinct[v]++
		if len(profile.SampleValues) < cfg.SampleSize {
			profile.SampleValues = append(profile.SampleValues, v)
		}
	}
	profile.DistinctCount = len(distinct)
	profile.Entropy = valueEntropy(distinct, len(nonEmpty))

	if len(nonEmpty) == 0 {
		return profile
	}

	// Parse vote: earliest type in detection order clearing the threshold
	for _, candidate := range typeOrder {
		hits := 0
		for _, v := range nonEmpty {
			if parsesAs(candidate, v) {
				hits++
			}
		}
		if float64(hits)/float64(len(nonEmpty)) >= cfg.TypeThreshold {
			profile.InferredType = candidate
			break
		}
	}

	if profile.InferredType == TypeInteger || profile.InferredType == TypeDecimal ||
		profile.InferredType == TypeCurrency || profile.InferredType == TypePercentage {
		profile.Numeric = summarizeNumeric(nonEmpty)
	}
	return profile
}

// parsesAs reports whether one token fits the candidate type shape
func parsesAs(t ColumnType, v string) bool {
	v = strings.TrimSpace(v)
	switch t {
	case TypeInteger:
		_, err := strconv.ParseInt(v, 10, 64)
		return err == nil
	case TypeDecimal:
		_, err := strconv.ParseFloat(v, 64)
		return err == nil
	case TypeCurrency:
		// percent tokens belong to the percentage vote even though the
		// currency parser tolerates them
		if strings.HasSuffix(v, "%") {
			return false
		}
		_, err := normalize.Currency(v)
		return err == nil
	case TypeDate:
		_, err := normalize.Date(v)
		return err == nil
	case TypePercentage:
		if !strings.HasSuffix(v, "%") {
			return false
		}
		_, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(v, "%")), 64)
		return err == nil
	case TypeBoolean:
		switch strings.ToLower(v) {
		case "true", "false", "yes", "no", "y", "n":
			return true
		}
		return false
	default:
		return true
	}
}

// summarizeNumeric computes distribution stats and IQR outlier counts for
// a numeric column, treating unparsable stragglers as absent.
func summarizeNumeric(values []string) *NumericSummary {
	var data []float64
	for _, v := range values {
		if d, err := normalize.Currency(v); err == nil {
			data = append(data, d.Float64())
		}
	}
	if len(data) == 0 {
		return nil
	}

	summary := &NumericSummary{}
	summary.Min, _ = stats.Min(data)
	summary.Max, _ = stats.Max(data)
	summary.Mean, _ = stats.Mean(data)
	summary.Median, _ = stats.Median(data)
	summary.Q1, _ = stats.Percentile(data, 25)
	summary.Q3, _ = stats.Percentile(data, 75)

	iqr := summary.Q3 - summary.Q1
	lower := summary.Q1 - 1.5*iqr
	upper := summary.Q3 + 1.5*iqr
	for _, x := range data {
		if x < lower || x > upper {
			summary.OutlierCount++
		}
	}
	return summary
}

// valueEntropy computes the Shannon entropy of the column's value
// distribution; high-cardinality identifier columns score high, constant
// columns score zero.
func valueEntropy(distinct map[string]int, total int) float64 {
	if total == 0 || len(distinct) == 0 {
		return 0
	}
	probs := make([]float64, 0, len(distinct))
	for _, count := range distinct {
		probs = append(probs, float64(count)/float64(total))
	}
	return stat.Entropy(probs)
}

// countDuplicateRows counts rows identical across all columns. Removal is
// a downstream decision; the profiler only reports.
func countDuplicateRows(t table.RawTable) int {
	seen := map[string]bool{}
	dupes := 0
	for _, row := range t.Rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			dupes++
		}
		seen[key] = true
	}
	return dupes
}

// detectMultiPlatform looks for a column that is provisionally a platform
// column by name heuristics and carries two or more distinct normalized
// platform values.
func detectMultiPlatform(t table.RawTable, columns []ColumnProfile) bool {
	for _, col := range columns {
		if !looksLikePlatformColumn(col.OriginalName) {
			continue
		}
		distinct := map[string]bool{}
		for _, v := range t.Column(col.Index) {
			if strings.TrimSpace(v) == "" {
				continue
			}
			distinct[normalize.PlatformName(v)] = true
		}
		if len(distinct) >= 2 {
			return true
		}
	}
	return false
}

func looksLikePlatformColumn(name string) bool {
	n := normalize.Text(name)
	for _, tok := range []string{"platform", "source", "channel", "network", "publisher"} {
		if strings.Contains(n, tok) {
			return true
		}
	}
	return false
}

// detectTimeSeries reports whether some date-typed column is monotonically
// non-decreasing for at least the configured share of adjacent row pairs.
func detectTimeSeries(t table.RawTable, columns []ColumnProfile, cfg Config) bool {
	for _, col := range columns {
		if col.InferredType != TypeDate {
			continue
		}
		var dates []time.Time
		for _, v := range t.Column(col.Index) {
			if strings.TrimSpace(v) == "" {
				continue
			}
			if d, err := normalize.Date(v); err == nil {
				dates = append(dates, d)
			}
		}
		if len(dates) < 2 {
			continue
		}
		nonDecreasing := 0
		for i := 1; i < len(dates); i++ {
			if !dates[i].Before(dates[i-1]) {
				nonDecreasing++
			}
		}
		if float64(nonDecreasing)/float64(len(dates)-1) >= cfg.TimeSeriesThreshold {
			return true
		}
	}
	return false
}

// detectAggregationLevel classifies what a row represents: daily when a
// date column has one row per distinct date, summary for tiny dateless
// tables, detail otherwise.
func detectAggregationLevel(t table.RawTable, columns []ColumnProfile) AggregationLevel {
	for _, col := range columns {
		if col.InferredType != TypeDate {
			continue
		}
		if col.DistinctCount > 0 && col.DistinctCount == t.RowCount()-col.NullCount && col.NullCount == 0 {
			return AggregationDaily
		}
	}
	if t.RowCount() <= 3 {
		return AggregationSummary
	}
	return AggregationDetail
}
