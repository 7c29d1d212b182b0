package schema

import (
	"testing"

	"marketpulse/domain/table"
)

func profileOf(t *testing.T, headers []string, rows [][]string) Result {
	t.Helper()
	return Profile(table.NewRawTableFromStrings(headers, rows), DefaultConfig())
}

// TestInferColumnTypes tests the parse-vote winner per column shape
func TestInferColumnTypes(t *testing.T) {
	result := profileOf(t,
		[]string{"name", "count", "ratio", "revenue", "day", "share", "flag"},
		[][]string{
			{"spring sale", "300", "1.5", "$5,000.00", "2026-03-01", "12.5%", "yes"},
			{"brand push", "120", "2.25", "$1,200.50", "2026-03-02", "9.1%", "no"},
		},
	)

	expected := []ColumnType{
		TypeText, TypeInteger, TypeDecimal, TypeCurrency, TypeDate, TypePercentage, TypeBoolean,
	}
	for i, want := range expected {
		if got := result.Columns[i].InferredType; got != want {
			t.Errorf("column %q inferred as %s, want %s",
				result.Columns[i].OriginalName, got, want)
		}
	}
}

// TestProfileNullAndDistinctCounts tests quality counters
func TestProfileNullAndDistinctCounts(t *testing.T) {
	result := profileOf(t,
		[]string{"name"},
		[][]string{{"a"}, {""}, {"a"}, {"  "}, {"b"}},
	)

	col := result.Columns[0]
	if col.NullCount != 2 {
		t.Errorf("NullCount = %d, want 2", col.NullCount)
	}
	if col.DistinctCount != 2 {
		t.Errorf("DistinctCount = %d, want 2", col.DistinctCount)
	}
	if col.Entropy <= 0 {
		t.Errorf("two-value column should have positive entropy, got %f", col.Entropy)
	}
}

// TestProfileConstantColumnEntropy tests that constant columns score zero
func TestProfileConstantColumnEntropy(t *testing.T) {
	result := profileOf(t,
		[]string{"platform"},
		[][]string{{"linkedin"}, {"linkedin"}, {"linkedin"}},
	)
	if e := result.Columns[0].Entropy; e != 0 {
		t.Errorf("constant column entropy = %f, want 0", e)
	}
}

// TestNumericSummary tests distribution stats and outlier detection
func TestNumericSummary(t *testing.T) {
	rows := [][]string{
		{"10"}, {"12"}, {"11"}, {"13"}, {"12"}, {"11"}, {"10"}, {"1000"},
	}
	result := profileOf(t, []string{"count"}, rows)

	num := result.Columns[0].Numeric
	if num == nil {
		t.Fatal("integer column should carry a numeric summary")
	}
	if num.Min != 10 || num.Max != 1000 {
		t.Errorf("min/max = %f/%f, want 10/1000", num.Min, num.Max)
	}
	if num.OutlierCount != 1 {
		t.Errorf("OutlierCount = %d, want 1 (the 1000)", num.OutlierCount)
	}
}

// TestDetectMultiPlatform tests the platform column heuristic
func TestDetectMultiPlatform(t *testing.T) {
	multi := profileOf(t,
		[]string{"campaign", "Traffic Source"},
		[][]string{
			{"spring sale", "LinkedIn Ads"},
			{"spring sale", "Facebook"},
		},
	)
	if !multi.Dataset.IsMultiPlatform {
		t.Error("two distinct platforms should flag multi-platform")
	}

	single := profileOf(t,
		[]string{"campaign", "Traffic Source"},
		[][]string{
			{"spring sale", "LinkedIn Ads"},
			{"brand push", "LinkedIn"},
		},
	)
	if single.Dataset.IsMultiPlatform {
		t.Error("aliases of one platform should not flag multi-platform")
	}

	noColumn := profileOf(t,
		[]string{"campaign", "revenue"},
		[][]string{{"spring sale", "100.00"}},
	)
	if noColumn.Dataset.IsMultiPlatform {
		t.Error("no platform-like column should not flag multi-platform")
	}
}

// TestDetectTimeSeries tests monotonic date detection
func TestDetectTimeSeries(t *testing.T) {
	series := profileOf(t,
		[]string{"day", "revenue"},
		[][]string{
			{"2026-03-01", "10.00"},
			{"2026-03-02", "11.00"},
			{"2026-03-02", "12.00"},
			{"2026-03-03", "13.00"},
		},
	)
	if !series.Dataset.IsTimeSeries {
		t.Error("non-decreasing date column should flag time series")
	}

	shuffled := profileOf(t,
		[]string{"day", "revenue"},
		[][]string{
			{"2026-03-09", "10.00"},
			{"2026-03-02", "11.00"},
			{"2026-03-07", "12.00"},
			{"2026-03-01", "13.00"},
		},
	)
	if shuffled.Dataset.IsTimeSeries {
		t.Error("shuffled dates should not flag time series")
	}
}

// TestCountDuplicateRows tests whole-row duplicate counting
func TestCountDuplicateRows(t *testing.T) {
	result := profileOf(t,
		[]string{"a", "b"},
		[][]string{
			{"1", "x"},
			{"1", "x"},
			{"1", "y"},
			{"1", "x"},
		},
	)
	if result.Dataset.DuplicateRowCount != 2 {
		t.Errorf("DuplicateRowCount = %d, want 2", result.Dataset.DuplicateRowCount)
	}
}

// TestDetectAggregationLevel tests row-granularity classification
func TestDetectAggregationLevel(t *testing.T) {
	daily := profileOf(t,
		[]string{"day", "revenue"},
		[][]string{
			{"2026-03-01", "10.00"},
			{"2026-03-02", "11.00"},
			{"2026-03-03", "12.00"},
			{"2026-03-04", "13.00"},
		},
	)
	if daily.Dataset.AggregationLevel != AggregationDaily {
		t.Errorf("one row per date should classify daily, got %s", daily.Dataset.AggregationLevel)
	}

	summary := profileOf(t,
		[]string{"campaign", "revenue"},
		[][]string{{"spring sale", "100.00"}},
	)
	if summary.Dataset.AggregationLevel != AggregationSummary {
		t.Errorf("tiny dateless table should classify summary, got %s", summary.Dataset.AggregationLevel)
	}

	detail := profileOf(t,
		[]string{"campaign", "revenue"},
		[][]string{
			{"a", "1.00"}, {"b", "2.00"}, {"c", "3.00"}, {"d", "4.00"}, {"e", "5.00"},
		},
	)
	if detail.Dataset.AggregationLevel != AggregationDetail {
		t.Errorf("larger dateless table should classify detail, got %s", detail.Dataset.AggregationLevel)
	}
}

// TestProfileEmptyColumn tests that all-empty columns stay text typed
func TestProfileEmptyColumn(t *testing.T) {
	result := profileOf(t,
		[]string{"notes"},
		[][]string{{""}, {""}},
	)
	col := result.Columns[0]
	if col.InferredType != TypeText {
		t.Errorf("empty column type = %s, want text", col.InferredType)
	}
	if col.NullCount != 2 {
		t.Errorf("NullCount = %d, want 2", col.NullCount)
	}
}
