package mapping

import (
	"testing"

	"marketpulse/domain/fields"
	"marketpulse/domain/report"
	"marketpulse/domain/schema"
	"marketpulse/domain/table"
)

func testRegistry(t *testing.T) fields.Registry {
	t.Helper()
	reg, err := fields.Registry{
		Version: "test",
		Specs: []fields.FieldSpec{
			{Field: fields.CampaignName, Type: fields.SemanticText, Required: true,
				Aliases: []string{"campaign", "utm campaign"},
				Patterns: []fields.PatternSpec{{Expr: `\bcampaign\b`, Confidence: 0.85}}},
			{Field: fields.Platform, Type: fields.SemanticPlatform, Required: true,
				Aliases:  []string{"source", "channel"},
				Patterns: []fields.PatternSpec{{Expr: `\b(platform|source|channel)\b`, Confidence: 0.85}}},
			{Field: fields.Revenue, Type: fields.SemanticCurrency, Required: true,
				Aliases: []string{"deal value", "sales"},
				Patterns: []fields.PatternSpec{
					{Expr: `\b(revenue|sales|income)\b`, Confidence: 0.85},
					{Expr: `(rev|earn)`, Confidence: 0.7},
				}},
			{Field: fields.Conversions, Type: fields.SemanticInteger, Required: true,
				Aliases:  []string{"purchases", "orders"},
				Patterns: []fields.PatternSpec{{Expr: `conv`, Confidence: 0.7}}},
			{Field: fields.Date, Type: fields.SemanticDate, Required: false,
				Aliases: []string{"day"}},
		},
	}.Compile()
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func profileFor(headers []string, rows [][]string) schema.Result {
	return schema.Profile(table.NewRawTableFromStrings(headers, rows), schema.DefaultConfig())
}

func mappingFor(res Result, f fields.Field) (fields.Mapping, bool) {
	for _, m := range res.Mappings {
		if m.Field == f {
			return m, true
		}
	}
	return fields.Mapping{}, false
}

// TestMatchExactLayer tests case-insensitive primary-name matching
func TestMatchExactLayer(t *testing.T) {
	profile := profileFor(
		[]string{"Platform", "revenue"},
		[][]string{{"linkedin", "100.00"}},
	)
	res := Match(profile, testRegistry(t), table.CampaignContext{Name: "x"})

	m, ok := mappingFor(res, fields.Platform)
	if !ok {
		t.Fatal("Platform header should map exactly")
	}
	if m.MatchType != fields.MatchExact || m.Confidence != 1.0 {
		t.Errorf("got %s at %.2f, want exact at 1.00", m.MatchType, m.Confidence)
	}
}

// TestMatchAliasLayer tests curated synonym lookup
func TestMatchAliasLayer(t *testing.T) {
	profile := profileFor(
		[]string{"Deal Value", "utm_campaign"},
		[][]string{{"$5,000.00", "spring-sale"}},
	)
	res := Match(profile, testRegistry(t), table.CampaignContext{Name: "x"})

	m, ok := mappingFor(res, fields.Revenue)
	if !ok {
		t.Fatal("'Deal Value' should map to revenue via alias")
	}
	if m.MatchType != fields.MatchAlias || m.Confidence != 0.9 {
		t.Errorf("got %s at %.2f, want alias at 0.90", m.MatchType, m.Confidence)
	}

	name, ok := mappingFor(res, fields.CampaignName)
	if !ok || name.MatchType != fields.MatchAlias {
		t.Errorf("'utm_campaign' should map to campaign_name via alias, got %+v", name)
	}
}

// TestMatchNormalizedLayer tests separator and camel-case folding
func TestMatchNormalizedLayer(t *testing.T) {
	for _, header := range []string{"Campaign_Name", "campaignName", "CAMPAIGN NAME", "campaignname"} {
		profile := profileFor([]string{header}, [][]string{{"spring sale"}})
		res := Match(profile, testRegistry(t), table.CampaignContext{Name: "x"})

		m, ok := mappingFor(res, fields.CampaignName)
		if !ok {
			t.Errorf("%q should map to campaign_name", header)
			continue
		}
		if m.Confidence < 0.85 {
			t.Errorf("%q mapped at %.2f, want >= 0.85", header, m.Confidence)
		}
	}
}

// TestMatchPatternLayer tests registry pattern confidences
func TestMatchPatternLayer(t *testing.T) {
	profile := profileFor(
		[]string{"Total Revenue (USD)", "conv."},
		[][]string{{"100.00", "5"}},
	)
	res := Match(profile, testRegistry(t), table.CampaignContext{Name: "x"})

	rev, ok := mappingFor(res, fields.Revenue)
	if !ok || rev.Confidence != 0.85 {
		t.Errorf("anchored revenue pattern should apply at 0.85, got %+v", rev)
	}
	conv, ok := mappingFor(res, fields.Conversions)
	if !ok || conv.Confidence != 0.7 {
		t.Errorf("loose conv pattern should apply at 0.70, got %+v", conv)
	}
}

// TestMatchDataShapeLayer tests type-based admission for unnamed columns
func TestMatchDataShapeLayer(t *testing.T) {
	profile := profileFor(
		[]string{"campaign", "col_b"},
		[][]string{
			{"spring sale", "$1,200.00"},
			{"spring sale", "$900.50"},
		},
	)
	res := Match(profile, testRegistry(t), table.CampaignContext{Name: "x"})

	m, ok := mappingFor(res, fields.Revenue)
	if !ok {
		t.Fatal("currency-shaped column should map to revenue by data shape")
	}
	if m.MatchType != fields.MatchDataShape || m.Confidence != 0.5 {
		t.Errorf("got %s at %.2f, want data-shape at 0.50", m.MatchType, m.Confidence)
	}
}

// TestMatchDataShapeNeverClaimsText tests that text fields skip the shape layer
func TestMatchDataShapeNeverClaimsText(t *testing.T) {
	profile := profileFor(
		[]string{"col_a", "col_b"},
		[][]string{{"alpha", "beta"}},
	)
	res := Match(profile, testRegistry(t), table.CampaignContext{Name: "x"})

	if _, ok := mappingFor(res, fields.CampaignName); ok {
		t.Error("arbitrary text columns must not map to campaign_name by shape")
	}
	if res.Report.CountKind(report.MissingRequiredField) == 0 {
		t.Error("unmatched required fields should be reported")
	}
}

// TestMatchAmbiguityWarning tests tie reporting with deterministic choice
func TestMatchAmbiguityWarning(t *testing.T) {
	profile := profileFor(
		[]string{"sales", "deal value"},
		[][]string{{"100.00", "200.00"}},
	)
	res := Match(profile, testRegistry(t), table.CampaignContext{Name: "x"})

	m, ok := mappingFor(res, fields.Revenue)
	if !ok {
		t.Fatal("revenue should map despite the tie")
	}
	if m.SourceColumnIndex != 0 {
		t.Errorf("tie should break to the lowest column index, got %d", m.SourceColumnIndex)
	}
	if res.Report.CountKind(report.AmbiguousMapping) == 0 {
		t.Error("equal-confidence candidates should raise AmbiguousMapping")
	}
}

// TestMatchMissingRequiredField tests the non-fatal failure contract
func TestMatchMissingRequiredField(t *testing.T) {
	profile := profileFor(
		[]string{"campaign", "revenue"},
		[][]string{{"spring sale", "100.00"}},
	)
	res := Match(profile, testRegistry(t), table.CampaignContext{Name: "x"})

	if len(res.UnmatchedRequiredFields) == 0 {
		t.Fatal("platform and conversions should be unmatched")
	}
	if res.Report.CountKind(report.MissingRequiredField) == 0 {
		t.Error("missing required fields should produce error diagnostics")
	}
	// everything else still maps
	if _, ok := mappingFor(res, fields.Revenue); !ok {
		t.Error("revenue should still map despite other failures")
	}
}

// TestMatchExternalConversionsRelaxRequired tests contextual requiredness
func TestMatchExternalConversionsRelaxRequired(t *testing.T) {
	profile := profileFor(
		[]string{"campaign", "revenue"},
		[][]string{{"spring sale", "100.00"}},
	)
	count := int64(993)
	ctx := table.CampaignContext{Name: "x", ExternalConversionCount: &count}
	res := Match(profile, testRegistry(t), ctx)

	if len(res.UnmatchedRequiredFields) != 0 {
		t.Errorf("no required fields should be missing, got %v", res.UnmatchedRequiredFields)
	}
	if res.Report.HasErrors() {
		t.Errorf("unexpected errors: %+v", res.Report.Errors)
	}
}

// TestMatchColumnOrderInvariance tests that permuting columns keeps the
// same field-to-header assignment
func TestMatchColumnOrderInvariance(t *testing.T) {
	headers := []string{"campaign", "source", "revenue", "orders"}
	row := []string{"spring sale", "linkedin", "100.00", "5"}

	perm := []int{2, 0, 3, 1}
	permHeaders := make([]string, len(headers))
	permRow := make([]string, len(row))
	for i, p := range perm {
		permHeaders[i] = headers[p]
		permRow[i] = row[p]
	}

	reg := testRegistry(t)
	ctx := table.CampaignContext{Name: "x"}
	original := Match(profileFor(headers, [][]string{row}), reg, ctx)
	permuted := Match(profileFor(permHeaders, [][]string{permRow}), reg, ctx)

	if len(original.Mappings) != len(permuted.Mappings) {
		t.Fatalf("mapping counts differ: %d vs %d", len(original.Mappings), len(permuted.Mappings))
	}
	byField := map[fields.Field]string{}
	for _, m := range original.Mappings {
		byField[m.Field] = m.SourceColumnName
	}
	for _, m := range permuted.Mappings {
		if byField[m.Field] != m.SourceColumnName {
			t.Errorf("field %s maps to %q after permutation, was %q",
				m.Field, m.SourceColumnName, byField[m.Field])
		}
	}
}

// TestNormalizeHeader tests header canonicalization
func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Campaign_Name", "campaign name"},
		{"campaignName", "campaign name"},
		{"Total Revenue (USD)", "total revenue usd"},
		{"conv.", "conv"},
		{"  Spend  ", "spend"},
	}
	for _, test := range tests {
		if got := NormalizeHeader(test.input); got != test.expected {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", test.input, got, test.expected)
		}
	}
}
