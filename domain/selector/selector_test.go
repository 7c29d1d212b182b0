package selector

import (
	"testing"

	"marketpulse/domain/fields"
	"marketpulse/domain/mapping"
	"marketpulse/domain/normalize"
	"marketpulse/domain/report"
	"marketpulse/domain/schema"
	"marketpulse/domain/table"
)

func selectorRegistry(t *testing.T) fields.Registry {
	t.Helper()
	reg, err := fields.Registry{
		Version: "test",
		Specs: []fields.FieldSpec{
			{Field: fields.CampaignName, Type: fields.SemanticText, Required: true,
				Aliases: []string{"campaign"}},
			{Field: fields.Platform, Type: fields.SemanticPlatform, Required: true,
				Aliases: []string{"source"}},
			{Field: fields.Revenue, Type: fields.SemanticCurrency, Required: true},
		},
	}.Compile()
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

// run profiles, matches and normalizes a table, then selects for ctx
func run(t *testing.T, tbl table.RawTable, ctx table.CampaignContext) ([]normalize.CanonicalRow, FilterReport, report.Report) {
	t.Helper()
	reg := selectorRegistry(t)
	profile := schema.Profile(tbl, schema.DefaultConfig())
	match := mapping.Match(profile, reg, ctx)
	rows, _ := normalize.BuildRows(tbl, reg, match.Mappings)
	return Select(rows, tbl, match, profile, ctx)
}

// TestSelectNameAndPlatform tests multi-platform filtering
func TestSelectNameAndPlatform(t *testing.T) {
	tbl := table.NewRawTableFromStrings(
		[]string{"Campaign Name", "Platform", "Revenue"},
		[][]string{
			{"test024", "LinkedIn Ads", "24000.00"},
			{"test024", "Facebook Ads", "5000.00"},
		},
	)
	selected, fr, _ := run(t, tbl, table.CampaignContext{Name: "test024", Platform: "linkedin"})

	if fr.MatchMethod != MethodNameAndPlatform {
		t.Errorf("match method = %s, want name+platform", fr.MatchMethod)
	}
	if len(selected) != 1 {
		t.Fatalf("selected %d rows, want 1", len(selected))
	}
	if got := selected[0].Get(fields.Revenue).AsDecimal().String(); got != "24000.00" {
		t.Errorf("selected revenue = %s, want 24000.00", got)
	}
	if fr.TotalRows != 2 || fr.MatchedRows != 1 {
		t.Errorf("filter report = %+v, want 2 total / 1 matched", fr)
	}
}

// TestSelectSinglePlatformAssumption tests that the platform filter stays
// off without a platform column
func TestSelectSinglePlatformAssumption(t *testing.T) {
	tbl := table.NewRawTableFromStrings(
		[]string{"Campaign Name", "Revenue"},
		[][]string{
			{"test024", "24000.00"},
			{"test024", "5000.00"},
			{"other", "99.00"},
		},
	)
	selected, fr, _ := run(t, tbl, table.CampaignContext{Name: "test024", Platform: "linkedin"})

	if fr.MatchMethod != MethodName {
		t.Errorf("match method = %s, want name", fr.MatchMethod)
	}
	if len(selected) != 2 {
		t.Errorf("selected %d rows, want 2", len(selected))
	}
}

// TestSelectNormalizedIdentity tests exact-after-normalization equality
func TestSelectNormalizedIdentity(t *testing.T) {
	tbl := table.NewRawTableFromStrings(
		[]string{"Campaign Name", "Revenue"},
		[][]string{
			{"Test 024", "10.00"},
			{"TEST_024", "20.00"},
			{"test0245", "99.00"},
			{"test02", "99.00"},
		},
	)
	selected, _, _ := run(t, tbl, table.CampaignContext{Name: "test024"})

	if len(selected) != 2 {
		t.Fatalf("selected %d rows, want 2 (no partial matching)", len(selected))
	}
	for _, row := range selected {
		if row.Get(fields.Revenue).AsDecimal().String() == "99.00" {
			t.Error("partial name match leaked through")
		}
	}
}

// TestSelectZeroRowsWarns tests the NoMatchingRows advisory
func TestSelectZeroRowsWarns(t *testing.T) {
	tbl := table.NewRawTableFromStrings(
		[]string{"Campaign Name", "Revenue"},
		[][]string{{"other campaign", "10.00"}},
	)
	selected, _, rep := run(t, tbl, table.CampaignContext{Name: "test024"})

	if len(selected) != 0 {
		t.Fatalf("selected %d rows, want 0", len(selected))
	}
	if rep.CountKind(report.NoMatchingRows) != 1 {
		t.Errorf("expected NoMatchingRows warning, got %+v", rep)
	}
	if rep.HasErrors() {
		t.Error("zero rows is advisory at this layer, not an error")
	}
}

// TestSelectLowConfidencePlatformFilter tests that a sub-floor platform
// suggestion still filters, with a warning
func TestSelectLowConfidencePlatformFilter(t *testing.T) {
	profile := schema.Result{
		Dataset: schema.DatasetProfile{IsMultiPlatform: true},
	}
	match := mapping.Result{
		Suggestions: []fields.Mapping{
			{SourceColumnIndex: 1, Field: fields.Platform, Confidence: 0.4, MatchType: fields.MatchDataShape},
		},
	}
	tbl := table.NewRawTableFromStrings(
		[]string{"campaign", "mystery"},
		[][]string{
			{"test024", "LinkedIn"},
			{"test024", "Facebook"},
		},
	)
	rows := []normalize.CanonicalRow{
		{Values: map[fields.Field]table.Cell{fields.CampaignName: table.NewTextCell("test024")}, SourceRowIndex: 0},
		{Values: map[fields.Field]table.Cell{fields.CampaignName: table.NewTextCell("test024")}, SourceRowIndex: 1},
	}

	selected, fr, rep := Select(rows, tbl, match, profile,
		table.CampaignContext{Name: "test024", Platform: "linkedin"})

	if fr.MatchMethod != MethodNameAndPlatform {
		t.Errorf("match method = %s, want name+platform", fr.MatchMethod)
	}
	if len(selected) != 1 {
		t.Fatalf("selected %d rows, want 1 (raw-column fallback)", len(selected))
	}
	if rep.CountKind(report.LowConfidencePlatformFilter) != 1 {
		t.Errorf("expected LowConfidencePlatformFilter warning, got %+v", rep.Warnings)
	}
}
