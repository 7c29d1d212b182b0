package fields

import (
	"errors"
	"testing"

	"marketpulse/domain/core"
	"marketpulse/domain/table"
)

func testRegistry() Registry {
	return Registry{
		Version: "test",
		Specs: []FieldSpec{
			{Field: CampaignName, Type: SemanticText, Required: true, Aliases: []string{"campaign"}},
			{Field: Platform, Type: SemanticPlatform, Required: true},
			{Field: Revenue, Type: SemanticCurrency, Required: true,
				Patterns: []PatternSpec{{Expr: `\brevenue\b`, Confidence: 0.85}}},
			{Field: Conversions, Type: SemanticInteger, Required: true},
			{Field: Date, Type: SemanticDate, Required: false},
		},
	}
}

// TestRegistryCompile tests validation and pattern compilation
func TestRegistryCompile(t *testing.T) {
	compiled, err := testRegistry().Compile()
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	spec, ok := compiled.Spec(Revenue)
	if !ok {
		t.Fatal("revenue spec missing after compile")
	}
	if !spec.Patterns[0].Matches("total revenue") {
		t.Error("compiled pattern should match 'total revenue'")
	}
	if spec.Patterns[0].Matches("revenuestream") {
		t.Error("word-boundary pattern should not match 'revenuestream'")
	}
}

// TestRegistryCompileRejectsEmpty tests the empty-registry error
func TestRegistryCompileRejectsEmpty(t *testing.T) {
	_, err := Registry{}.Compile()
	if !errors.Is(err, core.ErrEmptyRegistry) {
		t.Errorf("expected ErrEmptyRegistry, got %v", err)
	}
}

// TestRegistryCompileRejectsDuplicates tests duplicate field detection
func TestRegistryCompileRejectsDuplicates(t *testing.T) {
	r := Registry{Specs: []FieldSpec{
		{Field: Revenue, Type: SemanticCurrency},
		{Field: Revenue, Type: SemanticCurrency},
	}}
	if _, err := r.Compile(); err == nil {
		t.Error("expected error for duplicate field specs")
	}
}

// TestRegistryCompileRejectsBadPattern tests regex validation
func TestRegistryCompileRejectsBadPattern(t *testing.T) {
	r := Registry{Specs: []FieldSpec{
		{Field: Revenue, Patterns: []PatternSpec{{Expr: "([", Confidence: 0.7}}},
	}}
	if _, err := r.Compile(); err == nil {
		t.Error("expected error for invalid pattern expression")
	}
}

// TestForContextExternalConversions tests contextual requiredness
func TestForContextExternalConversions(t *testing.T) {
	reg, err := testRegistry().Compile()
	if err != nil {
		t.Fatal(err)
	}

	base := reg.RequiredFields(table.CampaignContext{Name: "x"})
	if len(base) != 4 {
		t.Fatalf("default required fields = %v, want 4", base)
	}

	count := int64(993)
	ctx := table.CampaignContext{Name: "x", ExternalConversionCount: &count}
	required := reg.RequiredFields(ctx)
	for _, f := range required {
		if f == Conversions || f == Platform {
			t.Errorf("%s should be optional with external conversions", f)
		}
	}
	hasName, hasRevenue := false, false
	for _, f := range required {
		if f == CampaignName {
			hasName = true
		}
		if f == Revenue {
			hasRevenue = true
		}
	}
	if !hasName || !hasRevenue {
		t.Errorf("campaign_name and revenue must stay required, got %v", required)
	}
}

// TestMappingSetIndexesAppliedOnly tests the confidence floor cut
func TestMappingSetIndexesAppliedOnly(t *testing.T) {
	set := NewMappingSet([]Mapping{
		{SourceColumnIndex: 0, Field: Revenue, Confidence: 0.85, MatchType: MatchAlias},
		{SourceColumnIndex: 1, Field: Platform, Confidence: 0.4, MatchType: MatchDataShape},
	})

	if !set.Has(Revenue) {
		t.Error("revenue mapping at 0.85 should be indexed")
	}
	if set.Has(Platform) {
		t.Error("sub-floor platform mapping should not be indexed")
	}
	if m, ok := set.ByColumn(0); !ok || m.Field != Revenue {
		t.Error("column 0 should resolve to revenue")
	}
	if _, ok := set.ByColumn(1); ok {
		t.Error("column 1 holds only a suggestion")
	}
}
