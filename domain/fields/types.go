package fields

import (
	"fmt"
	"regexp"

	"marketpulse/domain/core"
	"marketpulse/domain/table"
)

// Field enumerates the canonical target attributes all column mappings
// resolve to. The set is fixed; aliases and patterns evolve through the
// registry, not through code.
type Field string

const (
	CampaignName Field = "campaign_name"
	Platform     Field = "platform"
	Revenue      Field = "revenue"
	Conversions  Field = "conversions"
	Date         Field = "date"
	Spend        Field = "spend"
	Impressions  Field = "impressions"
	Clicks       Field = "clicks"
)

// All returns every canonical field in registry order
func All() []Field {
	return []Field{CampaignName, Platform, Revenue, Conversions, Date, Spend, Impressions, Clicks}
}

// SemanticType is the value type a canonical field expects after
// normalization
type SemanticType string

const (
	SemanticText     SemanticType = "text"
	SemanticCurrency SemanticType = "currency"
	SemanticInteger  SemanticType = "integer"
	SemanticDate     SemanticType = "date"
	SemanticPlatform SemanticType = "platform"
)

// MatchType records which matcher layer produced a mapping
type MatchType string

const (
	MatchExact      MatchType = "exact"
	MatchAlias      MatchType = "alias"
	MatchNormalized MatchType = "normalized"
	MatchPattern    MatchType = "pattern"
	MatchDataShape  MatchType = "data-shape"
)

// PatternSpec is a field-detection expression with its own confidence.
// Anchored whole-word patterns carry higher confidence than loose
// containment ones.
type PatternSpec struct {
	Expr       string  `json:"expr"`
	Confidence float64 `json:"confidence"`

	compiled *regexp.Regexp
}

// Matches reports whether a normalized column name matches the pattern
func (p PatternSpec) Matches(name string) bool {
	if p.compiled == nil {
		return false
	}
	return p.compiled.MatchString(name)
}

// FieldSpec declares how one canonical field is detected
type FieldSpec struct {
	Field    Field         `json:"field"`
	Type     SemanticType  `json:"type"`
	Required bool          `json:"required"`
	Aliases  []string      `json:"aliases"`
	Patterns []PatternSpec `json:"patterns"`
}

// Registry is the versioned, immutable canonical-field configuration. It
// is loaded once and never mutated at runtime.
type Registry struct {
	Version string      `json:"version"`
	Specs   []FieldSpec `json:"specs"`
}

// Compile validates the registry and compiles its pattern expressions.
// Returns a new registry; the receiver is not modified.
func (r Registry) Compile() (Registry, error) {
	if len(r.Specs) == 0 {
		return Registry{}, core.ErrEmptyRegistry
	}
	out := Registry{Version: r.Version, Specs: make([]FieldSpec, len(r.Specs))}
	seen := map[Field]bool{}
	for i, spec := range r.Specs {
		if seen[spec.Field] {
			return Registry{}, fmt.Errorf("duplicate registry entry for field %s", spec.Field)
		}
		seen[spec.Field] = true
		compiled := spec
		compiled.Patterns = make([]PatternSpec, len(spec.Patterns))
		for j, p := range spec.Patterns {
			re, err := regexp.Compile(p.Expr)
			if err != nil {
				return Registry{}, fmt.Errorf("field %s pattern %q: %w", spec.Field, p.Expr, err)
			}
			p.compiled = re
			compiled.Patterns[j] = p
		}
		out.Specs[i] = compiled
	}
	return out, nil
}

// Spec returns the spec for a field, if registered
func (r Registry) Spec(f Field) (FieldSpec, bool) {
	for _, spec := range r.Specs {
		if spec.Field == f {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// ForContext returns the specs with requiredness adjusted for the campaign
// context: an externally supplied conversion count makes conversions and
// platform optional. Campaign name and revenue stay required regardless.
func (r Registry) ForContext(ctx table.CampaignContext) []FieldSpec {
	out := make([]FieldSpec, len(r.Specs))
	copy(out, r.Specs)
	if ctx.HasExternalConversions() {
		for i := range out {
			if out[i].Field == Conversions || out[i].Field == Platform {
				out[i].Required = false
			}
		}
	}
	return out
}

// RequiredFields returns the fields required under the given context
func (r Registry) RequiredFields(ctx table.CampaignContext) []Field {
	var out []Field
	for _, spec := range r.ForContext(ctx) {
		if spec.Required {
			out = append(out, spec.Field)
		}
	}
	return out
}
