// Package mapping resolves raw columns to canonical fields through layered
// matching: exact name, curated alias, normalized name, field pattern, and
// finally data shape. Assignment is one-pass greedy with explicit tie
// reporting; the small fixed field set does not need a bipartite solver.
package mapping

import (
	"sort"
	"strings"
	"unicode"

	"marketpulse/domain/fields"
	"marketpulse/domain/report"
	"marketpulse/domain/schema"
	"marketpulse/domain/table"
)

// Layer confidences. Pattern confidence comes from the registry entry.
const (
	confidenceExact      = 1.0
	confidenceAlias      = 0.9
	confidenceNormalized = 0.85
	confidenceDataShape  = 0.5
	confidenceWeakShape  = 0.4 // type fits but sample values do not; suggestion only
)

// Result is the matcher output: applied mappings, sub-floor suggestions,
// and what could not be matched.
type Result struct {
	Mappings                []fields.Mapping `json:"mappings"`
	Suggestions             []fields.Mapping `json:"suggestions"`
	UnmatchedColumns        []int            `json:"unmatched_columns"`
	UnmatchedRequiredFields []fields.Field   `json:"unmatched_required_fields"`
	Report                  report.Report    `json:"report"`
}

// Match maps columns to canonical fields for the given campaign context.
// It always returns a result; a required field without an acceptable
// candidate is reported, not raised.
func Match(profile schema.Result, registry fields.Registry, ctx table.CampaignContext) Result {
	var res Result
	specs := registry.ForContext(ctx)

	usedColumns := map[int]bool{}
	mappedFields := map[fields.Field]bool{}

	layers := []func(fields.FieldSpec, schema.ColumnProfile) (float64, fields.MatchType, bool){
		matchExact,
		matchAlias,
		matchNormalized,
		matchPattern,
		matchDataShape,
	}

	for _, layer := range layers {
		for _, spec := range specs {
			if mappedFields[spec.Field] {
				continue
			}
			candidates := collectCandidates(layer, spec, profile.Columns, usedColumns)
			if len(candidates) == 0 {
				continue
			}
			best := candidates[0]
			if len(candidates) > 1 && candidates[1].confidence == best.confidence &&
				best.confidence >= fields.ConfidenceFloor {
				res.Report.WarnField(report.AmbiguousMapping, string(spec.Field),
					"columns %q and %q tie at %.2f for %s; using %q",
					best.column.OriginalName, candidates[1].column.OriginalName,
					best.confidence, spec.Field, best.column.OriginalName)
			}

			m := fields.Mapping{
				SourceColumnIndex: best.column.Index,
				SourceColumnName:  best.column.OriginalName,
				Field:             spec.Field,
				Confidence:        best.confidence,
				MatchType:         best.matchType,
			}
			if !m.Applied() {
				res.Suggestions = append(res.Suggestions, m)
				continue
			}
			res.Mappings = append(res.Mappings, m)
			usedColumns[best.column.Index] = true
			mappedFields[spec.Field] = true
		}
	}

	for _, col := range profile.Columns {
		if !usedColumns[col.Index] {
			res.UnmatchedColumns = append(res.UnmatchedColumns, col.Index)
		}
	}
	for _, spec := range specs {
		if spec.Required && !mappedFields[spec.Field] {
			res.UnmatchedRequiredFields = append(res.UnmatchedRequiredFields, spec.Field)
			res.Report.Fail(report.MissingRequiredField, string(spec.Field),
				"no column maps to required field %s with confidence >= %.1f",
				spec.Field, fields.ConfidenceFloor)
		}
	}

	// Deterministic output order regardless of layer interleaving
	sort.Slice(res.Mappings, func(i, j int) bool {
		return res.Mappings[i].SourceColumnIndex < res.Mappings[j].SourceColumnIndex
	})
	return res
}

type candidate struct {
	column     schema.ColumnProfile
	confidence float64
	matchType  fields.MatchType
}

// collectCandidates evaluates one layer for one field over the columns
// still in candidacy, ordered best-first with column index as the
// deterministic tie-break.
func collectCandidates(
	layer func(fields.FieldSpec, schema.ColumnProfile) (float64, fields.MatchType, bool),
	spec fields.FieldSpec,
	columns []schema.ColumnProfile,
	used map[int]bool,
) []candidate {
	var out []candidate
	for _, col := range columns {
		if used[col.Index] {
			continue
		}
		if conf, mt, ok := layer(spec, col); ok {
			out = append(out, candidate{column: col, confidence: conf, matchType: mt})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].confidence != out[j].confidence {
			return out[i].confidence > out[j].confidence
		}
		return out[i].column.Index < out[j].column.Index
	})
	return out
}

func matchExact(spec fields.FieldSpec, col schema.ColumnProfile) (float64, fields.MatchType, bool) {
	if strings.EqualFold(strings.TrimSpace(col.OriginalName), string(spec.Field)) {
		return confidenceExact, fields.MatchExact, true
	}
	return 0, "", false
}

func matchAlias(spec fields.FieldSpec, col schema.ColumnProfile) (float64, fields.MatchType, bool) {
	name := NormalizeHeader(col.OriginalName)
	for _, alias := range spec.Aliases {
		if name == NormalizeHeader(alias) {
			return confidenceAlias, fields.MatchAlias, true
		}
	}
	return 0, "", false
}

func matchNormalized(spec fields.FieldSpec, col schema.ColumnProfile) (float64, fields.MatchType, bool) {
	name := NormalizeHeader(col.OriginalName)
	canonical := NormalizeHeader(string(spec.Field))
	if name == canonical || squash(name) == squash(canonical) {
		return confidenceNormalized, fields.MatchNormalized, true
	}
	return 0, "", false
}

func matchPattern(spec fields.FieldSpec, col schema.ColumnProfile) (float64, fields.MatchType, bool) {
	name := NormalizeHeader(col.OriginalName)
	best := 0.0
	for _, p := range spec.Patterns {
		if p.Matches(name) && p.Confidence > best {
			best = p.Confidence
		}
	}
	if best > 0 {
		return best, fields.MatchPattern, true
	}
	return 0, "", false
}

// matchDataShape admits a column purely on its inferred type and sample
// values. Text fields are excluded: any text column would qualify, which
// is exactly the false positive this layer must not produce.
func matchDataShape(spec fields.FieldSpec, col schema.ColumnProfile) (float64, fields.MatchType, bool) {
	if !shapeCompatible(spec.Type, col.InferredType) {
		return 0, "", false
	}
	if valuesFitField(spec, col) {
		return confidenceDataShape, fields.MatchDataShape, true
	}
	return confidenceWeakShape, fields.MatchDataShape, true
}

func shapeCompatible(semantic fields.SemanticType, inferred schema.ColumnType) bool {
	switch semantic {
	case fields.SemanticCurrency:
		return inferred == schema.TypeCurrency || inferred == schema.TypeDecimal || inferred == schema.TypeInteger
	case fields.SemanticInteger:
		return inferred == schema.TypeInteger
	case fields.SemanticDate:
		return inferred == schema.TypeDate
	default:
		return false
	}
}

// valuesFitField checks sample values against known ranges for the field's
// semantic type: monetary values are positive with cent precision, counts
// are non-negative.
func valuesFitField(spec fields.FieldSpec, col schema.ColumnProfile) bool {
	if col.Numeric == nil {
		return spec.Type == fields.SemanticDate
	}
	switch spec.Type {
	case fields.SemanticCurrency:
		return col.Numeric.Min >= 0
	case fields.SemanticInteger:
		return col.Numeric.Min >= 0 && col.Numeric.Max == float64(int64(col.Numeric.Max))
	default:
		return true
	}
}

// NormalizeHeader canonicalizes a column name for comparison: camel-case
// boundaries become spaces, punctuation and separators become spaces,
// everything lowercases and whitespace collapses.
func NormalizeHeader(name string) string {
	var b strings.Builder
	runes := []rune(strings.TrimSpace(name))
	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				b.WriteRune(' ')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	out := b.String()
	for strings.Contains(out, "  ") {
		out = strings.ReplaceAll(out, "  ", " ")
	}
	return strings.TrimSpace(out)
}

func squash(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
