// Package selector filters normalized rows down to the target campaign.
// Campaign identity is exact-after-normalization equality; partial or
// substring matching is deliberately absent so "test2" never claims rows
// belonging to "test22".
package selector

import (
	"strings"

	"marketpulse/domain/fields"
	"marketpulse/domain/mapping"
	"marketpulse/domain/normalize"
	"marketpulse/domain/report"
	"marketpulse/domain/schema"
	"marketpulse/domain/table"
)

// MatchMethod names the filter combination that produced the selection
type MatchMethod string

const (
	MethodName            MatchMethod = "name"
	MethodNameAndPlatform MatchMethod = "name+platform"
)

// FilterReport summarizes what the selector did, for caller diagnostics
type FilterReport struct {
	TotalRows   int         `json:"total_rows"`
	MatchedRows int         `json:"matched_rows"`
	MatchMethod MatchMethod `json:"match_method"`
}

// Select returns the rows belonging to the campaign in context. The
// platform filter only engages when a platform column exists (mapped or
// enriched) and the dataset actually spans multiple platforms; otherwise
// the single-platform assumption lets all name-matched rows through.
func Select(
	rows []normalize.CanonicalRow,
	raw table.RawTable,
	match mapping.Result,
	profile schema.Result,
	ctx table.CampaignContext,
) ([]normalize.CanonicalRow, FilterReport, report.Report) {
	var rep report.Report

	wantName := nameKey(ctx.Name)
	wantPlatform := ""
	if strings.TrimSpace(ctx.Platform) != "" {
		wantPlatform = normalize.PlatformName(ctx.Platform)
	}

	platformColumn, platformConfidence := platformSource(match)
	filterByPlatform := wantPlatform != "" && platformColumn >= 0 && profile.Dataset.IsMultiPlatform

	method := MethodName
	if filterByPlatform {
		method = MethodNameAndPlatform
		if platformConfidence < fields.ConfidenceFloor {
			rep.WarnField(report.LowConfidencePlatformFilter, string(fields.Platform),
				"platform filter uses a mapping with confidence %.2f, below the %.1f floor",
				platformConfidence, fields.ConfidenceFloor)
		}
	}

	var selected []normalize.CanonicalRow
	for _, row := range rows {
		name := row.Get(fields.CampaignName).AsText()
		if name == "" || nameKey(name) != wantName {
			continue
		}
		if filterByPlatform && !platformMatches(row, raw, platformColumn, wantPlatform) {
			continue
		}
		selected = append(selected, row.Clone())
	}

	fr := FilterReport{
		TotalRows:   len(rows),
		MatchedRows: len(selected),
		MatchMethod: method,
	}
	if len(rows) > 0 && len(selected) == 0 {
		rep.Warn(report.NoMatchingRows,
			"0 of %d rows matched campaign %q via %s filtering; check the campaign name and platform",
			fr.TotalRows, ctx.Name, fr.MatchMethod)
	}
	return selected, fr, rep
}

// nameKey reduces a campaign name to its identity form: normalized text
// with internal spaces removed, so "Test 024" and "test024" coincide
// while "test0245" stays distinct.
func nameKey(s string) string {
	return strings.ReplaceAll(normalize.Text(s), " ", "")
}

// platformSource locates the column used for platform filtering: the
// applied mapping when present, else a sub-floor suggestion (which the
// selector still honors, with a warning). Returns -1 when no platform
// column exists at all.
func platformSource(match mapping.Result) (int, float64) {
	for _, m := range match.Mappings {
		if m.Field == fields.Platform {
			return m.SourceColumnIndex, m.Confidence
		}
	}
	for _, m := range match.Suggestions {
		if m.Field == fields.Platform {
			return m.SourceColumnIndex, m.Confidence
		}
	}
	return -1, 0
}

// platformMatches compares the row's platform against the wanted canonical
// code, falling back to the raw column when the row carries no normalized
// platform cell (sub-floor mapping case).
func platformMatches(row normalize.CanonicalRow, raw table.RawTable, column int, want string) bool {
	if cell := row.Get(fields.Platform); cell.HasValue() {
		return cell.AsText() == want
	}
	src := row.SourceRowIndex
	if src < 0 || src >= raw.RowCount() || column >= len(raw.Rows[src]) {
		return false
	}
	return normalize.PlatformName(raw.Rows[src][column]) == want
}
