// Package enrich fills canonical fields that have no mapped column, using
// the campaign context or in-dataset inference. Enrichment only runs for
// fields absent from the mapping and never overwrites a value already
// present in a row.
package enrich

import (
	"strings"
	"time"

	"marketpulse/domain/fields"
	"marketpulse/domain/normalize"
	"marketpulse/domain/report"
	"marketpulse/domain/schema"
	"marketpulse/domain/table"
)

// idColumnTokens flag headers that look like composite identifier columns
var idColumnTokens = []string{"id", "identifier", "ref", "key", "utm"}

// Apply returns enriched clones of the rows plus diagnostics. The input
// rows are never modified.
func Apply(
	rows []normalize.CanonicalRow,
	set fields.MappingSet,
	profile schema.Result,
	raw table.RawTable,
	ctx table.CampaignContext,
) ([]normalize.CanonicalRow, report.Report) {
	var rep report.Report

	out := make([]normalize.CanonicalRow, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}

	if !set.Has(fields.Platform) && strings.TrimSpace(ctx.Platform) != "" {
		platform := normalize.PlatformName(ctx.Platform)
		for i := range out {
			if !out[i].Has(fields.Platform) {
				out[i].Values[fields.Platform] = table.NewTextCell(platform)
			}
		}
	}

	if !set.Has(fields.Date) && profile.Dataset.IsTimeSeries {
		inferDates(out, profile, raw)
	}

	if !set.Has(fields.CampaignName) {
		extractCampaignIdentifiers(out, set, profile, raw)
	}

	if !set.Has(fields.Platform) {
		if advisePossibleMultiPlatform(out, set, profile, raw) {
			rep.Warn(report.PossibleMultiPlatform,
				"no platform column is mapped but repeated campaign names carry distinct identifiers; rows may span platforms")
		}
	}

	return out, rep
}

// inferDates anchors on the first date-typed column, even when that column
// did not map to the date field, and places anchorless rows sequentially
// relative to the nearest anchored row assuming daily cadence. With no
// anchor at all, dates stay null.
func inferDates(rows []normalize.CanonicalRow, profile schema.Result, raw table.RawTable) {
	anchorCol := -1
	for _, col := range profile.Columns {
		if col.InferredType == schema.TypeDate {
			anchorCol = col.Index
			break
		}
	}
	if anchorCol < 0 {
		return
	}

	anchors := make(map[int]time.Time)
	for i := range rows {
		src := rows[i].SourceRowIndex
		if src < 0 || src >= raw.RowCount() {
			continue
		}
		if d, err := normalize.Date(raw.Rows[src][anchorCol]); err == nil {
			anchors[i] = d
		}
	}
	if len(anchors) == 0 {
		return
	}

	for i := range rows {
		if rows[i].Has(fields.Date) {
			continue
		}
		if d, ok := anchors[i]; ok {
			rows[i].Values[fields.Date] = table.NewDateCell(d, raw.Rows[rows[i].SourceRowIndex][anchorCol])
			continue
		}
		// nearest anchored row by index distance
		bestIdx, bestDist := -1, 0
		for idx := range anchors {
			dist := idx - i
			if dist < 0 {
				dist = -dist
			}
			if bestIdx < 0 || dist < bestDist || (dist == bestDist && idx < bestIdx) {
				bestIdx, bestDist = idx, dist
			}
		}
		inferred := anchors[bestIdx].AddDate(0, 0, i-bestIdx)
		rows[i].Values[fields.Date] = table.NewDateCell(inferred, "")
	}
}

// extractCampaignIdentifiers pulls a trailing token out of a composite
// identifier column ("2024-q3-linkedin-test024" -> "test024"). Best
// effort: rows without a recognizable token keep a null campaign name.
func extractCampaignIdentifiers(rows []normalize.CanonicalRow, set fields.MappingSet, profile schema.Result, raw table.RawTable) {
	col := compositeIdentifierColumn(set, profile)
	if col < 0 {
		return
	}
	for i := range rows {
		if rows[i].Has(fields.CampaignName) {
			continue
		}
		src := rows[i].SourceRowIndex
		if src < 0 || src >= raw.RowCount() {
			continue
		}
		token := trailingToken(raw.Rows[src][col])
		if token == "" {
			continue
		}
		rows[i].Values[fields.CampaignName] = table.NewTextCell(normalize.Text(token))
	}
}

// compositeIdentifierColumn finds an unmapped column whose header looks
// like an identifier and whose values contain separators.
func compositeIdentifierColumn(set fields.MappingSet, profile schema.Result) int {
	for _, col := range profile.Columns {
		if _, mapped := set.ByColumn(col.Index); mapped {
			continue
		}
		if col.InferredType != schema.TypeText {
			continue
		}
		name := normalize.Text(col.OriginalName)
		matched := false
		for _, tok := range idColumnTokens {
			for _, word := range strings.Fields(name) {
				if word == tok {
					matched = true
				}
			}
		}
		if !matched {
			continue
		}
		for _, sample := range col.SampleValues {
			if strings.ContainsAny(sample, "-_/|:") {
				return col.Index
			}
		}
	}
	return -1
}

// trailingToken returns the last separator-delimited token of a composite
// identifier
func trailingToken(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == '/' || r == '|' || r == ':'
	})
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[len(parts)-1])
}

// advisePossibleMultiPlatform checks for the pattern of one campaign name
// appearing under several distinct identifiers, which usually means the
// sheet interleaves platforms without a platform column.
func advisePossibleMultiPlatform(rows []normalize.CanonicalRow, set fields.MappingSet, profile schema.Result, raw table.RawTable) bool {
	idCol := compositeIdentifierColumn(set, profile)
	if idCol < 0 {
		return false
	}
	idsByName := map[string]map[string]bool{}
	for _, row := range rows {
		name := row.Get(fields.CampaignName).AsText()
		if name == "" {
			continue
		}
		src := row.SourceRowIndex
		if src < 0 || src >= raw.RowCount() {
			continue
		}
		id := strings.TrimSpace(raw.Rows[src][idCol])
		if id == "" {
			continue
		}
		if idsByName[name] == nil {
			idsByName[name] = map[string]bool{}
		}
		idsByName[name][id] = true
	}
	for _, ids := range idsByName {
		if len(ids) >= 2 {
			return true
		}
	}
	return false
}
