package testkit

import (
	"fmt"
	"math/rand"

	"marketpulse/domain/table"
)

// MultiPlatformExport is a typical cross-platform report: mixed platforms,
// currency symbols in revenue, ISO dates.
func MultiPlatformExport() table.RawTable {
	return table.NewRawTableFromStrings(
		[]string{"Campaign Name", "Platform", "Revenue", "Conversions", "Date"},
		[][]string{
			{"Spring Sale", "LinkedIn", "$12,000.00", "300", "2026-03-01"},
			{"Spring Sale", "Facebook", "$5,000.00", "200", "2026-03-01"},
			{"Spring Sale", "LinkedIn", "$12,000.00", "310", "2026-03-02"},
			{"Brand Push", "Google Ads", "$7,250.50", "95", "2026-03-01"},
		},
	)
}

// SinglePlatformExport has no platform column at all
func SinglePlatformExport() table.RawTable {
	return table.NewRawTableFromStrings(
		[]string{"campaign", "revenue", "conversions"},
		[][]string{
			{"Spring Sale", "15000.00", "400"},
			{"Spring Sale", "14000.00", "380"},
			{"Other Campaign", "9000.00", "120"},
		},
	)
}

// MessyHeadersExport uses nonstandard header spellings that only alias
// and pattern matching can resolve.
func MessyHeadersExport() table.RawTable {
	return table.NewRawTableFromStrings(
		[]string{"utm_campaign", "Deal Value", "conv.", "src"},
		[][]string{
			{"Spring Sale", "$5,000.00", "50", "linkedin"},
			{"Spring Sale", "$3,000.00", "30", "facebook"},
		},
	)
}

// SyntheticExport generates n rows of plausible campaign data across the
// given platforms, deterministic for a fixed seed.
func SyntheticExport(n int, seed int64, platforms ...string) table.RawTable {
	if len(platforms) == 0 {
		platforms = []string{"linkedin", "facebook", "google"}
	}
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		platform := platforms[rng.Intn(len(platforms))]
		revenue := fmt.Sprintf("%d.%02d", 500+rng.Intn(20000), rng.Intn(100))
		conversions := fmt.Sprintf("%d", 1+rng.Intn(500))
		day := 1 + rng.Intn(28)
		rows = append(rows, []string{
			fmt.Sprintf("Campaign %d", 1+rng.Intn(5)),
			platform,
			revenue,
			conversions,
			fmt.Sprintf("2026-03-%02d", day),
		})
	}
	return table.NewRawTableFromStrings(
		[]string{"campaign_name", "platform", "revenue", "conversions", "date"},
		rows,
	)
}
