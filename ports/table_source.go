package ports

import (
	"context"

	"marketpulse/domain/core"
	"marketpulse/domain/table"
)

// TableSource supplies the raw tabular payload for one integration. All
// I/O happens behind this port, strictly before the pipeline runs; the
// pipeline itself never fetches anything.
type TableSource interface {
	Fetch(ctx context.Context, integration core.IntegrationID) (table.RawTable, error)
}
