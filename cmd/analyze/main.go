package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"marketpulse/adapters/registry"
	"marketpulse/adapters/tabular"
	"marketpulse/app"
	"marketpulse/domain/schema"
	"marketpulse/domain/table"
)

// analyze runs the pipeline over one CSV or Excel export and prints the
// full result as JSON. Useful for inspecting how a file maps before
// wiring it up as an integration.
func main() {
	var (
		file         = flag.String("file", "", "path to a .csv or .xlsx export (required)")
		campaign     = flag.String("campaign", "", "campaign name to select rows for (required)")
		platform     = flag.String("platform", "", "campaign platform, e.g. linkedin")
		conversions  = flag.Int64("conversions", -1, "external conversion count; -1 means none")
		registryFile = flag.String("registry", "", "field registry override file")
	)
	flag.Parse()

	if *file == "" || *campaign == "" {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := tabular.NewReader(*file).Read()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", *file, err)
		os.Exit(1)
	}

	reg, err := registry.Load(*registryFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load field registry: %v\n", err)
		os.Exit(1)
	}

	pipeline, err := app.NewPipelineService(reg, schema.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx := table.CampaignContext{Name: *campaign, Platform: *platform}
	if *conversions >= 0 {
		ctx.ExternalConversionCount = conversions
	}

	result := pipeline.Analyze(raw, ctx)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
		os.Exit(1)
	}

	if len(result.Report.Errors) > 0 {
		os.Exit(1)
	}
}
