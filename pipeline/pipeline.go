// Package pipeline runs the fetch stage followed by the raster stage.
package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/juruen/homus/config"
	"github.com/juruen/homus/fetch"
	"github.com/juruen/homus/log"
	"github.com/juruen/homus/raster"
)

// Report is the outcome of a complete run.
type Report struct {
	RunID   string
	RawRoot string
	raster.Report
}

// Run fetches the dataset into cfg.RawDir and renders it into
// cfg.OutputDir. A fetch failure returns before the output dir is touched.
func Run(ctx context.Context, cfg config.Config) (Report, error) {
	report := Report{RunID: uuid.New().String(), RawRoot: cfg.RawDir}

	if err := cfg.Validate(); err != nil {
		return report, err
	}

	log.Trace.Printf("run %s: %+v", report.RunID, cfg)

	if cfg.Fetch.Skip {
		log.Info.Printf("skipping fetch, using %s", cfg.RawDir)
	} else {
		root, err := fetch.New(cfg.Fetch.Options()).Fetch(ctx, cfg.Dataset, cfg.RawDir)
		if err != nil {
			return report, err
		}
		report.RawRoot = root
	}

	r, err := raster.Rasterize(ctx, report.RawRoot, cfg.OutputDir, cfg.Render)
	report.Report = r
	return report, err
}
