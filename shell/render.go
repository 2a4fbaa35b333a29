package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/juruen/homus/raster"
)

// parseInts reads a comma separated list; an empty string gives nil.
func parseInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		out = append(out, n)
	}
	return out, nil
}

func formatInts(v []int) string {
	s := make([]string, len(v))
	for i, n := range v {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, ",")
}

// renderFlags registers the raster options on flagSet and returns a
// function applying them on top of base.
func renderFlags(flagSet *flag.FlagSet, base raster.Config) func() (raster.Config, error) {
	thicknesses := flagSet.StringP("thickness", "t", formatInts(base.StrokeThicknesses), "stroke thicknesses, comma separated")
	width := flagSet.Int("width", base.CanvasWidth, "canvas width")
	height := flagSet.Int("height", base.CanvasHeight, "canvas height")
	spacing := flagSet.Int("spacing", base.StaffLineSpacing, "staff line spacing")
	offsets := flagSet.String("offsets", formatInts(base.StaffLineVerticalOffsets), "staff vertical offsets, comma separated")
	format := flagSet.StringP("format", "f", string(base.Format), "image format: png, bmp or tiff")
	workers := flagSet.IntP("workers", "j", base.Workers, "parallel workers")
	supersample := flagSet.Int("supersample", base.Supersample, "supersampling factor")
	random := flagSet.Bool("random", base.RandomPosition, "random symbol position")
	seed := flagSet.Int64("seed", base.Seed, "seed for random positions")
	boxes := flagSet.Bool("boxes", base.BoundingBoxes, "write bounding boxes")

	return func() (raster.Config, error) {
		cfg := base
		var err error
		if cfg.StrokeThicknesses, err = parseInts(*thicknesses); err != nil {
			return cfg, err
		}
		if cfg.StaffLineVerticalOffsets, err = parseInts(*offsets); err != nil {
			return cfg, err
		}
		cfg.CanvasWidth = *width
		cfg.CanvasHeight = *height
		cfg.StaffLineSpacing = *spacing
		cfg.Format = raster.Format(strings.ToLower(*format))
		cfg.Workers = *workers
		cfg.Supersample = *supersample
		cfg.RandomPosition = *random
		cfg.Seed = *seed
		cfg.BoundingBoxes = *boxes
		return cfg, cfg.Validate()
	}
}

func renderCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "render",
		Help:      "render raw records into images: render [flags] [raw_dir] [output_dir]",
		Completer: createFsEntryCompleter(),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("render", flag.ContinueOnError)
			build := renderFlags(flagSet, ctx.Config.Render)
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					ctx.fail(c, &UsageError{Err: err})
				}
				return
			}

			cfg, err := build()
			if err != nil {
				ctx.fail(c, &UsageError{Err: err})
				return
			}

			rawDir, destDir := ctx.Config.RawDir, ctx.Config.OutputDir
			if flagSet.NArg() > 0 {
				rawDir = flagSet.Arg(0)
			}
			if flagSet.NArg() > 1 {
				destDir = flagSet.Arg(1)
			}

			c.Println(fmt.Sprintf("rendering: [%s] into [%s]...", rawDir, destDir))
			report, err := raster.Rasterize(ctx.Ctx, rawDir, destDir, cfg)
			if err != nil {
				ctx.fail(c, err)
				return
			}
			printReport(c, report)
		},
	}
}

func printReport(c *ishell.Context, r raster.Report) {
	c.Println(fmt.Sprintf("OK, %d records, %d images written, %d skipped", r.Records, r.Written, r.Skipped))
	for _, path := range r.SkippedRecords {
		c.Println("  skipped: " + path)
	}
}
