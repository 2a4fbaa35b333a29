package shell

import (
	"encoding/json"
	"sort"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/juruen/homus/log"
	"github.com/juruen/homus/raster"
)

type LabelJSON struct {
	Label   string `json:"label"`
	Records int    `json:"records"`
	Strokes int    `json:"strokes"`
	Points  int    `json:"points"`
}

// collectLabels groups the well formed records under rawDir by label.
// The second result counts the malformed ones.
func collectLabels(rawDir string) ([]LabelJSON, int, error) {
	records, err := raster.FindRecords(rawDir)
	if err != nil {
		return nil, 0, err
	}

	byLabel := make(map[string]*LabelJSON)
	malformed := 0
	for _, rec := range records {
		s, err := raster.LoadRecord(rec.Path)
		if err != nil {
			log.Trace.Println(err)
			malformed++
			continue
		}
		l, ok := byLabel[s.Label]
		if !ok {
			l = &LabelJSON{Label: s.Label}
			byLabel[s.Label] = l
		}
		l.Records++
		l.Strokes += len(s.Strokes)
		l.Points += s.NumPoints()
	}

	labels := make([]LabelJSON, 0, len(byLabel))
	for _, l := range byLabel {
		labels = append(labels, *l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].Label < labels[j].Label })
	return labels, malformed, nil
}

func labelsCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "labels",
		Help:      "count records per label: labels [--json] [raw_dir]",
		Aliases:   []string{"stats"},
		Completer: createFsEntryCompleter(),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("labels", flag.ContinueOnError)
			jsonOutput := flagSet.Bool("json", ctx.JSONOutput, "output in JSON format")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					ctx.fail(c, &UsageError{Err: err})
				}
				return
			}

			rawDir := ctx.Config.RawDir
			if flagSet.NArg() > 0 {
				rawDir = flagSet.Arg(0)
			}

			labels, malformed, err := collectLabels(rawDir)
			if err != nil {
				ctx.fail(c, err)
				return
			}

			if *jsonOutput {
				output, err := json.MarshalIndent(labels, "", "  ")
				if err != nil {
					ctx.fail(c, err)
					return
				}
				c.Println(string(output))
				return
			}

			total := 0
			for _, l := range labels {
				c.Printf("%-24s %6d\n", l.Label, l.Records)
				total += l.Records
			}
			c.Printf("%d labels, %d records, %d malformed\n", len(labels), total, malformed)
		},
	}
}
