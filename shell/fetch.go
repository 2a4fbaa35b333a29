package shell

import (
	"fmt"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/juruen/homus/fetch"
)

func datasetIDs() []string {
	return fetch.IDs()
}

func fetchCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "fetch",
		Help:      "download and extract a dataset: fetch [-d dataset] [-u url] [dest]",
		Completer: createFetchCompleter(),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("fetch", flag.ContinueOnError)
			dataset := flagSet.StringP("dataset", "d", ctx.Config.Dataset, "dataset id")
			url := flagSet.StringP("url", "u", ctx.Config.Fetch.URL, "download from this url instead")
			cacheDir := flagSet.String("cache", ctx.Config.Fetch.CacheDir, "archive cache dir, \"user\" for the user cache")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					ctx.fail(c, &UsageError{Err: err})
				}
				return
			}

			dest := ctx.Config.RawDir
			if flagSet.NArg() > 0 {
				dest = flagSet.Arg(0)
			}

			opts := ctx.Config.Fetch.Options()
			opts.URL = *url
			opts.CacheDir = *cacheDir

			c.Println(fmt.Sprintf("fetching: [%s] into [%s]...", *dataset, dest))
			root, err := fetch.New(opts).Fetch(ctx.Ctx, *dataset, dest)
			if err != nil {
				ctx.fail(c, err)
				return
			}
			c.Println(fmt.Sprintf("OK, raw records in %s", root))
		},
	}
}

// datasetLines lists the registered datasets, marking the one selected
// by current.
func datasetLines(current string) []string {
	selected, _ := fetch.Lookup(current)

	var lines []string
	for _, id := range fetch.IDs() {
		ds, _ := fetch.Lookup(id)
		marker := " "
		if id == selected.ID {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %s\t%s", marker, ds.ID, ds.URL))
	}
	return lines
}

func datasetsCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "datasets",
		Help: "list known datasets",
		Func: func(c *ishell.Context) {
			for _, line := range datasetLines(ctx.Config.Dataset) {
				c.Println(line)
			}
		},
	}
}
