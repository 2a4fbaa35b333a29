package shell

import (
	"fmt"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/juruen/homus/pipeline"
)

func runCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "run",
		Help: "fetch the dataset and render it",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("run", flag.ContinueOnError)
			skip := flagSet.Bool("skip-fetch", ctx.Config.Fetch.Skip, "render the existing raw dir")
			build := renderFlags(flagSet, ctx.Config.Render)
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					ctx.fail(c, &UsageError{Err: err})
				}
				return
			}

			cfg := ctx.Config
			render, err := build()
			if err != nil {
				ctx.fail(c, &UsageError{Err: err})
				return
			}
			cfg.Render = render
			cfg.Fetch.Skip = *skip

			report, err := pipeline.Run(ctx.Ctx, cfg)
			if err != nil {
				ctx.fail(c, err)
				return
			}
			c.Println(fmt.Sprintf("run %s", report.RunID))
			printReport(c, report.Report)
		},
	}
}
