package shell

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"

	"github.com/juruen/homus/preview"
)

func previewCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name:      "preview",
		Help:      "draw a raw record as vector PDF: preview [--label] record.txt [out.pdf]",
		Completer: createFsEntryCompleter(),
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("preview", flag.ContinueOnError)
			label := flagSet.Bool("label", false, "print the label under the symbol")
			width := flagSet.Float64("line-width", 0, "stroke width in points, 0 for the default")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					ctx.fail(c, &UsageError{Err: err})
				}
				return
			}

			if flagSet.NArg() == 0 {
				ctx.fail(c, &UsageError{Err: errors.New("missing record file")})
				return
			}

			src := flagSet.Arg(0)
			out := strings.TrimSuffix(src, filepath.Ext(src)) + ".pdf"
			if flagSet.NArg() > 1 {
				out = flagSet.Arg(1)
			}

			gen := preview.CreatePdfGenerator(src, out, preview.PdfGeneratorOptions{
				LineWidth: *width,
				AddLabel:  *label,
			})
			if err := gen.Generate(); err != nil {
				ctx.fail(c, err)
				return
			}
			c.Println(fmt.Sprintf("OK, wrote %s", out))
		},
	}
}
