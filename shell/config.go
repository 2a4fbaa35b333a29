package shell

import (
	"io/ioutil"

	"github.com/abiosoft/ishell"
	flag "github.com/ogier/pflag"
)

func configCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "config",
		Help: "print the effective configuration as YAML: config [-w file]",
		Func: func(c *ishell.Context) {
			flagSet := flag.NewFlagSet("config", flag.ContinueOnError)
			write := flagSet.StringP("write", "w", "", "write to file instead of printing")
			if err := flagSet.Parse(c.Args); err != nil {
				if err != flag.ErrHelp {
					ctx.fail(c, &UsageError{Err: err})
				}
				return
			}

			data, err := ctx.Config.Marshal()
			if err != nil {
				ctx.fail(c, err)
				return
			}

			if *write == "" {
				c.Print(string(data))
				return
			}
			if err := ioutil.WriteFile(*write, data, 0644); err != nil {
				ctx.fail(c, err)
				return
			}
			c.Println("OK")
		},
	}
}
