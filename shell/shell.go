package shell

import (
	"context"
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/juruen/homus/config"
	"github.com/juruen/homus/version"
)

type ShellCtxt struct {
	Ctx        context.Context
	Config     config.Config
	JSONOutput bool

	// err is the failure of the last command, reported as the exit status
	// in non-interactive mode.
	err error
}

// UsageError reports a command line that could not be used.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return "usage: " + e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func NewShellCtxt(ctx context.Context, cfg config.Config) *ShellCtxt {
	return &ShellCtxt{Ctx: ctx, Config: cfg}
}

func (ctx *ShellCtxt) prompt() string {
	return fmt.Sprintf("[homus %s]>", ctx.Config.Dataset)
}

// fail prints err and records it as the command outcome.
func (ctx *ShellCtxt) fail(c *ishell.Context, err error) {
	ctx.err = err
	c.Err(err)
}

// Err returns the failure of the last command run.
func (ctx *ShellCtxt) Err() error {
	return ctx.err
}

func newShell(ctx *ShellCtxt) *ishell.Shell {
	shell := ishell.New()
	shell.SetPrompt(ctx.prompt())

	shell.AddCmd(fetchCmd(ctx))
	shell.AddCmd(renderCmd(ctx))
	shell.AddCmd(runCmd(ctx))
	shell.AddCmd(datasetsCmd(ctx))
	shell.AddCmd(labelsCmd(ctx))
	shell.AddCmd(previewCmd(ctx))
	shell.AddCmd(configCmd(ctx))
	shell.AddCmd(versionCmd(ctx))

	return shell
}

// RunShell executes args as a single command, or starts an interactive
// session when args is empty.
func RunShell(ctx *ShellCtxt, args []string) error {
	shell := newShell(ctx)

	if len(args) > 0 {
		ctx.err = nil
		if err := shell.Process(args...); err != nil {
			return &UsageError{Err: err}
		}
		return ctx.err
	}

	shell.Printf("HOMUS dataset shell, dataset: %s, version: %s\n", ctx.Config.Dataset, version.Version)
	shell.Run()
	return nil
}

func versionCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "version",
		Help: "show version",
		Func: func(c *ishell.Context) {
			c.Println(version.Version)
		},
	}
}
