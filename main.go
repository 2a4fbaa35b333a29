package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/juruen/homus/config"
	"github.com/juruen/homus/fetch"
	"github.com/juruen/homus/log"
	"github.com/juruen/homus/raster"
	"github.com/juruen/homus/shell"
	"github.com/juruen/homus/version"
)

const (
	exitOK = iota
	exitInternal
	exitUsage
	exitNetwork
	exitExtraction
	exitIO
)

// exitCode maps a command failure to the process exit status.
func exitCode(err error) int {
	var netErr *fetch.NetworkError
	var extErr *fetch.ExtractionError
	var ioErr *raster.IOError
	var usageErr *shell.UsageError

	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &usageErr):
		return exitUsage
	case errors.As(err, &netErr):
		return exitNetwork
	case errors.As(err, &extErr):
		return exitExtraction
	case errors.As(err, &ioErr):
		return exitIO
	default:
		return exitInternal
	}
}

func main() {
	configPath := flag.String("config", "", "config file, defaults to $HOMUS_CONFIG or ./homus.yaml")
	layout := flag.String("layout", "", "directory layout: default or labeled")
	dataset := flag.String("dataset", "", "dataset id, overrides the config")
	jsonOutput := flag.Bool("json", false, "JSON output where supported")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Version)
		return
	}

	log.InitLog()

	cfg, err := config.LoadDefault(*configPath)
	if err != nil {
		log.Error.Println(err)
		os.Exit(exitUsage)
	}
	if *layout != "" {
		if err := cfg.ApplyLayout(*layout); err != nil {
			log.Error.Println(err)
			os.Exit(exitUsage)
		}
	}
	if *dataset != "" {
		cfg.Dataset = *dataset
	}
	if err := cfg.Validate(); err != nil {
		log.Error.Println(err)
		os.Exit(exitUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shellCtx := shell.NewShellCtxt(ctx, cfg)
	shellCtx.JSONOutput = *jsonOutput

	if err := shell.RunShell(shellCtx, flag.Args()); err != nil {
		stop()
		os.Exit(exitCode(err))
	}
}
