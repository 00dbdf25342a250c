package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pmatos/pog/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	port := flag.Int("port", 0, "control server base port (optional, defaults to 9876)")
	noServer := flag.Bool("no-server", false, "disable the control server")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: pog [flags] <file | host:/path/to/file>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		Path:       flag.Arg(0),
		ConfigPath: *configPath,
		Port:       *port,
		NoServer:   *noServer,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "pog: %v\n", err)
		return 1
	}
	return 0
}
