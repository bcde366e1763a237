package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/inonjs/ignite/cmd/ignite/commands"
	"github.com/inonjs/ignite/internal/foundation/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := &commands.CLI{}
	global := &commands.Global{Logger: slog.Default(), Ctx: ctx}
	parser := kong.Parse(cli,
		kong.Name("ignite"),
		kong.Description("Resolve markdown page graphs, search indexes and blog metadata for the renderer."),
		kong.UsageOnError(),
		kong.Bind(global),
	)

	if err := parser.Run(global, cli); err != nil {
		stop()
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
