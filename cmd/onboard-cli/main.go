// Command onboard-cli runs, previews and lints onboarding flow definitions.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"

	"github.com/goliatone/go-onboard/pkg/renderers/tui"
)

// Version is set at build time.
var Version = "dev"

// env carries the process surface so commands can be exercised in tests.
type env struct {
	stdout io.Writer
	stderr io.Writer
	driver tui.PromptDriver
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := newApp(env{stdout: os.Stdout, stderr: os.Stderr})
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(e env) *cli.App {
	return &cli.App{
		Name:    "onboard-cli",
		Usage:   "Run onboarding flows in the terminal",
		Version: Version,
		Description: `onboard-cli loads flow definitions (JSON or YAML) from a directory and
runs them interactively, renders HTML previews or checks them for mistakes.

Examples:
  onboard-cli run welcome
  onboard-cli preview --page 2 --out page.html welcome
  onboard-cli --flows ./flows lint
  onboard-cli openapi --schema Profile api.yaml`,
		Writer:    e.stdout,
		ErrWriter: e.stderr,
		Flags:     globalFlags,
		Before: func(c *cli.Context) error {
			return setup(c, e)
		},
		Commands: []*cli.Command{
			runCommand(e),
			previewCommand(e),
			lintCommand(e),
			openapiCommand(e),
			historyCommand(e),
			showCommand(e),
		},
	}
}
