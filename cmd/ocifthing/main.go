// Command ocifthing opens and scripts OCIF canvas documents.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmsv/ocif-thing/internal/cli"
)

// exitInterrupted is the conventional status for a SIGINT exit.
const exitInterrupted = 130

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	c.Logger.SetPrefix("ocifthing")
	c.SetConfigPath(cli.DefaultConfigPath())

	err := execute(ctx, c)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		c.Logger.Warn("interrupted")
		os.Exit(exitInterrupted)
	default:
		c.Logger.Error(err)
		os.Exit(1)
	}
}

// execute adds the process-level flags to the root command and runs it.
func execute(ctx context.Context, c *cli.CLI) error {
	var verbose, quiet bool

	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	setLogger := root.PersistentPreRun
	root.PersistentPreRun = nil
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		switch {
		case verbose:
			c.SetLogLevel(cli.LogDebug)
		case quiet:
			c.SetLogLevel(cli.LogError)
		}
		setLogger(cmd, args)
		return nil
	}

	return root.ExecuteContext(ctx)
}
