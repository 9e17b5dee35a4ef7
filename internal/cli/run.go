package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	ocif "github.com/jmsv/ocif-thing"
)

const (
	defaultMaxFrames = 10000 // frames a script may run before it is abandoned
	defaultTPS       = 60    // simulated ticks per second
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	script        string // JSON input script
	output        string // output file; stdout when empty, the input file with --in-place
	inPlace       bool
	width, height float64
	maxFrames     int
}

func (c *CLI) runCommand() *cobra.Command {
	opts := runOpts{width: defaultWidth, height: defaultHeight, maxFrames: defaultMaxFrames}
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Replay an input script against a document",
		Long: `Replay a JSON input script (clicks, drags, keys, wheel, waits and mode
switches) against a document without opening a window, then write the
resulting document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out io.Writer = cmd.OutOrStdout()
			if opts.inPlace {
				opts.output = args[0]
			}
			doc, err := c.runScript(cmd, args[0], opts)
			if err != nil {
				return err
			}
			if opts.output != "" {
				return saveDocument(opts.output, doc)
			}
			return writeDocument(out, doc)
		},
	}
	cmd.Flags().StringVarP(&opts.script, "script", "s", "", "input script (JSON)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result to this file")
	cmd.Flags().BoolVarP(&opts.inPlace, "in-place", "i", false, "overwrite the input file")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height")
	cmd.Flags().IntVar(&opts.maxFrames, "max-frames", opts.maxFrames, "give up after this many frames")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

func (c *CLI) runScript(cmd *cobra.Command, path string, opts runOpts) (ocif.Document, error) {
	logger := loggerFromContext(cmd.Context())
	cfg, err := c.loadConfig()
	if err != nil {
		return ocif.Document{}, err
	}
	doc, err := readDocument(path, true)
	if err != nil {
		return ocif.Document{}, err
	}
	data, err := os.ReadFile(opts.script)
	if err != nil {
		return ocif.Document{}, fmt.Errorf("read script: %w", err)
	}
	runner, err := ocif.LoadScript(data)
	if err != nil {
		return ocif.Document{}, err
	}

	tracker := &changeTracker{latest: doc}
	ed, err := ocif.NewEditor(doc, tracker.record, ocif.WithConfig(cfg), ocif.WithLogger(logger))
	if err != nil {
		return ocif.Document{}, err
	}
	ed.Mount(ocif.Rect{Width: opts.width, Height: opts.height})
	defer ed.Unmount()

	start := time.Now()
	if err := ed.RunScript(runner, 1.0/defaultTPS, opts.maxFrames); err != nil {
		return ocif.Document{}, err
	}
	logger.Info("script finished", "changes", tracker.changes, "nodes", len(tracker.latest.Nodes), "took", time.Since(start).Round(time.Millisecond))
	return tracker.latest, nil
}
