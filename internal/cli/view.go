package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	ocif "github.com/jmsv/ocif-thing"
	"github.com/jmsv/ocif-thing/ebitenhost"
)

const (
	defaultWidth  = 1024 // default window width
	defaultHeight = 768  // default window height
)

// viewOpts holds the command-line flags for the view command.
type viewOpts struct {
	width, height int
	debug         bool
	readOnly      bool   // never write the document back
	screenshots   string // directory for F12 captures
	stats         bool   // show the F3 stats overlay at startup
}

func (c *CLI) viewCommand() *cobra.Command {
	opts := viewOpts{width: defaultWidth, height: defaultHeight}
	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Open a document in an editor window",
		Long:  `Open an OCIF document in an editor window. The file is created if it does not exist and is saved when the window closes.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd, args[0], opts)
		},
	}
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "window width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "window height in pixels")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log gestures, flushes and unhandled events")
	cmd.Flags().BoolVar(&opts.readOnly, "read-only", false, "do not save changes")
	cmd.Flags().StringVar(&opts.screenshots, "screenshot-dir", "", "directory for F12 screenshots")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "show frame rate and document stats (toggle with F3)")
	return cmd
}

func (c *CLI) runView(cmd *cobra.Command, path string, opts viewOpts) error {
	logger := loggerFromContext(cmd.Context())
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	doc, err := readDocument(path, true)
	if err != nil {
		return err
	}

	tracker := &changeTracker{latest: doc}
	ed, err := ocif.NewEditor(doc, tracker.record,
		ocif.WithConfig(cfg),
		ocif.WithLogger(logger),
		ocif.WithClipboard(ebitenhost.Clipboard()),
	)
	if err != nil {
		return err
	}
	ed.SetDebugMode(opts.debug)

	logger.Info("opening", "file", path, "nodes", len(doc.Nodes))
	title := fmt.Sprintf("%s - ocifthing", filepath.Base(path))
	host := ebitenhost.New(ed)
	host.SetScreenshotDir(opts.screenshots)
	host.SetShowStats(opts.stats)
	if err := ebitenhost.Run(host, title, opts.width, opts.height); err != nil {
		return err
	}

	if !tracker.dirty || opts.readOnly {
		return nil
	}
	if err := saveDocument(path, tracker.latest); err != nil {
		return err
	}
	logger.Info("saved", "file", path, "changes", tracker.changes)
	return nil
}

// changeTracker keeps the most recent document an editor reported.
type changeTracker struct {
	latest  ocif.Document
	dirty   bool
	changes int
}

func (t *changeTracker) record(doc ocif.Document) {
	t.latest = doc
	t.dirty = true
	t.changes++
}
