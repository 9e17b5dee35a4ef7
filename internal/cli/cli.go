// Package cli implements the ocifthing command-line interface.
//
// # Commands
//
//   - view: open an OCIF document in an editor window
//   - run: replay an input script against a document without a window
//   - config: print the effective editor configuration as TOML
//
// All commands accept --config to load editor settings from a TOML file.
// Without it, $OCIFTHING_CONFIG or ocifthing/config.toml in the user config
// directory is used when present.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	ocif "github.com/jmsv/ocif-thing"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: ocif.NewLogger(w, level)}
}

// ConfigEnv names the environment variable that points at a settings file.
const ConfigEnv = "OCIFTHING_CONFIG"

// DefaultConfigPath returns the settings file used when --config is not
// given: $OCIFTHING_CONFIG if set, else ocifthing/config.toml in the user
// config directory if that file exists, else "".
func DefaultConfigPath() string {
	if p := os.Getenv(ConfigEnv); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "ocifthing", "config.toml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// SetConfigPath sets the default for --config. Call it before RootCommand.
func (c *CLI) SetConfigPath(path string) { c.configPath = path }

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "ocifthing",
		Short:        "ocifthing edits OCIF canvas documents",
		Long:         `ocifthing is a node-graph canvas editor for Open Canvas Interchange Format documents, with a scriptable headless mode for reproducible edits.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", c.configPath, "editor settings TOML file (falls back to $"+ConfigEnv+")")

	root.AddCommand(c.viewCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.configCommand())
	return root
}

// loadConfig returns the --config settings, or the defaults when the flag
// is unset.
func (c *CLI) loadConfig() (ocif.Config, error) {
	if c.configPath == "" {
		return ocif.DefaultConfig(), nil
	}
	cfg, err := ocif.LoadConfig(c.configPath)
	if err != nil {
		return ocif.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath)
	return cfg, nil
}

// readDocument loads an OCIF file. A missing file yields an empty document
// when allowMissing is set.
func readDocument(path string, allowMissing bool) (ocif.Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && allowMissing {
		return ocif.NewDocument(), nil
	}
	if err != nil {
		return ocif.Document{}, fmt.Errorf("read document: %w", err)
	}
	doc, err := ocif.ParseDocument(data)
	if err != nil {
		return ocif.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// writeDocument encodes doc as indented JSON to w.
func writeDocument(w io.Writer, doc ocif.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// saveDocument writes doc to path, replacing it atomically.
func saveDocument(path string, doc ocif.Document) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ocif-*")
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := writeDocument(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or the process-wide
// default logger when none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
			return l
		}
	}
	return log.Default()
}
