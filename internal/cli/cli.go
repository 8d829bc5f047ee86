// Package cli implements the sliderule command-line interface.
//
// The CLI renders instruments to files, prints the cursor readout, lists
// the division registry, runs an interactive terminal slide rule and serves
// the HTTP API. It is built using cobra, prints with lipgloss and logs via
// charmbracelet/log.
//
// # Commands
//
//   - render: Generate SVG, PNG, PDF or JSON output for an instrument
//   - read: Print the scale values under the cursor hairline
//   - scales: List divisions and named rule sets
//   - tui: Operate a slide rule in the terminal
//   - serve: Run the HTTP session API
//   - cache: Manage the local render cache
//
// Every command that takes an instrument file falls back to the built-in
// classic instrument when none is given.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sliderule/pkg/buildinfo"
	"github.com/matzehuels/sliderule/pkg/cache"
	"github.com/matzehuels/sliderule/pkg/instrument"
	"github.com/matzehuels/sliderule/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "sliderule"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "A virtual slide rule",
		Long: `sliderule draws and operates a virtual slide rule.

Instruments are described in TOML: which scales sit on the upper stator, the
slide and the lower stator, and how their ticks are subdivided. Move the slide
and the cursor to multiply, divide and read values the way you would on a
physical rule.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.readCommand())
	root.AddCommand(c.scalesCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// loadInstrument reads the instrument file at path, or returns the classic
// instrument when path is empty.
func loadInstrument(path string) (*instrument.Spec, error) {
	if path == "" {
		return instrument.Classic(), nil
	}
	return instrument.Load(path)
}

// instrumentArg returns the optional instrument file argument.
func instrumentArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/sliderule/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
