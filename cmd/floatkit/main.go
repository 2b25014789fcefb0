package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/floatkit/internal/config"
	"github.com/vango-dev/floatkit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┬  ┌─┐┌─┐┌┬┐┬┌─┬┌┬┐
  ├┤ │  │ │├─┤ │ ├┴┐│ │
  └  ┴─┘└─┘┴ ┴ ┴ ┴ ┴┴ ┴
`

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	configPath string
	logLevel   string
	noColor    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "floatkit",
		Short: "Run and inspect floating widget scenarios",
		Long: `floatkit drives popover and tooltip builders over an in-memory DOM.

Scenarios are YAML files that declare widgets, the page they bind to and
the interaction steps to replay:

  • Run scenarios from the command line or CI
  • Inspect them step by step in the dev server
  • Expose widget metrics to Prometheus`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.noColor {
				useColor = false
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to "+config.ConfigFileName+" (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		runCmd(flags),
		serveCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// load reads the project configuration and applies the global flags.
func (f *globalFlags) load() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}

	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newLogger returns a text logger writing to w at the configured level.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level()}))
}

// printBanner prints the floatkit banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// useColor controls ANSI output of the helpers below.
var useColor = true

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorGray  = "\033[90m"
)

func paint(code, text string) string {
	if !useColor {
		return text
	}
	return code + text + colorReset
}

func green(text string) string { return paint(colorGreen, text) }
func red(text string) string   { return paint(colorRed, text) }
func gray(text string) string  { return paint(colorGray, text) }
