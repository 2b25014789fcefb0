package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/floatkit/pkg/devserver"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scenario inspector",
		Long: `Start the dev server.

The server lists the project's scenarios, runs them over HTTP and
hosts live sessions that step through a scenario over a WebSocket.

Examples:
  floatkit serve
  floatkit serve --port=8080
  floatkit serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Dev.Port = port
			}
			if host != "" {
				cfg.Dev.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printBanner(out)
			fmt.Fprintf(out, "  serve  %s\n", cfg.DevURL())
			fmt.Fprintf(out, "  scenarios  %s\n\n", cfg.ScenariosPath())

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := devserver.New(devserver.Options{
				Config: cfg,
				Logger: newLogger(cmd.ErrOrStderr(), cfg),
			})
			return server.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from floatkit.yaml)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from floatkit.yaml)")

	return cmd
}
