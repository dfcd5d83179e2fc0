package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/wtsi-hgi/unjsify-go/internal/config"
	"github.com/wtsi-hgi/unjsify-go/internal/logging"
	"github.com/wtsi-hgi/unjsify-go/internal/server"
)

func newServeCmd() *cobra.Command {
	cfg := config.DefaultServeConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagnostics HTTP service",
		Long: `serve starts an HTTP service exposing the same rewrite transform as
POST /rewrite, for callers that want to trigger rewrites without a
process-per-invocation CLI call.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.LogLevel = flagLogLevel
			cfg.LogFormat = flagLogFormat
			logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			srv := server.New(logger)
			logger.Info("listening", "addr", cfg.Addr)
			fmt.Fprintf(cmd.OutOrStdout(), "unjsify serve listening on %s\n", cfg.Addr)
			return http.ListenAndServe(cfg.Addr, srv)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")

	return cmd
}
