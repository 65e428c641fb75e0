package main

import (
	"github.com/spf13/cobra"

	"github.com/Chative-support-poc/server/internal/server"
	logx "github.com/Chative-support-poc/server/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat API over HTTP",
	Long: `Starts the HTTP API:
  POST   /chat                  {message, session_id?} -> {response, session_id}
  GET    /sessions/:id/history  stored user and assistant messages
  DELETE /sessions/:id          forget a session
  GET    /health`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initLogger(cfg)

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to start")
		return err
	}
	defer a.close()

	srv, err := server.NewServer(
		server.WithConfig(cfg.Server),
		server.WithRunner(a.runner),
	)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
