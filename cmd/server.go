package cmd

import (
	"log/slog"
	"net/http"

	"github.com/habitd/habitd/internal/config"
	"github.com/habitd/habitd/internal/logger"
	"github.com/habitd/habitd/internal/server"
	"github.com/habitd/habitd/internal/storage/bolt"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return startServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func startServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg.LogFormat, slog.LevelInfo)

	store, err := bolt.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := server.New(store, cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	logger.Info("Starting server", "addr", cfg.ListenAddr, "auth_enabled", cfg.AuthEnabled)
	return http.ListenAndServe(cfg.ListenAddr, srv.Router())
}
