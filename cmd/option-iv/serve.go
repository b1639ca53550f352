package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/contactkeval/option-iv/internal/api"
	"github.com/contactkeval/option-iv/internal/logger"
	"github.com/contactkeval/option-iv/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves stored implied volatilities over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}

		st, err := store.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		srv := api.NewServer(st, cfg.Server.CacheTTL)
		logger.Infof("starting REST server on %s", cfg.Server.Addr)
		return http.ListenAndServe(cfg.Server.Addr, srv.Router())
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
}
