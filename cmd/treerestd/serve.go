package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treerest/treerest/config"
	"github.com/treerest/treerest/examples/orgtree/app"
)

var listenAddr string

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "override TREEREST_LISTEN_ADDR for this run")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build and run the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		var searchPaths []string
		if configPath != "" {
			searchPaths = append(searchPaths, configPath)
		}
		cfg, err := config.Load(searchPaths...)
		if err != nil {
			return err
		}
		if listenAddr != "" {
			cfg.ListenAddr = listenAddr
		}

		return app.Run(context.Background(), cfg, logger)
	},
}
