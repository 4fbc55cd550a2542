package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/datagraph/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the project, user and assignment endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = rt.log.Sync() }()

	if err := requireDatabaseURL(rt.cfg); err != nil {
		return err
	}

	port := rt.cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	srv, err := server.New(server.Config{
		Port:          port,
		DatabaseURL:   rt.cfg.DatabaseURL,
		Logger:        rt.log,
		Matcher:       rt.matcher,
		Concurrency:   rt.cfg.AutoAssign.Concurrency,
		CommitRetries: rt.cfg.AutoAssign.CommitRetries,
		RateLimit:     rt.cfg.RateLimit.LimiterConfig(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
