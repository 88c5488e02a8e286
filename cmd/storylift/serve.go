package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeffbeard/storylift/internal/server"
)

var (
	servePort    int
	serveMigrate bool
	serveWarmup  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the matching, suggestion and mapping endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending migrations before serving")
	serveCmd.Flags().BoolVar(&serveWarmup, "warmup", false, "Load the embedding model before accepting requests")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if serveMigrate {
		applied, err := a.db.Migrate(ctx)
		if err != nil {
			return err
		}
		a.logger.Info("migrations applied", zap.Ints("versions", applied))
	}

	if err := a.withMatcher(); err != nil {
		return err
	}

	// A failed warmup is retried lazily on the first request
	if serveWarmup {
		if err := a.embedder.Initialize(ctx); err != nil {
			a.logger.Warn("embedding model warmup failed", zap.Error(err))
		}
	}

	port := a.cfg.Server.Port
	if servePort != 0 {
		port = servePort
	}

	srv := server.New(server.Config{
		Port:      port,
		RateLimit: a.cfg.RateLimiter(),
		Logger:    a.logger,
	}, a.matcher)

	return srv.Start(ctx)
}
