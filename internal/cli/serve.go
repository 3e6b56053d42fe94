package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/itfstack/internal/server"
	"github.com/matzehuels/itfstack/pkg/store"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		mongoURI  string
		mongoDB   string
		redisAddr string
		noCache   bool
		maxBody   int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ITF parser and stored stacks over HTTP",
		Long: `Serve the ITF parser over HTTP.

Stacks created with POST /v1/stacks are kept in MongoDB when a URI is
configured and in memory otherwise. Parse results are cached in Redis
when an address is configured and on disk otherwise.`,
		Example: `  itfstack serve --addr :9000
  itfstack serve --mongo-uri mongodb://localhost:27017 --redis-addr localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			flags := cmd.Flags()

			cfg := c.Config.Serve
			if flags.Changed("addr") {
				cfg.Addr = addr
			}
			if flags.Changed("mongo-uri") {
				cfg.MongoURI = mongoURI
			}
			if flags.Changed("mongo-database") {
				cfg.MongoDatabase = mongoDB
			}
			if flags.Changed("redis-addr") {
				c.Config.Cache.RedisAddr = redisAddr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := st.Close(closeCtx); err != nil {
					logger.Warnf("Close store: %v", err)
				}
			}()
			if cfg.MongoURI == "" {
				logger.Warn("No mongo_uri configured, stacks are kept in memory")
			}

			srv := server.New(runner, st, logger, server.WithMaxBodyBytes(maxBody))
			return srv.ListenAndServe(ctx, cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.Config.Serve.Addr, "listen address")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI (memory store if empty)")
	cmd.Flags().StringVar(&mongoDB, "mongo-database", "", "MongoDB database name")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the parse cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the parse cache")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "largest accepted upload in bytes")

	return cmd
}

// openStore picks MongoDB when a URI is configured.
func openStore(ctx context.Context, cfg ServeConfig) (store.Store, error) {
	if cfg.MongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, store.MongoConfig{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
}
