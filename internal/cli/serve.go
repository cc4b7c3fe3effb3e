package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrelhq/sharecard/internal/server"
)

// serveCommand creates the "serve" command: run the activity service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen string
		config string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the activity service",
		Long: `Serve runs the HTTP service that stores activities, serves task lists, and
receives share beacons. With a MongoDB URI configured it uses MongoDB;
otherwise activities live in memory and vanish on restart.`,
		Example: `  sharecard serve
  sharecard serve --listen :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(config)
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.Service.Listen
			}

			store, err := c.newStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = store.Close(ctx)
			}()

			srv := &http.Server{
				Addr:              listen,
				Handler:           server.New(store, loggerFromContext(cmd.Context())),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("activity service listening", "addr", listen)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				c.Logger.Info("shutting down")
				return srv.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "bind address (default from config)")
	cmd.Flags().StringVar(&config, "config", "", "config file path")
	return cmd
}

// newStore builds the activity store from config: MongoDB when a URI is
// configured, in-memory otherwise.
func (c *CLI) newStore(ctx context.Context, cfg Config) (server.Store, error) {
	if cfg.Mongo.URI == "" {
		c.Logger.Warn("no mongodb uri configured, activities are stored in memory")
		return server.NewMemoryStore(), nil
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	store, err := server.NewMongoStore(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return nil, err
	}
	return store, nil
}
