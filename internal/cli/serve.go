package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sliderule/pkg/cache"
	"github.com/matzehuels/sliderule/pkg/observability"
	"github.com/matzehuels/sliderule/pkg/pipeline"
	"github.com/matzehuels/sliderule/pkg/server"
	"github.com/matzehuels/sliderule/pkg/session"
)

// serveFlags holds the command-line flags for the serve command.
type serveFlags struct {
	addr        string
	ttl         time.Duration
	maxSessions int
	redisURL    string
	redisPrefix string
	noCache     bool
}

// serveCommand creates the serve command, which runs the HTTP session API.
func (c *CLI) serveCommand() *cobra.Command {
	flags := serveFlags{
		addr:        ":8080",
		ttl:         session.DefaultTTL,
		maxSessions: session.DefaultMaxSessions,
		redisPrefix: appName + ":",
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve slide rule sessions over HTTP",
		Long: `Serve slide rule sessions over HTTP.

Each session holds one slide rule. Clients create sessions from instrument
TOML, move the slide and cursor, and fetch renders. Sessions live in memory
and expire after --ttl without use.

Renders are cached in the local cache directory, or in Redis when
--redis-url is given so that several servers can share them.`,
		Example: `  sliderule serve --addr :8080 --ttl 30m
  sliderule serve --redis-url redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", flags.addr, "listen address")
	cmd.Flags().DurationVar(&flags.ttl, "ttl", flags.ttl, "idle time after which a session expires")
	cmd.Flags().IntVar(&flags.maxSessions, "max-sessions", flags.maxSessions, "maximum number of live sessions")
	cmd.Flags().StringVar(&flags.redisURL, "redis-url", "", "cache renders in Redis (redis://host:port/db)")
	cmd.Flags().StringVar(&flags.redisPrefix, "redis-prefix", flags.redisPrefix, "key prefix for the Redis cache")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable render caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	runner, err := c.serveRunner(ctx, flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	observability.NewLogHooks(c.Logger).Register()
	defer observability.Reset()

	store := session.NewStore(
		session.WithTTL(flags.ttl),
		session.WithMaxSessions(flags.maxSessions),
	)
	srv := server.New(
		server.WithStore(store),
		server.WithRunner(runner),
		server.WithLogger(c.Logger),
	)

	printInfo("Serving on %s", StyleHighlight.Render(flags.addr))
	printKeyValue("Session TTL", flags.ttl.String())
	printKeyValue("Max sessions", fmt.Sprintf("%d", flags.maxSessions))
	return srv.ListenAndServe(ctx, flags.addr)
}

// serveRunner picks the render cache: Redis when configured, otherwise the
// local file cache.
func (c *CLI) serveRunner(ctx context.Context, flags serveFlags) (*pipeline.Runner, error) {
	if flags.noCache || flags.redisURL == "" {
		runner, err := c.newRunner(flags.noCache)
		if err != nil {
			return nil, fmt.Errorf("initialize runner: %w", err)
		}
		return runner, nil
	}

	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: flags.redisURL, Prefix: flags.redisPrefix})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	c.Logger.Info("caching renders in redis", "prefix", flags.redisPrefix)
	keyer := cache.NewScopedKeyer(nil, "v"+cacheKeyVersion+":")
	return pipeline.NewRunner(rc, keyer, c.Logger), nil
}

// cacheKeyVersion scopes shared cache keys by renderer version.
const cacheKeyVersion = "1"
