package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sliderule/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var redisURL, redisPrefix string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached renders",
		Long: `Clear all cached renders.

By default the local cache directory is emptied. With --redis-url the keys
under --redis-prefix are deleted from a shared Redis cache instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if redisURL != "" {
				rc, err := cache.NewRedisCache(cmd.Context(), cache.RedisConfig{URL: redisURL, Prefix: redisPrefix})
				if err != nil {
					return fmt.Errorf("connect redis: %w", err)
				}
				defer rc.Close()
				count, err := rc.Clear(cmd.Context())
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Redis prefix: %s", redisPrefix)
				return nil
			}

			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}

	cmd.Flags().StringVar(&redisURL, "redis-url", "", "clear a Redis cache instead of the local directory")
	cmd.Flags().StringVar(&redisPrefix, "redis-prefix", appName+":", "key prefix of the Redis cache")

	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
