package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thinkglobalschool/spot-cli/internal/api"
	"github.com/thinkglobalschool/spot-cli/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached albums and profile",
	}
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir, err := cache.DefaultDir()
			if err != nil {
				return err
			}
			cache.ClearAll(dir)

			removed := -1
			if url := strings.TrimSpace(os.Getenv(cache.EnvRedisURL)); url != "" {
				client, err := cache.NewRedisClient(url)
				if err != nil {
					return err
				}
				defer func() { _ = client.Close() }()
				timeout := flags.Timeout
				if timeout <= 0 {
					timeout = api.DefaultTimeout
				}
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				defer cancel()
				if removed, err = cache.ClearRedis(ctx, client); err != nil {
					return err
				}
			}

			if isJSON(cmd) {
				out := map[string]any{"cleared": true, "dir": dir}
				if removed >= 0 {
					out["redis_keys"] = removed
				}
				return printJSON(cmd, out)
			}
			printText(cmd, "Cache cleared")
			return nil
		}),
	}
}
