package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kmacleod/gavel/internal/cache"
	"github.com/kmacleod/gavel/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the report cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		stats, err := store.GetStats()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Dir:     %s\n", stats.Dir)
		fmt.Fprintf(os.Stdout, "Entries: %d (%d expired)\n", stats.Entries, stats.Expired)
		fmt.Fprintf(os.Stdout, "Size:    %d bytes\n", stats.TotalBytes)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCache()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "Cache cleared")
		return nil
	},
}

func openCache() (*cache.Cache, error) {
	cfg, err := config.Load(nil)
	if err != nil {
		return nil, err
	}
	return cache.New(true, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
