package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var flags rootFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "animeta",
		Short:         "Aggregated anime metadata from AniList and Jikan",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&flags.json, "json", false, "Emit JSON instead of tables")
	rootCmd.PersistentFlags().BoolVar(&flags.memoryCache, "memory-cache", false, "Keep the cache in memory for this invocation only")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newDetailCommand(ctx))
	for _, cmd := range newFeedCommands(ctx) {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(newCountCommand(ctx))
	rootCmd.AddCommand(newEpisodesCommand(ctx))
	rootCmd.AddCommand(newDiscoverCommand(ctx))
	rootCmd.AddCommand(newGenresCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))

	return rootCmd
}
