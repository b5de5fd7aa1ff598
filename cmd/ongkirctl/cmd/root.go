// Package cmd provides the ongkirctl commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/GTDGit/gtd_ongkir/internal/app"
	"github.com/GTDGit/gtd_ongkir/internal/config"
)

var (
	verbose bool
	migrate bool
)

var rootCmd = &cobra.Command{
	Use:   "ongkirctl",
	Short: "Operate the GTD shipping estimate engine",
	Long: `ongkirctl runs offline jobs and one-shot estimates against the same
configuration as the API (environment variables or .env).

Examples:
  ongkirctl build-geocode --city 3174 --out data/ward_coordinates.json
  ongkirctl build-geocode --upload
  ongkirctl estimate --ward 3174021001 --services instant,sameday
  ongkirctl create-admin --email ops@gtd.co.id --name Ops`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

// Execute runs the CLI. Interrupting it cancels the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&migrate, "migrate", false, "apply database migrations before running")

	rootCmd.AddCommand(buildGeocodeCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(createAdminCmd)
}

func setupLogger() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func loadEngine(ctx context.Context, opts app.Options) (*app.Engine, *config.Config, error) {
	cfg, err := config.LoadEngine()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	opts.Migrate = migrate
	engine, err := app.NewEngine(ctx, cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	return engine, cfg, nil
}
