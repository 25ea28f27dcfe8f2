package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/ovumcy-insights/internal/config"
	"github.com/terraincognita07/ovumcy-insights/internal/logging"
)

// requiresSecretAnnotation marks commands that cannot start without SECRET_KEY.
const requiresSecretAnnotation = "requires_secret"

var (
	// Version is set at build time via ldflags.
	Version = "dev"

	verbose bool
	cfg     *config.Config
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ovumcy",
	Short: "Ovumcy insights computes cycle predictions from period and temperature logs",
	Long: `Ovumcy insights serves a JSON API for logging periods and basal body
temperature, and predicts the next period, ovulation and fertile window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Annotations[requiresSecretAnnotation] == "true")
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.Init(logging.Options{Level: level, Folder: cfg.LogsFolder})
		if err != nil {
			return fmt.Errorf("init logging: %w", err)
		}

		if cfg.InvalidTZ != "" {
			logger.Warn().Str("tz", cfg.InvalidTZ).Msg("invalid TZ, falling back to UTC")
		}
		logger.Debug().
			Str("version", Version).
			Str("command", cmd.Name()).
			Str("db", cfg.DBPath).
			Str("tz", cfg.Location.String()).
			Msg("ovumcy starting")
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(newServeCommand(), newAnalyzeCommand(), newRecomputeCommand(), newResetPasswordCommand())
}
