package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eitsapi/internal/serviceutil"
	"eitsapi/internal/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	dotenvPath *string
	verbose    *bool

	cfg Config
	tel telemetry.Telemetry
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "eits.json5", "The config file, <name>.local.json5 next to it overrides it.")
	dotenvPath = rootCmd.PersistentFlags().String("env-file", ".env", "The dotenv file to load variables from.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output.")
}

var rootCmd = &cobra.Command{
	Use:   "eits-cli",
	Short: "eits-cli exports modules, measures and risks from the E-ITS portal.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(*verbose)

		var err error
		cfg, err = LoadConfig(*configPath, *dotenvPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		tel, err = telemetry.Setup(cmd.Context(), "eits-cli", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// flushTelemetry exports what is still buffered, it runs after every
// command whether it failed or not.
func flushTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	err := tel.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err.Error())
	}
	tel = telemetry.Telemetry{}
}

func execute(ctx context.Context) error {
	defer flushTelemetry()
	return rootCmd.ExecuteContext(ctx)
}

func ExecuteContext(ctx context.Context) {
	if err := execute(ctx); err != nil {
		serviceutil.Fatal("eits-cli failed", err)
	}
}
