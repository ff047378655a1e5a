package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	devenv "tpsearch/dev/env"
	"tpsearch/lib/osutil"
	"tpsearch/lib/restyutil"
	"tpsearch/lib/telemetry"

	"github.com/spf13/cobra"
)

var debug bool

var tel telemetry.Telemetry

var rootCmd = &cobra.Command{
	Use:           "tp-cli",
	Short:         "tp-cli searches flights and hotels through the travelpayouts APIs.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(debug)
		t, err := telemetry.SetupFromEnv(cmd.Context(), "tp-cli")
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		tel = t
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug messages and dump every http request to .dev/resty/<command>.")
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)

	shutdownErr := tel.Shutdown(context.Background())
	if shutdownErr != nil {
		slog.Warn("failed to shutdown telemetry", "err", shutdownErr)
	}
	if err != nil {
		osutil.Fatal("command failed", err)
	}
}

// outputPath resolves an output file flag, a leading <dev_state> puts the
// file in the dev state directory of the workspace.
func outputPath(flag string) (string, error) {
	return devenv.ResolvePath(flag)
}

// debugOutput is where the http requests of the named command are dumped,
// nil unless --debug is set.
func debugOutput(name string) restyutil.InstrumentOutput {
	if !debug {
		return nil
	}
	out, err := restyutil.NewFilesystemOutput(filepath.Join(".dev", "resty", name))
	if err != nil {
		slog.Warn("failed to create request dump directory", "err", err)
		return nil
	}
	return out
}
