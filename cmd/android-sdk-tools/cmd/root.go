package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/android-sdk-tools/internal/config"
	"github.com/oshokin/android-sdk-tools/internal/logger"
	"github.com/oshokin/android-sdk-tools/internal/sdk"
	"github.com/oshokin/android-sdk-tools/internal/version"
)

var (
	// configPath to the configuration YAML or TOML file.
	configPath string
	// logLevel is the minimum level of log messages.
	logLevel string
	// overrides collects configuration values given as flags.
	overrides config.Config

	// rootCmd represents the base command.
	rootCmd = &cobra.Command{
		Use:   "android-sdk-tools",
		Short: "Install, align and sign with the Android SDK build tools",
		Long: `Locates the Android SDK build tools under a configured SDK root and runs them.

The SDK root comes from --sdk, the configuration file, ANDROID_SDK_ROOT or
ANDROID_HOME, in that order. The JDK used by sdkmanager and apksigner comes
from --jdk, the configuration file or JAVA_HOME.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("%w: %q", errUnknownLogLevel, logLevel)
			}

			logger.SetLevel(level)

			return nil
		},
	}
)

var errUnknownLogLevel = errors.New("unknown log level")

// Execute runs the CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// loadConfig merges the configuration file, flags and environment.
// A missing file is only an error when --config was given explicitly.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Read(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || rootCmd.PersistentFlags().Changed("config") {
			return nil, err
		}

		cfg = new(config.Config)
	}

	config.Merge(cfg, &overrides)
	config.ApplyEnv(cfg, os.LookupEnv)

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newTools builds sdk.Tools from the resolved configuration.
func newTools() (*sdk.Tools, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return sdk.NewFromConfig(cfg)
}

// commandContext names the logger after the running subcommand.
func commandContext(cmd *cobra.Command) context.Context {
	return logger.WithName(cmd.Context(), cmd.Name())
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()

	// Setup command flags with consistent naming and descriptions.
	flags.StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file (.yaml, .yml or .toml)")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVar(&overrides.AndroidSdkPath, "sdk", "", "Android SDK root")
	flags.StringVar(&overrides.JdkPath, "jdk", "", "JDK installation directory")
	flags.StringVar(&overrides.BuildToolsVersion, "build-tools-version", "", "build-tools version (default "+config.DefaultBuildToolsVersion+")")
	flags.StringVar(&overrides.Platform, "platform", "", "path conventions to use: windows, linux or darwin (default: host)")
}
