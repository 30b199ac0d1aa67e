package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/android-sdk-tools/internal/config"
	"github.com/oshokin/android-sdk-tools/internal/logger"
)

// initCmd persists the resolved configuration.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the resolved settings to the configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if err = config.Save(configPath, cfg); err != nil {
			return err
		}

		logger.InfoKV(commandContext(cmd), "Settings saved", "path", configPath)

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(initCmd)
}
