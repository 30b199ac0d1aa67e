package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/android-sdk-tools/internal/logger"
)

var (
	// forceInstall reinstalls build tools that are already present.
	forceInstall bool

	// installCmd runs sdkmanager for the configured build-tools version.
	installCmd = &cobra.Command{
		Use:   "install",
		Short: "Install the configured build-tools version with sdkmanager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tools, err := newTools()
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			if !forceInstall && tools.CheckBuildTools() {
				logger.InfoKV(ctx, "Build tools already installed", "path", tools.BuildToolsPath())
				return nil
			}

			return tools.InstallBuildTools(ctx)
		},
	}

	// licenseCmd accepts the SDK license on disk.
	licenseCmd = &cobra.Command{
		Use:   "license",
		Short: "Write the Android SDK license acceptance file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tools, err := newTools()
			if err != nil {
				return err
			}

			if err = tools.WriteLicenseFile(); err != nil {
				return err
			}

			logger.InfoKV(commandContext(cmd), "License accepted", "path", tools.LicensePath())

			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	installCmd.Flags().BoolVarP(&forceInstall, "force", "f", false, "run sdkmanager even when the build tools are present")

	rootCmd.AddCommand(installCmd, licenseCmd)
}
