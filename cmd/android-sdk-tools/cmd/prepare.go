package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/android-sdk-tools/internal/service/packager"
)

var (
	// prepareOutput is the final archive of the prepare command.
	prepareOutput string
	// prepareOpts holds the optional signing flags of the prepare command.
	prepareOpts signFlags

	// prepareCmd runs the full sequence: check, install, license, align, sign.
	prepareCmd = &cobra.Command{
		Use:   "prepare [input]",
		Short: "Install build tools if needed, accept the license, then align and sign an archive",
		Long: `Makes sure the configured build-tools version is installed and the SDK
license is accepted. When an input archive is given it is aligned and, if --ks
is set, signed into --out (or in place when --out is empty).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			keystorePassword, keyPassword := prepareOpts.passwords()

			options := &packager.Options{
				Config:           cfg,
				Output:           prepareOutput,
				Keystore:         prepareOpts.keystore,
				KeystorePassword: keystorePassword,
				KeyAlias:         prepareOpts.keyAlias,
				KeyPassword:      keyPassword,
			}

			if len(args) > 0 {
				options.Input = args[0]
			}

			return packager.Run(cmd.Context(), options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	prepareOpts.register(prepareCmd)
	prepareCmd.Flags().StringVarP(&prepareOutput, "out", "o", "", "final archive (default: replace the input)")

	rootCmd.AddCommand(prepareCmd)
}
