package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/oshokin/android-sdk-tools/internal/sdk"
)

const (
	// envKeystorePassword is read when --ks-pass is not given.
	envKeystorePassword = "ANDROID_KEYSTORE_PASSWORD"
	// envKeyPassword is read when --key-pass is not given.
	envKeyPassword = "ANDROID_KEY_PASSWORD"
)

// signFlags are shared by the sign and prepare commands.
type signFlags struct {
	keystore         string
	keystorePassword string
	keyAlias         string
	keyPassword      string
}

func (f *signFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.keystore, "ks", "", "keystore file")
	cmd.Flags().StringVar(&f.keystorePassword, "ks-pass", "", "keystore password (default $"+envKeystorePassword+")")
	cmd.Flags().StringVar(&f.keyAlias, "alias", "", "key alias inside the keystore")
	cmd.Flags().StringVar(&f.keyPassword, "key-pass", "", "key password (default $"+envKeyPassword+", then the keystore password)")
}

// passwords resolves passwords from flags, then the environment.
func (f *signFlags) passwords() (string, string) {
	keystorePassword := f.keystorePassword
	if keystorePassword == "" {
		keystorePassword = os.Getenv(envKeystorePassword)
	}

	keyPassword := f.keyPassword
	if keyPassword == "" {
		keyPassword = os.Getenv(envKeyPassword)
	}

	if keyPassword == "" {
		keyPassword = keystorePassword
	}

	return keystorePassword, keyPassword
}

var (
	// zipalignInPlace replaces the input archive instead of writing a separate output.
	zipalignInPlace bool
	// signInPlace replaces the input archive with the signed one.
	signInPlace bool
	// signOpts holds the sign command flags.
	signOpts signFlags

	// zipalignCmd realigns an archive.
	zipalignCmd = &cobra.Command{
		Use:   "zipalign <input> [output]",
		Short: "Align an archive with zipalign -v -f -p 4",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := newTools()
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			if len(args) == 1 || zipalignInPlace {
				return tools.ZipalignInPlace(ctx, args[0])
			}

			return tools.Zipalign(ctx, args[0], args[1])
		},
	}

	// signCmd signs an archive with apksigner.
	signCmd = &cobra.Command{
		Use:   "sign <input> [output]",
		Short: "Sign an archive with apksigner",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := newTools()
			if err != nil {
				return err
			}

			keystorePassword, keyPassword := signOpts.passwords()
			req := sdk.SignRequest{
				Keystore:         signOpts.keystore,
				KeystorePassword: keystorePassword,
				KeyAlias:         signOpts.keyAlias,
				KeyPassword:      keyPassword,
				Input:            args[0],
			}

			ctx := commandContext(cmd)

			if len(args) == 1 || signInPlace {
				return tools.ApksignerInPlace(ctx, req)
			}

			req.Output = args[1]

			return tools.Apksigner(ctx, req)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	zipalignCmd.Flags().BoolVarP(&zipalignInPlace, "in-place", "i", false, "replace the input archive")

	signOpts.register(signCmd)
	signCmd.Flags().BoolVarP(&signInPlace, "in-place", "i", false, "replace the input archive")
	_ = signCmd.MarkFlagRequired("ks")
	_ = signCmd.MarkFlagRequired("alias")

	rootCmd.AddCommand(zipalignCmd, signCmd)
}
