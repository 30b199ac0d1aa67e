package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/android-sdk-tools/internal/execute"
)

var errBuildToolsMissing = errors.New("build tools are not installed")

var (
	// homeCmd prints the resolved SDK root.
	homeCmd = &cobra.Command{
		Use:   "home",
		Short: "Print the SDK root used as ANDROID_HOME",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tools, err := newTools()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), tools.AndroidHome())

			return err
		},
	}

	// envCmd prints the environment passed to the SDK tools.
	envCmd = &cobra.Command{
		Use:   "env",
		Short: "Print the environment passed to the SDK tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tools, err := newTools()
			if err != nil {
				return err
			}

			for _, entry := range execute.EnvList(tools.Env()) {
				if _, err = fmt.Fprintln(cmd.OutOrStdout(), entry); err != nil {
					return err
				}
			}

			return nil
		},
	}

	// checkCmd exits non-zero when the build tools are missing.
	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Check that the configured build-tools version is installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tools, err := newTools()
			if err != nil {
				return err
			}

			if !tools.CheckBuildTools() {
				return fmt.Errorf("%w: %s", errBuildToolsMissing, tools.BuildToolsPath())
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), tools.BuildToolsPath())

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(homeCmd, envCmd, checkCmd)
}
