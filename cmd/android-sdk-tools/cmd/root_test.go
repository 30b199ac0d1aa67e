package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/android-sdk-tools/internal/config"
	"github.com/oshokin/android-sdk-tools/internal/sdk"
)

// runRoot runs rootCmd with args. Commands share package state, so tests here are not parallel.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	overrides = config.Config{}
	logLevel = "info"

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())

	return out.String(), err
}

func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, config.Save(path, cfg))

	return path
}

// TestHomeCommand prints the SDK root with a trailing separator.
func TestHomeCommand(t *testing.T) {
	path := writeConfig(t, &config.Config{AndroidSdkPath: "/sdk", Platform: "linux"})

	out, err := runRoot(t, "home", "--config", path)
	require.NoError(t, err)
	require.Equal(t, "/sdk/\n", out)

	out, err = runRoot(t, "home", "--config", path, "--sdk", "/other/sdk")
	require.NoError(t, err)
	require.Equal(t, "/other/sdk/\n", out)
}

// TestEnvCommand lists ANDROID_HOME among the environment.
func TestEnvCommand(t *testing.T) {
	path := writeConfig(t, &config.Config{AndroidSdkPath: "/sdk", Platform: "linux"})

	out, err := runRoot(t, "env", "--config", path)
	require.NoError(t, err)
	require.Contains(t, strings.Split(out, "\n"), "ANDROID_HOME=/sdk/")
}

// TestCheckCommand fails until the build-tools directory exists.
func TestCheckCommand(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, &config.Config{AndroidSdkPath: root})

	_, err := runRoot(t, "check", "--config", path)
	require.ErrorIs(t, err, errBuildToolsMissing)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "build-tools", "29.0.2"), 0o755))

	out, err := runRoot(t, "check", "--config", path)
	require.NoError(t, err)
	require.Contains(t, out, filepath.Join("build-tools", "29.0.2"))
}

// TestLicenseCommand writes the license token under the SDK root.
func TestLicenseCommand(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, &config.Config{AndroidSdkPath: root})

	_, err := runRoot(t, "license", "--config", path)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "licenses", sdk.LicenseFilename))
	require.NoError(t, err)
	require.Equal(t, sdk.LicenseToken, string(data))
}

// TestConfigErrors rejects a missing explicit file and unknown log levels.
func TestConfigErrors(t *testing.T) {
	_, err := runRoot(t, "home", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := writeConfig(t, &config.Config{AndroidSdkPath: "/sdk"})

	_, err = runRoot(t, "home", "--config", path, "--log-level", "loud")
	require.ErrorIs(t, err, errUnknownLogLevel)

	_, err = runRoot(t, "home", "--config", path, "--log-level", "info")
	require.NoError(t, err)
}

// TestInitCommand merges flag values into the configuration file.
func TestInitCommand(t *testing.T) {
	source := writeConfig(t, &config.Config{AndroidSdkPath: "/sdk", BuildToolsVersion: "30.0.3"})

	_, err := runRoot(t, "init", "--config", source, "--sdk", "/opt/android-sdk", "--platform", "linux")
	require.NoError(t, err)

	saved, err := config.Read(source)
	require.NoError(t, err)
	require.Equal(t, "/opt/android-sdk", saved.AndroidSdkPath)
	require.Equal(t, "30.0.3", saved.BuildToolsVersion)
	require.Equal(t, "linux", saved.Platform)
}

// TestArchiveCommands_InPlaceFlags keeps --in-place of sign away from zipalign.
func TestArchiveCommands_InPlaceFlags(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake build tools are POSIX shell scripts")
	}

	root := t.TempDir()
	buildTools := filepath.Join(root, "build-tools", "29.0.2")
	require.NoError(t, os.MkdirAll(buildTools, 0o755))

	//nolint:gosec // Test scripts must be executable.
	require.NoError(t, os.WriteFile(filepath.Join(buildTools, "zipalign"),
		[]byte("#!/bin/sh\n{ echo aligned; cat \"$5\"; } > \"$6\"\n"), 0o755))
	//nolint:gosec // Test scripts must be executable.
	require.NoError(t, os.WriteFile(filepath.Join(buildTools, "apksigner"),
		[]byte("#!/bin/sh\n{ echo signed; cat \"${12}\"; } > \"${11}\"\n"), 0o755))

	path := writeConfig(t, &config.Config{AndroidSdkPath: root, Platform: "linux"})
	dir := t.TempDir()
	input := filepath.Join(dir, "app.apk")
	output := filepath.Join(dir, "app-aligned.apk")
	require.NoError(t, os.WriteFile(input, []byte("payload\n"), 0o644))

	_, err := runRoot(t, "sign", "--config", path, "-i", "--ks", "release.jks", "--alias", "upload", input, output)
	require.NoError(t, err)
	require.NoFileExists(t, output)

	_, err = runRoot(t, "zipalign", "--config", path, input, output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, "aligned\nsigned\npayload\n", string(data))

	data, err = os.ReadFile(input)
	require.NoError(t, err)
	require.Equal(t, "signed\npayload\n", string(data))
}
