package sdk

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/oshokin/android-sdk-tools/internal/execute"
	"github.com/oshokin/android-sdk-tools/internal/logger"
)

const (
	// LicenseFilename is the token file sdkmanager reads to skip the license prompt.
	LicenseFilename = "android-sdk-license"
	// LicenseToken is the hash of the accepted Android SDK license text.
	LicenseToken = "24333f8a63b6825ea9c5514f83c2829b004d1fee"

	licensesDirMode os.FileMode = 0o755
	licenseFileMode os.FileMode = 0o644
)

// ErrInstallInProgress is returned while another install holds the SDK root lock.
var ErrInstallInProgress = errors.New("an sdkmanager install is already running")

// InstallBuildTools runs sdkmanager --install build-tools;<version> with the
// terminal attached so license prompts and progress stay visible.
// The install lock under the SDK root is held until sdkmanager exits.
func (t *Tools) InstallBuildTools(ctx context.Context) error {
	ctx = logger.WithKV(ctx, "build_tools_version", t.version)

	lock, err := t.acquireInstallLock(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if releaseErr := lock.release(); releaseErr != nil {
			logger.WarnKV(ctx, "Unable to release install lock", "error", releaseErr)
		}
	}()

	logger.Info(ctx, "Installing build tools")

	cmd := execute.Command{
		Path:        t.SDKManagerPath(),
		Args:        []string{"--install", "build-tools;" + t.version},
		Env:         t.Env(),
		Interactive: true,
	}

	return t.runner.Run(ctx, cmd)
}

// CheckBuildTools reports whether the build-tools directory of the targeted
// version exists. Any stat error counts as absent.
func (t *Tools) CheckBuildTools() bool {
	_, err := os.Stat(t.BuildToolsPath())
	return err == nil
}

// WriteLicenseFile creates the licenses directory and writes the license token,
// replacing any previous content.
func (t *Tools) WriteLicenseFile() error {
	if err := os.MkdirAll(t.LicensesPath(), licensesDirMode); err != nil {
		return fmt.Errorf("create licenses directory: %w", err)
	}

	if err := replaceFile(t.LicensePath(), []byte(LicenseToken), licenseFileMode); err != nil {
		return fmt.Errorf("write license file: %w", err)
	}

	return nil
}
