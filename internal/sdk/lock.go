package sdk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/oshokin/android-sdk-tools/internal/logger"
)

const (
	installLockFilename = ".android-sdk-tools-install.lock"
	installLockMode     = 0o644

	// acquireAttempts bounds how often a stale lock is removed before giving up.
	acquireAttempts = 2
)

// installLock marks a running InstallBuildTools under one SDK root.
// The file holds "<pid>\n<process name>\n" of its owner.
type installLock struct {
	path string
}

// InstallLockPath returns the file held while sdkmanager installs into the SDK root.
func (t *Tools) InstallLockPath() string {
	return t.join(t.AndroidHome(), installLockFilename)
}

// acquireInstallLock creates the install lock, reclaiming it when its owner is
// gone. A live owner yields ErrInstallInProgress.
func (t *Tools) acquireInstallLock(ctx context.Context) (*installLock, error) {
	path := t.InstallLockPath()

	if err := os.MkdirAll(t.AndroidHome(), licensesDirMode); err != nil {
		return nil, fmt.Errorf("create sdk root: %w", err)
	}

	pid := os.Getpid()

	name, err := t.processName(pid)
	if err != nil {
		return nil, fmt.Errorf("inspect current process: %w", err)
	}

	content := strconv.Itoa(pid) + "\n" + name + "\n"

	for attempt := 0; attempt < acquireAttempts; attempt++ {
		f, openErr := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, installLockMode)
		if openErr == nil {
			_, err = f.WriteString(content)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}

			if err != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("write install lock: %w", err)
			}

			return &installLock{path: path}, nil
		}

		if !errors.Is(openErr, os.ErrExist) {
			return nil, fmt.Errorf("create install lock: %w", openErr)
		}

		held, heldErr := t.lockHeld(path)
		if heldErr != nil {
			return nil, heldErr
		}

		if held {
			return nil, fmt.Errorf("%w: %s", ErrInstallInProgress, path)
		}

		logger.WarnKV(ctx, "Removing stale install lock", "path", path)

		if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("remove stale install lock: %w", err)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrInstallInProgress, path)
}

// lockHeld reports whether the process recorded in the lock at path still runs.
// A lock that vanished is free; one that cannot be parsed is treated as held,
// since its owner may still be writing it.
func (t *Tools) lockHeld(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("read install lock: %w", err)
	}

	rawPID, owner, ok := strings.Cut(string(data), "\n")
	owner = strings.TrimSuffix(owner, "\n")

	pid, convErr := strconv.Atoi(rawPID)
	if !ok || convErr != nil || owner == "" {
		return true, nil
	}

	name, err := t.processName(pid)
	if err != nil {
		return false, fmt.Errorf("inspect install lock owner: %w", err)
	}

	// A different name means the pid was reused after the owner exited.
	return name == owner, nil
}

func (l *installLock) release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove install lock: %w", err)
	}

	return nil
}
