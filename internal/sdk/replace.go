package sdk

import (
	"bytes"
	"crypto"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"
)

// replaceFile swaps data into target through a sibling file and a rename,
// verifying the written bytes against their SHA-256 checksum.
// Readers never observe partially written content, but target is briefly
// absent while the old file is moved aside.
func replaceFile(target string, data []byte, mode os.FileMode) error {
	target = filepath.Clean(target)

	// go-update renames the current target aside first, so it has to exist.
	if _, err := os.Stat(target); errors.Is(err, os.ErrNotExist) {
		f, createErr := os.OpenFile(target, os.O_CREATE|os.O_WRONLY, mode)
		if createErr != nil {
			return createErr
		}

		if createErr = f.Close(); createErr != nil {
			return createErr
		}
	} else if err != nil {
		return err
	}

	checksum := sha256.Sum256(data)

	options := goupdate.Options{
		TargetPath: target,
		TargetMode: mode,
		Checksum:   checksum[:],
		Hash:       crypto.SHA256,
	}

	if err := goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return fmt.Errorf("replace %s: %w", target, err)
	}

	return nil
}

// replaceFromFile moves the content of source over target and removes source.
func replaceFromFile(target, source string) error {
	data, err := os.ReadFile(filepath.Clean(source))
	if err != nil {
		return err
	}

	mode := os.FileMode(artifactFileMode)
	if info, statErr := os.Stat(target); statErr == nil {
		mode = info.Mode().Perm()
	}

	if err = replaceFile(target, data, mode); err != nil {
		return err
	}

	return os.Remove(source)
}
