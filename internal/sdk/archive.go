package sdk

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/oshokin/android-sdk-tools/internal/execute"
	"github.com/oshokin/android-sdk-tools/internal/logger"
)

// alignment is the zip entry alignment in bytes; -p additionally page-aligns
// uncompressed shared libraries.
const alignment = "4"

const artifactFileMode = 0o644

// SignRequest holds the apksigner inputs.
// Passwords are passed as pass:<value> arguments and are visible in the
// process list of the host while apksigner runs.
type SignRequest struct {
	// Keystore is the path to the keystore file.
	Keystore string
	// KeystorePassword unlocks the keystore.
	KeystorePassword string
	// KeyAlias selects the signing key inside the keystore.
	KeyAlias string
	// KeyPassword unlocks the key.
	KeyPassword string
	// Input is the archive to sign.
	Input string
	// Output is where the signed archive is written.
	Output string
}

// ZipalignArgs returns the zipalign argv realigning input into output.
func ZipalignArgs(input, output string) []string {
	return []string{"-v", "-f", "-p", alignment, input, output}
}

// ApksignerArgs returns the apksigner argv for req. Passwords are embedded verbatim.
func ApksignerArgs(req SignRequest) []string {
	return []string{
		"sign",
		"--ks", req.Keystore,
		"--ks-key-alias", req.KeyAlias,
		"--ks-pass", "pass:" + req.KeystorePassword,
		"--key-pass", "pass:" + req.KeyPassword,
		"--out", req.Output,
		req.Input,
	}
}

// Zipalign realigns input into output.
func (t *Tools) Zipalign(ctx context.Context, input, output string) error {
	logger.InfoKV(ctx, "Aligning archive", "input", input, "output", output)

	return t.runner.Run(ctx, execute.Command{
		Path: t.ZipalignPath(),
		Args: ZipalignArgs(input, output),
		Env:  t.Env(),
	})
}

// CheckAlignment reports whether input is already aligned.
// A non-zero exit of zipalign -c means not aligned; any other failure is returned.
func (t *Tools) CheckAlignment(ctx context.Context, input string) (bool, error) {
	err := t.runner.Run(ctx, execute.Command{
		Path: t.ZipalignPath(),
		Args: []string{"-c", "-p", "-v", alignment, input},
		Env:  t.Env(),
	})
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.DebugKV(ctx, "Archive is not aligned", "input", input)
		return false, nil
	}

	return false, err
}

// Apksigner signs req.Input into req.Output.
func (t *Tools) Apksigner(ctx context.Context, req SignRequest) error {
	logger.InfoKV(ctx, "Signing archive", "input", req.Input, "output", req.Output, "alias", req.KeyAlias)

	return t.runner.Run(ctx, execute.Command{
		Path:      t.ApksignerPath(),
		Args:      ApksignerArgs(req),
		Env:       t.Env(),
		Sensitive: true,
	})
}

// ZipalignInPlace realigns path, replacing it only after zipalign succeeded.
func (t *Tools) ZipalignInPlace(ctx context.Context, path string) error {
	return t.inPlace(path, func(tmp string) error {
		return t.Zipalign(ctx, path, tmp)
	})
}

// ApksignerInPlace signs req.Input and replaces it with the signed archive.
// req.Output is ignored.
func (t *Tools) ApksignerInPlace(ctx context.Context, req SignRequest) error {
	return t.inPlace(req.Input, func(tmp string) error {
		req.Output = tmp
		return t.Apksigner(ctx, req)
	})
}

// inPlace runs produce with a temporary sibling of path and swaps the result over path.
func (t *Tools) inPlace(path string, produce func(tmp string) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("create temporary archive: %w", err)
	}

	tmpPath := tmp.Name()
	_ = tmp.Close()

	if err = produce(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err = replaceFromFile(path, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace archive: %w", err)
	}

	return nil
}
