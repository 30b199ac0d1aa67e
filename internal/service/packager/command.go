package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/android-sdk-tools/internal/config"
	"github.com/oshokin/android-sdk-tools/internal/execute"
	"github.com/oshokin/android-sdk-tools/internal/jdk"
	"github.com/oshokin/android-sdk-tools/internal/logger"
	"github.com/oshokin/android-sdk-tools/internal/sdk"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// Config is the resolved tool configuration.
	Config *config.Config
	// Input is the archive to align and sign. Empty skips both steps.
	Input string
	// Output is the final archive. Empty or equal to Input processes Input in place.
	Output string
	// Keystore enables signing when set.
	Keystore string
	// KeystorePassword unlocks Keystore.
	KeystorePassword string
	// KeyAlias selects the signing key.
	KeyAlias string
	// KeyPassword unlocks the key.
	KeyPassword string
	// Runner overrides the subprocess runner; nil uses the os/exec executor.
	Runner execute.Runner
	// ToolOptions are forwarded to sdk.New.
	ToolOptions []sdk.Option
}

var (
	errConfigRequired = errors.New("configuration is required")
	errInputRequired  = errors.New("an input archive is required for signing")
	errAliasRequired  = errors.New("a key alias is required for signing")
)

// packager holds the tools of a single run.
type packager struct {
	tools *sdk.Tools
	opts  *Options
}

// Run executes the packaging workflow.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "packager")

	if err := validate(opts); err != nil {
		return err
	}

	cfg := opts.Config

	tools, err := sdk.New(cfg, jdk.NewHelper(cfg.JdkPath, cfg.HostPlatform()), opts.Runner, opts.ToolOptions...)
	if err != nil {
		return fmt.Errorf("initialize sdk tools: %w", err)
	}

	p := &packager{
		tools: tools,
		opts:  opts,
	}

	if err = p.Run(ctx); err != nil {
		return fmt.Errorf("packager failed: %w", err)
	}

	logger.Info(ctx, "Packager completed successfully")

	return nil
}

func validate(opts *Options) error {
	if opts == nil || opts.Config == nil {
		return errConfigRequired
	}

	if opts.Keystore == "" {
		return nil
	}

	if opts.Input == "" {
		return errInputRequired
	}

	if opts.KeyAlias == "" {
		return errAliasRequired
	}

	return nil
}

// Run ensures build tools and the license, then processes the archive.
func (p *packager) Run(ctx context.Context) error {
	if err := p.ensureBuildTools(ctx); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Writing license file", "path", p.tools.LicensePath())

	if err := p.tools.WriteLicenseFile(); err != nil {
		return err
	}

	if p.opts.Input == "" {
		return nil
	}

	if p.opts.Keystore == "" {
		return p.align(ctx)
	}

	return p.sign(ctx)
}

// ensureBuildTools installs the targeted build-tools version when it is missing.
func (p *packager) ensureBuildTools(ctx context.Context) error {
	if p.tools.CheckBuildTools() {
		logger.InfoKV(ctx, "Build tools found", "path", p.tools.BuildToolsPath())
		return nil
	}

	logger.InfoKV(ctx, "Build tools missing", "path", p.tools.BuildToolsPath())

	if err := p.tools.InstallBuildTools(ctx); err != nil {
		return fmt.Errorf("install build tools: %w", err)
	}

	return nil
}

// align realigns the input without signing it.
func (p *packager) align(ctx context.Context) error {
	if p.inPlace() {
		return p.tools.ZipalignInPlace(ctx, p.opts.Input)
	}

	return p.tools.Zipalign(ctx, p.opts.Input, p.opts.Output)
}

// sign aligns the input when needed and signs it into the output.
func (p *packager) sign(ctx context.Context) error {
	req := sdk.SignRequest{
		Keystore:         p.opts.Keystore,
		KeystorePassword: p.opts.KeystorePassword,
		KeyAlias:         p.opts.KeyAlias,
		KeyPassword:      p.opts.KeyPassword,
		Input:            p.opts.Input,
		Output:           p.opts.Output,
	}

	aligned, err := p.tools.CheckAlignment(ctx, p.opts.Input)
	if err != nil {
		return fmt.Errorf("check alignment: %w", err)
	}

	if p.inPlace() {
		if !aligned {
			if err = p.tools.ZipalignInPlace(ctx, p.opts.Input); err != nil {
				return err
			}
		}

		return p.tools.ApksignerInPlace(ctx, req)
	}

	if !aligned {
		intermediate, createErr := intermediateArchive(p.opts.Output)
		if createErr != nil {
			return createErr
		}

		defer func() {
			_ = os.Remove(intermediate)
		}()

		if err = p.tools.Zipalign(ctx, p.opts.Input, intermediate); err != nil {
			return err
		}

		req.Input = intermediate
	} else {
		logger.InfoKV(ctx, "Archive already aligned", "input", p.opts.Input)
	}

	return p.tools.Apksigner(ctx, req)
}

func (p *packager) inPlace() bool {
	return p.opts.Output == "" || filepath.Clean(p.opts.Output) == filepath.Clean(p.opts.Input)
}

// intermediateArchive creates a new hidden file next to output to hold the
// aligned, unsigned archive. The name never collides with an existing file.
func intermediateArchive(output string) (string, error) {
	base := filepath.Base(output)
	ext := filepath.Ext(base)

	tmp, err := os.CreateTemp(filepath.Dir(output), "."+strings.TrimSuffix(base, ext)+"-aligned.*"+ext)
	if err != nil {
		return "", fmt.Errorf("create intermediate archive: %w", err)
	}

	name := tmp.Name()
	if err = tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("create intermediate archive: %w", err)
	}

	return name, nil
}
