package sdk

import (
	"errors"
	"maps"

	"github.com/oshokin/android-sdk-tools/internal/config"
	"github.com/oshokin/android-sdk-tools/internal/execute"
	"github.com/oshokin/android-sdk-tools/internal/jdk"
	"github.com/oshokin/android-sdk-tools/internal/platform"
)

// EnvAndroidHome points child processes at the SDK root.
const EnvAndroidHome = "ANDROID_HOME"

const (
	sdkManagerName      = "sdkmanager"
	zipalignName        = "zipalign"
	apksignerName       = "apksigner"
	buildToolsDirectory = "build-tools"
	licensesDirectory   = "licenses"
)

var (
	errConfigRequired      = errors.New("sdk tools: configuration is required")
	errEnvProviderRequired = errors.New("sdk tools: environment provider is required")
)

// EnvProvider supplies the base environment for SDK tool processes.
type EnvProvider interface {
	Env() map[string]string
}

// Tools locates and runs the build tools of one SDK root and build-tools version.
// It copies what it needs from the configuration at construction and is safe
// for concurrent use; the tools it runs may not be.
type Tools struct {
	root        string
	version     string
	goos        string
	join        platform.Joiner
	env         EnvProvider
	runner      execute.Runner
	processName func(pid int) (string, error)
}

// Option customizes Tools.
type Option func(*Tools)

// WithPlatform overrides the GOOS whose path conventions are used.
func WithPlatform(goos string) Option {
	return func(t *Tools) {
		if goos != "" {
			t.goos = goos
		}
	}
}

// WithProcessLookup replaces the process-table lookup used to tell live
// install locks from stale ones.
func WithProcessLookup(processName func(pid int) (string, error)) Option {
	return func(t *Tools) {
		if processName != nil {
			t.processName = processName
		}
	}
}

// New creates Tools for cfg. A nil runner defaults to execute.NewExecutor.
func New(cfg *config.Config, env EnvProvider, runner execute.Runner, opts ...Option) (*Tools, error) {
	if cfg == nil {
		return nil, errConfigRequired
	}

	if env == nil {
		return nil, errEnvProviderRequired
	}

	// Validate a copy so the caller's configuration is never modified.
	settings := *cfg
	if err := config.Validate(&settings); err != nil {
		return nil, err
	}

	if runner == nil {
		runner = execute.NewExecutor()
	}

	t := &Tools{
		root:        settings.AndroidSdkPath,
		version:     settings.BuildToolsVersion,
		goos:        settings.HostPlatform(),
		env:         env,
		runner:      runner,
		processName: execute.ProcessName,
	}

	for _, opt := range opts {
		opt(t)
	}

	t.join = platform.JoinerFor(t.goos)

	return t, nil
}

// NewFromConfig creates Tools with the JDK helper from cfg and the default executor.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Tools, error) {
	if cfg == nil {
		return nil, errConfigRequired
	}

	return New(cfg, jdk.NewHelper(cfg.JdkPath, cfg.HostPlatform()), nil, opts...)
}

// BuildToolsVersion returns the targeted build-tools version.
func (t *Tools) BuildToolsVersion() string {
	return t.version
}

// AndroidHome returns the SDK root with a trailing separator.
func (t *Tools) AndroidHome() string {
	return t.join(t.root, "/")
}

// Env returns the runtime helper's environment with ANDROID_HOME set.
// Each call builds a new map.
func (t *Tools) Env() map[string]string {
	base := t.env.Env()

	env := make(map[string]string, len(base)+1)
	maps.Copy(env, base)
	env[EnvAndroidHome] = t.AndroidHome()

	return env
}

// SDKManagerPath returns the sdkmanager launcher under tools/bin.
func (t *Tools) SDKManagerPath() string {
	return t.join(t.AndroidHome(), "tools", "bin", platform.ScriptName(t.goos, sdkManagerName))
}

// BuildToolsPath returns the build-tools directory of the targeted version.
func (t *Tools) BuildToolsPath() string {
	return t.join(t.AndroidHome(), buildToolsDirectory, t.version)
}

// ZipalignPath returns the zipalign binary of the targeted version.
func (t *Tools) ZipalignPath() string {
	return t.join(t.BuildToolsPath(), platform.ExecutableName(t.goos, zipalignName))
}

// ApksignerPath returns the apksigner launcher of the targeted version.
func (t *Tools) ApksignerPath() string {
	return t.join(t.BuildToolsPath(), platform.ScriptName(t.goos, apksignerName))
}

// LicensesPath returns the directory holding accepted license tokens.
func (t *Tools) LicensesPath() string {
	return t.join(t.AndroidHome(), licensesDirectory)
}

// LicensePath returns the file recording acceptance of the SDK license.
func (t *Tools) LicensePath() string {
	return t.join(t.LicensesPath(), LicenseFilename)
}
