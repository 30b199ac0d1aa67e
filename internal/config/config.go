package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every SDK tool invocation.
type Config struct {
	// AndroidSdkPath is the root directory of the Android SDK.
	AndroidSdkPath string `yaml:"android_sdk_path" toml:"android_sdk_path"`
	// JdkPath is the JDK installation used by sdkmanager and apksigner.
	JdkPath string `yaml:"jdk_path,omitempty" toml:"jdk_path,omitempty"`
	// BuildToolsVersion selects the build-tools directory to install and invoke.
	BuildToolsVersion string `yaml:"build_tools_version" toml:"build_tools_version"`
	// Platform overrides the host GOOS used for path conventions.
	// Empty means the running host.
	Platform string `yaml:"platform,omitempty" toml:"platform,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for tool settings.
	DefaultConfigFilename = "android-sdk-tools.yaml"

	// DefaultBuildToolsVersion is the build-tools release targeted when none is configured.
	DefaultBuildToolsVersion = "29.0.2"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

// Environment variables consulted by ApplyEnv, in lookup order.
const (
	EnvAndroidSdkRoot = "ANDROID_SDK_ROOT"
	EnvAndroidHome    = "ANDROID_HOME"
	EnvJavaHome       = "JAVA_HOME"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errSdkPathRequired is returned when the Android SDK root is missing.
	errSdkPathRequired = errors.New("android sdk path must be provided")
	// errBadBuildToolsVersion is returned for versions that cannot name a build-tools directory.
	errBadBuildToolsVersion = errors.New("invalid build-tools version")
	// errUnsupportedFormat is returned for config files that are neither YAML nor TOML.
	errUnsupportedFormat = errors.New("unsupported config format")
)

// buildToolsVersionPattern matches releases such as 29.0.2 or 30.0.0-rc4.
var buildToolsVersionPattern = regexp.MustCompile(`^\d+(\.\d+)*(-rc\d+)?$`)

// HostPlatform returns the configured platform or the running GOOS.
func (c *Config) HostPlatform() string {
	if c.Platform != "" {
		return strings.ToLower(c.Platform)
	}

	return runtime.GOOS
}

// Read decodes the file at path without validating it.
// The returned error wraps os.ErrNotExist when the file is missing.
func Read(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config

	switch format(path) {
	case formatTOML:
		if err = toml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case formatYAML:
		if err = yaml.Unmarshal(contents, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	default:
		return nil, fmt.Errorf("%s: %w", path, errUnsupportedFormat)
	}

	return &cfg, nil
}

// Load reads configuration from path, fills empty fields from the
// environment and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	ApplyEnv(cfg, os.LookupEnv)

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path as YAML or TOML depending on the extension.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)

	switch format(path) {
	case formatTOML:
		var buf bytes.Buffer
		if err = toml.NewEncoder(&buf).Encode(cfg); err == nil {
			data = buf.Bytes()
		}
	case formatYAML:
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("%s: %w", path, errUnsupportedFormat)
	}

	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Merge copies every non-empty field of src over dst.
func Merge(dst, src *Config) {
	if dst == nil || src == nil {
		return
	}

	if src.AndroidSdkPath != "" {
		dst.AndroidSdkPath = src.AndroidSdkPath
	}

	if src.JdkPath != "" {
		dst.JdkPath = src.JdkPath
	}

	if src.BuildToolsVersion != "" {
		dst.BuildToolsVersion = src.BuildToolsVersion
	}

	if src.Platform != "" {
		dst.Platform = src.Platform
	}
}

// ApplyEnv fills empty SDK and JDK paths using lookup.
// ANDROID_SDK_ROOT wins over the deprecated ANDROID_HOME.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if cfg == nil || lookup == nil {
		return
	}

	if cfg.AndroidSdkPath == "" {
		for _, key := range []string{EnvAndroidSdkRoot, EnvAndroidHome} {
			if value, ok := lookup(key); ok && value != "" {
				cfg.AndroidSdkPath = value
				break
			}
		}
	}

	if cfg.JdkPath == "" {
		if value, ok := lookup(EnvJavaHome); ok {
			cfg.JdkPath = value
		}
	}
}

// Validate checks required fields and sets defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	cfg.AndroidSdkPath = strings.TrimSpace(cfg.AndroidSdkPath)
	if cfg.AndroidSdkPath == "" {
		return errSdkPathRequired
	}

	if cfg.BuildToolsVersion == "" {
		cfg.BuildToolsVersion = DefaultBuildToolsVersion
	}

	if !buildToolsVersionPattern.MatchString(cfg.BuildToolsVersion) {
		return fmt.Errorf("%q: %w", cfg.BuildToolsVersion, errBadBuildToolsVersion)
	}

	return nil
}

type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatYAML
	formatTOML
)

func format(path string) fileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".toml":
		return formatTOML
	default:
		return formatUnknown
	}
}
