package jdk

import (
	"os"
	"strings"

	"github.com/oshokin/android-sdk-tools/internal/platform"
)

const (
	// envJavaHome is set to the resolved JDK home for child processes.
	envJavaHome = "JAVA_HOME"
	// envPath receives <JAVA_HOME>/bin as its first entry.
	envPath = "PATH"
)

// Helper builds the base environment for SDK tools that run on the JVM.
type Helper struct {
	// jdkPath is the configured JDK installation, possibly empty.
	jdkPath string
	// goos selects path conventions and the macOS bundle layout.
	goos string
	// join is the path joiner for goos.
	join platform.Joiner
	// environ returns the process environment in KEY=VALUE form.
	environ func() []string
}

// Option customizes a Helper.
type Option func(*Helper)

// WithEnviron replaces os.Environ as the source of the base environment.
func WithEnviron(environ func() []string) Option {
	return func(h *Helper) {
		if environ != nil {
			h.environ = environ
		}
	}
}

// NewHelper creates a helper for the JDK at jdkPath on goos.
func NewHelper(jdkPath, goos string, opts ...Option) *Helper {
	h := &Helper{
		jdkPath: jdkPath,
		goos:    goos,
		join:    platform.JoinerFor(goos),
		environ: os.Environ,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// JavaHome returns the JDK home with a trailing separator, or "" when no JDK is configured.
// macOS JDK bundles keep the home under Contents/Home.
func (h *Helper) JavaHome() string {
	if h.jdkPath == "" {
		return ""
	}

	if strings.EqualFold(h.goos, platform.Darwin) {
		return h.join(h.jdkPath, "Contents", "Home", "/")
	}

	return h.join(h.jdkPath, "/")
}

// Env returns a fresh copy of the process environment with JAVA_HOME set and
// the JDK bin directory prepended to PATH.
func (h *Helper) Env() map[string]string {
	env := parseEnviron(h.environ())

	javaHome := h.JavaHome()
	if javaHome == "" {
		return env
	}

	env[envJavaHome] = javaHome

	pathKey := h.pathKey(env)
	bin := h.join(javaHome, "bin")

	if current := env[pathKey]; current != "" {
		env[pathKey] = bin + platform.ListSeparator(h.goos) + current
	} else {
		env[pathKey] = bin
	}

	return env
}

// pathKey finds the PATH variable name; Windows environments often spell it "Path".
func (h *Helper) pathKey(env map[string]string) string {
	if !platform.IsWindows(h.goos) {
		return envPath
	}

	for key := range env {
		if strings.EqualFold(key, envPath) {
			return key
		}
	}

	return envPath
}

// parseEnviron converts KEY=VALUE entries into a map.
// Entries without a key, such as Windows per-drive "=C:" variables, are skipped.
func parseEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))

	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}

		env[key] = value
	}

	return env
}
