package platform

import (
	"path"
	"strings"
)

const (
	// Windows is the GOOS value of Windows hosts.
	Windows = "windows"
	// Darwin is the GOOS value of macOS hosts.
	Darwin = "darwin"
)

// Joiner joins path elements using one host path convention.
type Joiner func(elem ...string) string

// JoinerFor returns WindowsJoin for Windows and PosixJoin for every other GOOS.
func JoinerFor(goos string) Joiner {
	if IsWindows(goos) {
		return WindowsJoin
	}

	return PosixJoin
}

// IsWindows reports whether goos names a Windows host.
func IsWindows(goos string) bool {
	return strings.EqualFold(goos, Windows)
}

// ExecutableName appends ".exe" to native binaries on Windows.
func ExecutableName(goos, name string) string {
	if IsWindows(goos) {
		return name + ".exe"
	}

	return name
}

// ScriptName appends ".bat" to SDK launcher scripts on Windows.
func ScriptName(goos, name string) string {
	if IsWindows(goos) {
		return name + ".bat"
	}

	return name
}

// ListSeparator returns the PATH list separator for goos.
func ListSeparator(goos string) string {
	if IsWindows(goos) {
		return ";"
	}

	return ":"
}

// PosixJoin joins elements with "/", cleans the result and keeps a
// trailing separator when the joined path ends with one.
func PosixJoin(elem ...string) string {
	joined := strings.Join(nonEmpty(elem), "/")
	if joined == "" {
		return "."
	}

	trailing := strings.HasSuffix(joined, "/")

	cleaned := path.Clean(joined)
	if trailing && !strings.HasSuffix(cleaned, "/") {
		cleaned += "/"
	}

	return cleaned
}

// WindowsJoin joins elements with `\`, accepting either separator in the input.
// Drive letters and UNC prefixes are preserved, as is a trailing separator.
func WindowsJoin(elem ...string) string {
	parts := nonEmpty(elem)

	joined := strings.ReplaceAll(strings.Join(parts, "/"), `\`, "/")
	if joined == "" {
		return "."
	}

	unc := isUNC(strings.ReplaceAll(parts[0], `\`, "/"))
	trailing := strings.HasSuffix(joined, "/")

	var volume string
	if len(joined) >= 2 && joined[1] == ':' && isLetter(joined[0]) {
		volume, joined = joined[:2], joined[2:]
	}

	cleaned := joined
	if cleaned != "" {
		cleaned = path.Clean(cleaned)
	}

	if cleaned == "." && volume != "" {
		cleaned = ""
	}

	result := volume + strings.ReplaceAll(cleaned, "/", `\`)
	if unc {
		result = `\` + result
	}

	if trailing && !strings.HasSuffix(result, `\`) {
		result += `\`
	}

	return result
}

func isUNC(p string) bool {
	return len(p) > 2 && strings.HasPrefix(p, "//") && p[2] != '/'
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func nonEmpty(elem []string) []string {
	out := make([]string, 0, len(elem))
	for _, e := range elem {
		if e != "" {
			out = append(out, e)
		}
	}

	return out
}
