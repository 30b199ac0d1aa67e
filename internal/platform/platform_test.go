package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPosixJoin covers cleaning and trailing separator handling.
func TestPosixJoin(t *testing.T) {
	t.Parallel()

	cases := []struct {
		elem []string
		want string
	}{
		{[]string{"/sdk", "/"}, "/sdk/"},
		{[]string{"/sdk/", "/"}, "/sdk/"},
		{[]string{"/sdk/", "/build-tools/", "29.0.2"}, "/sdk/build-tools/29.0.2"},
		{[]string{"/sdk/", "licenses", "/android-sdk-license"}, "/sdk/licenses/android-sdk-license"},
		{[]string{"sdk", "..", "other", "./x/"}, "other/x/"},
		{[]string{"/", "/"}, "/"},
		{[]string{"", ""}, "."},
		{nil, "."},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, PosixJoin(tc.elem...), "%q", tc.elem)
	}
}

// TestWindowsJoin covers drive letters, UNC shares and mixed separators.
func TestWindowsJoin(t *testing.T) {
	t.Parallel()

	cases := []struct {
		elem []string
		want string
	}{
		{[]string{`C:\sdk`, "/"}, `C:\sdk\`},
		{[]string{`C:\sdk\`, "/build-tools/", "29.0.2"}, `C:\sdk\build-tools\29.0.2`},
		{[]string{"C:/Android/Sdk", "tools/bin/sdkmanager.bat"}, `C:\Android\Sdk\tools\bin\sdkmanager.bat`},
		{[]string{"C:", "/"}, `C:\`},
		{[]string{`\\server\share`, "sdk", "/"}, `\\server\share\sdk\`},
		{[]string{`sdk\..\jdk`, "bin"}, `jdk\bin`},
		{nil, "."},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, WindowsJoin(tc.elem...), "%q", tc.elem)
	}
}

// TestJoinerFor picks the convention once per platform.
func TestJoinerFor(t *testing.T) {
	t.Parallel()

	require.Equal(t, `D:\sdk\`, JoinerFor("windows")(`D:\sdk`, "/"))
	require.Equal(t, `D:\sdk\`, JoinerFor("Windows")(`D:\sdk`, "/"))
	require.Equal(t, "/sdk/", JoinerFor("linux")("/sdk", "/"))
	require.Equal(t, "/sdk/", JoinerFor("darwin")("/sdk", "/"))
}

// TestNames checks per-platform executable suffixes.
func TestNames(t *testing.T) {
	t.Parallel()

	require.Equal(t, "zipalign.exe", ExecutableName(Windows, "zipalign"))
	require.Equal(t, "zipalign", ExecutableName("linux", "zipalign"))
	require.Equal(t, "apksigner.bat", ScriptName(Windows, "apksigner"))
	require.Equal(t, "apksigner", ScriptName(Darwin, "apksigner"))
	require.Equal(t, ";", ListSeparator(Windows))
	require.Equal(t, ":", ListSeparator("linux"))
}
