// Package sdk locates and runs the Android SDK build tools.
//
// Tools resolves sdkmanager, zipalign and apksigner under a configured SDK
// root and build-tools version, builds their environment (the JDK helper's
// environment plus ANDROID_HOME), accepts the SDK license on disk and runs
// each tool as a single child process with an explicit argv.
//
// Operations are independent and stateless beyond the configuration copied
// at construction. Ordering (check, install, license, align, sign) is up to
// the caller; see the packager service for the usual sequence.
package sdk
