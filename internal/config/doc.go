// Package config defines the settings used to locate the Android SDK and
// the JDK and provides helpers to load, validate and save them as YAML or TOML.
//
// Empty SDK and JDK paths fall back to ANDROID_SDK_ROOT, ANDROID_HOME and JAVA_HOME.
package config
