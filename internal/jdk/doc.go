// Package jdk supplies the base environment for JVM-based SDK tools:
// the process environment with JAVA_HOME pointing at the configured JDK
// and its bin directory first on PATH.
package jdk
