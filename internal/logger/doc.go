// Package logger wraps zap with a global sugared console logger and
// context helpers (ToContext/FromContext/WithName/WithKV).
//
// Commands and services take a context and log through it, so every
// subprocess invocation is reported under the name of the step that ran it.
package logger
