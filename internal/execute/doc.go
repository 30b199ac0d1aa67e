// Package execute runs external binaries with an explicit argv and environment.
//
// Interactive commands share the terminal with the caller; other commands
// have their output captured, logged at debug level and attached to the
// returned *Error. Nothing is ever passed through a shell.
package execute
