// Package packager runs the usual build-tools sequence for an application
// archive: make sure the targeted build-tools version is installed, accept
// the SDK license, then align and optionally sign the archive.
package packager
