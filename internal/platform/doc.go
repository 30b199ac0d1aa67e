// Package platform resolves host path conventions: POSIX and Windows path
// joining, executable and script suffixes, and PATH list separators.
//
// Joiners are plain functions so a caller can pick one at construction
// time and never branch on the host again.
package platform
