// Package source acquires the source tree to analyze: shallow git
// clones for remote repositories and a filesystem walker that loads
// recognized code files as documents.
package source
