// Package filesystem provides the filesystem used by modloader.
//
// Everything that touches disk goes through an afero.Fs so the whole
// pipeline can run against an in-memory filesystem in tests. The helpers
// here cover the few operations the engine needs beyond afero itself:
// metadata-preserving copies, strict and lossy text reads, and pruning of
// empty directory trees.
package filesystem
