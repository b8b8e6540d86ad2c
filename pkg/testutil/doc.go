// Package testutil provides test environments for modloader components.
//
// Key components:
//   - Environment: a game install, mods folder, backup folder and workshop
//     content root on an in-memory or temporary filesystem
//   - ModBuilder: declarative mod setup (manifest, rule file, spec files)
//   - FailingFS: an afero.Fs wrapper that injects errors for chosen paths
//
// Most tests should use EnvMemoryOnly; EnvIsolated exists for code that
// needs a real working directory.
package testutil
