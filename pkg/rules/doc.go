// Package rules holds the patch rules a mod declares and the merge that
// folds the rules of every enabled mod into one bundle.
//
// # Rule categories
//
// All categories are keyed by a game-relative path normalized with
// NormalizePath:
//
//   - LINE_REPLACEMENTS: path -> function -> [old, new] pairs, applied inside
//     the named function only.
//   - FUNCTION_REPLACEMENTS: path -> function -> spec, replacing the whole
//     function.
//   - FILE_LINE_REPLACEMENTS: path -> [old, new] pairs, applied to the whole file.
//   - FILE_ADDITIONS: path -> [position, spec] pairs, position "begin" or "end".
//   - FILE_REPLACEMENTS: path -> spec replacing the whole file.
//
// Every "spec" is either literal text or the name of a file inside one of the
// mods' replacements/ folders. Resolution happens when rules are applied,
// never here.
//
// # Rule files
//
// A mod declares its rules in replacements.toml (or .yaml/.yml/.json) at the
// mod root:
//
//	[LINE_REPLACEMENTS."Program/a.c"]
//	Init = [["return 0;", "return 1;"]]
//
//	[FILE_ADDITIONS]
//	"Program/a.c" = [["end", "extra.c"]]
//
// # Merge
//
// Merge(base, override) is a pure deep merge: nested maps merge key by key,
// lists concatenate with override entries after base entries, and single
// values from override replace those from base.
package rules
