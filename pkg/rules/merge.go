package rules

// Merge folds override into a deep copy of base and returns the result.
// Neither input is modified.
//
// Nested maps merge key by key, lists append (override entries after base
// entries), and single values from override replace those in base. For
// FILE_REPLACEMENTS this means the later mod always wins; for line rules and
// additions the lists of every mod accumulate.
func Merge(base, override *Bundle) *Bundle {
	out := NewBundle()
	if base != nil {
		mergeInto(out, base)
	}
	if override != nil {
		mergeInto(out, override)
	}
	return out
}

// MergeAll merges bundles in order; the last bundle has the highest
// precedence.
func MergeAll(bundles ...*Bundle) *Bundle {
	acc := NewBundle()
	for _, b := range bundles {
		acc = Merge(acc, b)
	}
	return acc
}

func mergeInto(dst, src *Bundle) {
	for path, funcs := range src.LineReplacements {
		if dst.LineReplacements[path] == nil {
			dst.LineReplacements[path] = make(map[string][]Pair, len(funcs))
		}
		appendLists(dst.LineReplacements[path], funcs)
	}
	for path, funcs := range src.FunctionReplacements {
		if dst.FunctionReplacements[path] == nil {
			dst.FunctionReplacements[path] = make(map[string]string, len(funcs))
		}
		overwrite(dst.FunctionReplacements[path], funcs)
	}
	appendLists(dst.FileLineReplacements, src.FileLineReplacements)
	appendLists(dst.FileAdditions, src.FileAdditions)
	overwrite(dst.FileReplacements, src.FileReplacements)
}

// appendLists concatenates src lists after dst lists, copying so dst never
// aliases src storage.
func appendLists[T any](dst, src map[string][]T) {
	for k, v := range src {
		merged := make([]T, 0, len(dst[k])+len(v))
		merged = append(merged, dst[k]...)
		merged = append(merged, v...)
		dst[k] = merged
	}
}

func overwrite[V any](dst, src map[string]V) {
	for k, v := range src {
		dst[k] = v
	}
}
