package rules

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/modloader/pkg/errors"
	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/arthur-debert/modloader/pkg/logging"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var log = logging.GetLogger("rules")

// DefaultFileNames lists the rule files looked up in a mod root, in order.
var DefaultFileNames = []string{
	"replacements.toml",
	"replacements.yaml",
	"replacements.yml",
	"replacements.json",
}

// document mirrors the on-disk shape of a rule file. Pairs are decoded as
// plain string arrays and validated afterwards.
type document struct {
	LineReplacements     map[string]map[string][][]string `toml:"LINE_REPLACEMENTS,omitempty" yaml:"LINE_REPLACEMENTS,omitempty" json:"LINE_REPLACEMENTS,omitempty"`
	FunctionReplacements map[string]map[string]string     `toml:"FUNCTION_REPLACEMENTS,omitempty" yaml:"FUNCTION_REPLACEMENTS,omitempty" json:"FUNCTION_REPLACEMENTS,omitempty"`
	FileLineReplacements map[string][][]string            `toml:"FILE_LINE_REPLACEMENTS,omitempty" yaml:"FILE_LINE_REPLACEMENTS,omitempty" json:"FILE_LINE_REPLACEMENTS,omitempty"`
	FileAdditions        map[string][][]string            `toml:"FILE_ADDITIONS,omitempty" yaml:"FILE_ADDITIONS,omitempty" json:"FILE_ADDITIONS,omitempty"`
	FileReplacements     map[string]string                `toml:"FILE_REPLACEMENTS,omitempty" yaml:"FILE_REPLACEMENTS,omitempty" json:"FILE_REPLACEMENTS,omitempty"`
}

// LoadResult is the outcome of reading one rule file.
type LoadResult struct {
	Bundle *Bundle
	// Path of the rule file that was read, empty when the mod has none.
	Path string
	// Warnings lists malformed entries that were skipped.
	Warnings []string
}

// FindRuleFile returns the first existing rule file in dir, or "".
func FindRuleFile(fs afero.Fs, dir string, names []string) string {
	if len(names) == 0 {
		names = DefaultFileNames
	}
	for _, name := range names {
		candidate := filepath.Join(dir, name)
		if filesystem.Exists(fs, candidate) {
			return candidate
		}
	}
	return ""
}

// LoadDir loads the rules of the mod rooted at dir. A mod without a rule
// file yields an empty bundle and no error.
func LoadDir(fs afero.Fs, dir string, names []string) (*LoadResult, error) {
	path := FindRuleFile(fs, dir, names)
	if path == "" {
		log.Debug().Str("dir", dir).Msg("No rule file found")
		return &LoadResult{Bundle: NewBundle()}, nil
	}
	return LoadFile(fs, path)
}

// LoadFile parses a single rule file, choosing the decoder by extension.
func LoadFile(fs afero.Fs, path string) (*LoadResult, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to read rule file %s", path)
	}
	result, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRulesParse, "failed to parse rule file %s", path)
	}
	result.Path = path

	log.Debug().
		Str("path", path).
		Int("files", len(result.Bundle.Paths())).
		Int("warnings", len(result.Warnings)).
		Msg("Rule file loaded")
	return result, nil
}

// Parse decodes rule data. ext selects the format (".toml", ".yaml", ".yml",
// ".json"); unknown extensions are read as TOML.
func Parse(data []byte, ext string) (*LoadResult, error) {
	var doc document
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	default:
		err = toml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, err
	}
	return fromDocument(&doc), nil
}

func fromDocument(doc *document) *LoadResult {
	res := &LoadResult{Bundle: NewBundle()}
	b := res.Bundle

	for _, rawPath := range sortedKeys(doc.LineReplacements) {
		path := NormalizePath(rawPath)
		if b.LineReplacements[path] == nil {
			b.LineReplacements[path] = make(map[string][]Pair)
		}
		funcs := doc.LineReplacements[rawPath]
		for _, fn := range sortedKeys(funcs) {
			where := fmt.Sprintf("LINE_REPLACEMENTS[%q][%q]", rawPath, fn)
			pairs := res.pairs(where, funcs[fn])
			b.LineReplacements[path][fn] = append(b.LineReplacements[path][fn], pairs...)
		}
	}

	for _, rawPath := range sortedKeys(doc.FunctionReplacements) {
		path := NormalizePath(rawPath)
		if b.FunctionReplacements[path] == nil {
			b.FunctionReplacements[path] = make(map[string]string)
		}
		overwrite(b.FunctionReplacements[path], doc.FunctionReplacements[rawPath])
	}

	for _, rawPath := range sortedKeys(doc.FileLineReplacements) {
		path := NormalizePath(rawPath)
		where := fmt.Sprintf("FILE_LINE_REPLACEMENTS[%q]", rawPath)
		pairs := res.pairs(where, doc.FileLineReplacements[rawPath])
		b.FileLineReplacements[path] = append(b.FileLineReplacements[path], pairs...)
	}

	for _, rawPath := range sortedKeys(doc.FileAdditions) {
		path := NormalizePath(rawPath)
		where := fmt.Sprintf("FILE_ADDITIONS[%q]", rawPath)
		for _, p := range res.pairs(where, doc.FileAdditions[rawPath]) {
			b.FileAdditions[path] = append(b.FileAdditions[path], Addition{Position: p.Old, Spec: p.New})
		}
	}

	for _, rawPath := range sortedKeys(doc.FileReplacements) {
		b.FileReplacements[NormalizePath(rawPath)] = doc.FileReplacements[rawPath]
	}

	return res
}

func (r *LoadResult) pairs(where string, raw [][]string) []Pair {
	out := make([]Pair, 0, len(raw))
	for i, entry := range raw {
		if len(entry) != 2 {
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("%s entry %d has %d elements, expected 2; skipped", where, i, len(entry)))
			continue
		}
		out = append(out, Pair{Old: entry[0], New: entry[1]})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
