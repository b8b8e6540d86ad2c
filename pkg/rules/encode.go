package rules

import (
	"github.com/arthur-debert/modloader/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// Encode serializes a bundle as a TOML rule file. Tools that author rules
// write them through Encode so the file always has the shape LoadFile reads.
func Encode(b *Bundle) ([]byte, error) {
	doc := document{}
	if len(b.LineReplacements) > 0 {
		doc.LineReplacements = make(map[string]map[string][][]string, len(b.LineReplacements))
		for path, funcs := range b.LineReplacements {
			doc.LineReplacements[path] = make(map[string][][]string, len(funcs))
			for fn, pairs := range funcs {
				doc.LineReplacements[path][fn] = pairsToRaw(pairs)
			}
		}
	}
	if len(b.FunctionReplacements) > 0 {
		doc.FunctionReplacements = b.FunctionReplacements
	}
	if len(b.FileLineReplacements) > 0 {
		doc.FileLineReplacements = make(map[string][][]string, len(b.FileLineReplacements))
		for path, pairs := range b.FileLineReplacements {
			doc.FileLineReplacements[path] = pairsToRaw(pairs)
		}
	}
	if len(b.FileAdditions) > 0 {
		doc.FileAdditions = make(map[string][][]string, len(b.FileAdditions))
		for path, adds := range b.FileAdditions {
			raw := make([][]string, 0, len(adds))
			for _, a := range adds {
				raw = append(raw, []string{a.Position, a.Spec})
			}
			doc.FileAdditions[path] = raw
		}
	}
	if len(b.FileReplacements) > 0 {
		doc.FileReplacements = b.FileReplacements
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRulesEncode, "failed to encode rules")
	}
	return data, nil
}

func pairsToRaw(pairs []Pair) [][]string {
	raw := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		raw = append(raw, []string{p.Old, p.New})
	}
	return raw
}
