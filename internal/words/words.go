// Package words loads word lists from disk.
//
// Two formats are understood:
//   - JSON, either {"words":[{"word":"apple","hint":"..."}]} or a plain
//     array of strings.
//   - Anything else is read as text with one word per line. Blank lines and
//     lines starting with '#' are skipped.
//
// Words are trimmed, lower-cased and de-duplicated, keeping first-seen order.
package words

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/oops"

	"wordlebot/internal/types"
)

// Load reads the word list at path.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.In("words").With("path", path).Wrapf(err, "reading word list")
	}

	var raw []string
	if strings.EqualFold(filepath.Ext(path), ".json") {
		raw, err = parseJSON(data)
		if err != nil {
			return nil, oops.In("words").With("path", path).Wrapf(err, "decoding word list")
		}
	} else {
		raw = parseLines(data)
	}

	list := Normalize(raw)
	if len(list) == 0 {
		return nil, oops.In("words").With("path", path).Errorf("word list %s has no words", path)
	}
	return list, nil
}

// LoadOptional is Load, except that an empty path yields no words.
func LoadOptional(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	return Load(path)
}

// Normalize trims and lower-cases words, dropping empties and duplicates.
func Normalize(raw []string) []string {
	cleaned := lo.Map(raw, func(w string, _ int) string {
		return strings.ToLower(strings.TrimSpace(w))
	})
	return lo.Uniq(lo.Compact(cleaned))
}

func parseJSON(data []byte) ([]string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []string
		err := json.Unmarshal(data, &list)
		return list, err
	}

	var wl types.WordList
	if err := json.Unmarshal(data, &wl); err != nil {
		return nil, err
	}
	return lo.Map(wl.Words, func(e types.WordEntry, _ int) string { return e.Word }), nil
}

func parseLines(data []byte) []string {
	return lo.Filter(strings.Split(string(data), "\n"), func(line string, _ int) bool {
		return !strings.HasPrefix(strings.TrimSpace(line), "#")
	})
}
