package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads a lexicon JSON file, validates it, and merges it over the
// built-in entries. File entries win on canonical-name collisions.
// maxDistance is passed through to the resulting Static lexicon.
func Load(path string, maxDistance int) (*Static, error) {
	if path == "" {
		return NewStatic(DefaultEntries(), maxDistance), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	if err := ValidateJSONAgainstSchema(BuildLexiconJSONSchema(), data); err != nil {
		return nil, fmt.Errorf("invalid lexicon %s: %w", path, err)
	}
	var fromFile []Entry
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}

	merged := DefaultEntries()
	index := make(map[string]int, len(merged))
	for i, e := range merged {
		index[normName(e.CanonicalName)] = i
	}
	for _, e := range fromFile {
		if i, ok := index[normName(e.CanonicalName)]; ok {
			merged[i] = e
			continue
		}
		index[normName(e.CanonicalName)] = len(merged)
		merged = append(merged, e)
	}
	return NewStatic(merged, maxDistance), nil
}
