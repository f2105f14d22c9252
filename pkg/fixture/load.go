package fixture

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Load reads fixtures from a YAML document: either a top-level list of
// fixtures or a mapping with a "fixtures" key. Values are decoded weakly,
// so a quoted case count still works.
func Load(r io.Reader) ([]Fixture, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var entries []map[string]any
	var doc struct {
		Fixtures []map[string]any `yaml:"fixtures"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil || doc.Fixtures == nil {
		if listErr := yaml.Unmarshal(raw, &entries); listErr != nil {
			return nil, fmt.Errorf("fixture document is neither a list nor a mapping with a fixtures key: %w", listErr)
		}
	} else {
		entries = doc.Fixtures
	}

	fixtures := make([]Fixture, 0, len(entries))
	for i, entry := range entries {
		var f Fixture
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &f,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(entry); err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i+1, err)
		}
		if f.Name == "" {
			return nil, fmt.Errorf("fixture %d has no name", i+1)
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

// LoadFile reads fixtures from one YAML file.
func LoadFile(path string) ([]Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fixtures, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fixtures, nil
}

// LoadGlob reads fixtures from every file matching the pattern, in
// lexical path order.
func LoadGlob(pattern string) ([]Fixture, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var fixtures []Fixture
	for _, path := range paths {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, loaded...)
	}
	return fixtures, nil
}
