package descriptor

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/tombee/courier/pkg/errors"
)

// Parse parses a descriptor set from YAML bytes, normalizes it, and
// validates it.
func Parse(data []byte) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor set: %w", err)
	}

	set.normalize()

	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid descriptor set: %w", err)
	}

	return &set, nil
}

// LoadFile loads and validates a descriptor set from a YAML file.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading descriptor file %s", path)
	}

	set, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}

	return set, nil
}

// LoadGlob loads every descriptor file matching the given glob pattern.
// The pattern supports ** for recursive matching. Matches are loaded in
// lexical order so results are deterministic.
func LoadGlob(pattern string) ([]*Set, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid descriptor glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, &errors.NotFoundError{
			Resource: "descriptor",
			ID:       pattern,
		}
	}

	sort.Strings(matches)

	sets := make([]*Set, 0, len(matches))
	for _, path := range matches {
		set, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	return sets, nil
}
