package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cory-johannsen/arena/internal/game/character"
)

// Source loads a roster from a format-specific location.
//
// Postcondition: returns a validated Roster, or a non-nil error.
type Source interface {
	Load(path string) (*character.Roster, error)
}

// FileSource reads a single roster YAML file.
type FileSource struct{}

// Load reads and validates the roster file at path.
func (FileSource) Load(path string) (*character.Roster, error) {
	return character.LoadRosterFromFile(path)
}

// DirSource merges every *.yaml and *.yml file of a directory, in file name
// order, into one roster.
type DirSource struct{}

// Load reads every roster file under dir and validates the merged roster.
//
// Precondition: dir must exist and contain at least one roster file.
// Postcondition: Returns the merged, validated Roster or a non-nil error.
func (DirSource) Load(dir string) (*character.Roster, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading roster directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no roster files in %s", dir)
	}
	sort.Strings(files)

	merged := &character.Roster{}
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading roster file %s: %w", f, err)
		}
		r, err := character.ParseRoster(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		merged.Skills = append(merged.Skills, r.Skills...)
		merged.Characters = append(merged.Characters, r.Characters...)
	}
	if err := merged.Validate(); err != nil {
		return nil, errors.Join(fmt.Errorf("validating merged roster from %s", dir), err)
	}
	return merged, nil
}

// NewSource returns the Source for format: "file" or "dir".
//
// Postcondition: Returns a Source or an error naming the supported formats.
func NewSource(format string) (Source, error) {
	switch format {
	case "file", "":
		return FileSource{}, nil
	case "dir":
		return DirSource{}, nil
	default:
		return nil, fmt.Errorf("unknown roster format %q (supported: file, dir)", format)
	}
}
