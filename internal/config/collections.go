package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// collectionsFile is the wire format of a collection-config file.
type collectionsFile struct {
	Collections map[string]map[string]any `yaml:"collections"`
}

// CollectionsError aggregates per-file failures from LoadCollections.
type CollectionsError struct {
	Files []CollectionFileError
}

// CollectionFileError is one unreadable or malformed collection-config file.
type CollectionFileError struct {
	Path string
	Err  error
}

func (e *CollectionsError) Error() string {
	lines := make([]string, 0, len(e.Files)+1)
	lines = append(lines, "collection config errors:")
	for _, f := range e.Files {
		lines = append(lines, fmt.Sprintf("  - %s: %v", f.Path, f.Err))
	}
	return strings.Join(lines, "\n")
}

// LoadCollections reads every collection-config file listed in cfg and merges
// their collections per library. Files that fail to read or parse are
// collected into a *CollectionsError returned alongside whatever did parse;
// a bad file never aborts the rest.
func LoadCollections(cfg *Config) (map[string]map[string]map[string]any, error) {
	collections := make(map[string]map[string]map[string]any)
	cerr := &CollectionsError{}

	for _, library := range cfg.Libraries {
		for _, path := range cfg.CollectionFiles[library] {
			data, err := os.ReadFile(path)
			if err != nil {
				cerr.Files = append(cerr.Files, CollectionFileError{Path: path, Err: err})
				continue
			}

			var cf collectionsFile
			if err := yaml.Unmarshal(data, &cf); err != nil {
				cerr.Files = append(cerr.Files, CollectionFileError{Path: path, Err: err})
				continue
			}

			if collections[library] == nil {
				collections[library] = make(map[string]map[string]any)
			}
			for name, settings := range cf.Collections {
				collections[library][name] = settings
			}
		}
	}

	if len(cerr.Files) > 0 {
		return collections, cerr
	}
	return collections, nil
}
