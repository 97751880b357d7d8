package dictionary

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"quantum-oracle-bot/internal/domain"
	"quantum-oracle-bot/internal/domain/model"
)

//go:embed data
var DefaultFS embed.FS

// DefaultPath is the bundled gematria dictionary inside DefaultFS.
const DefaultPath = "data/gematria_words.json"

// Load reads the dictionary at path, or the bundled one when path is empty.
func Load(path string) (*model.Dictionary, error) {
	if path == "" {
		return LoadFS(DefaultFS, DefaultPath)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary %s: %w", path, err)
	}
	return fromBytes(data)
}

// LoadFS reads a dictionary from any fs.FS.
func LoadFS(fsys fs.FS, path string) (*model.Dictionary, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary %s: %w", path, err)
	}
	return fromBytes(data)
}

// fromBytes expects a mapping of category -> candidate words, as JSON or YAML.
func fromBytes(data []byte) (*model.Dictionary, error) {
	var categories map[string][]string
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse dictionary: %v: %w", err, domain.ErrInvalidArgument)
	}
	return model.NewDictionary(categories)
}
