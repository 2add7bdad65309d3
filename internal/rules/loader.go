package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pack is the on-disk shape of a YAML rule pack.
type Pack struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Rules       []Rule `yaml:"rules"`
}

// LoadPack reads a single YAML rule pack from disk. Markdown rulebooks are
// handled too: fenced gavel-rule blocks are extracted and parsed.
func LoadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule pack: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		rules, err := ExtractMarkdownRules(data)
		if err != nil {
			return nil, fmt.Errorf("parsing rulebook %s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return &Pack{Name: name, Rules: rules}, nil
	default:
		var pack Pack
		if err := yaml.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("parsing rule pack %s: %w", path, err)
		}
		return &pack, nil
	}
}

// LoadCatalog loads one or more rule packs and builds a validated catalog.
// Packs are merged in argument order, so rule order across packs is stable.
func LoadCatalog(paths ...string) (*Catalog, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no rule packs given")
	}
	var defs []Rule
	for _, path := range paths {
		pack, err := LoadPack(path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, pack.Rules...)
	}
	return NewCatalog(defs)
}
