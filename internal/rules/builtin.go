package rules

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

// BuiltinPack returns the rule pack compiled into the binary. It covers the
// baseline web API policies so `gavel review` works with no configuration.
func BuiltinPack() (*Pack, error) {
	var pack Pack
	if err := yaml.Unmarshal(builtinYAML, &pack); err != nil {
		return nil, fmt.Errorf("parsing builtin rule pack: %w", err)
	}
	return &pack, nil
}

// BuiltinCatalog builds a catalog from the builtin pack alone.
func BuiltinCatalog() (*Catalog, error) {
	pack, err := BuiltinPack()
	if err != nil {
		return nil, err
	}
	return NewCatalog(pack.Rules)
}
