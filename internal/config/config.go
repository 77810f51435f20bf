// Package config loads the optional YAML file carrying run options, so
// defaults can live next to the trees they describe. Explicit CLI flags
// always win over file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File mirrors the boolean run options. Pointer fields distinguish
// "absent from the file" from an explicit false.
type File struct {
	SelOnly        *bool `yaml:"sel_only"`
	LevelUpSel     *bool `yaml:"level_up_sel"`
	MoveToTopLevel *bool `yaml:"move_to_top_level"`
	AddPrefix      *bool `yaml:"add_prefix"`
	Verbose        *bool `yaml:"verbose"`
	Force          *bool `yaml:"force"`
	Manifest       *bool `yaml:"manifest"`
}

// Load parses the YAML file at path.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}
