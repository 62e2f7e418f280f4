package repository

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"storefront/internal/domain"
)

//go:embed seed/storefront.yaml
var defaultSeed []byte

// Seed is the catalog and tracking registry a store starts from.
type Seed struct {
	Shelves  []domain.Shelf          `yaml:"shelves"`
	Tracking []domain.TrackingRecord `yaml:"tracking"`
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if len(s.Shelves) == 0 {
		return nil, fmt.Errorf("parse seed: no shelves")
	}
	return &s, nil
}

// DefaultSeed returns the embedded storefront seed.
func DefaultSeed() *Seed {
	s, err := ParseSeed(defaultSeed)
	if err != nil {
		panic(err)
	}
	return s
}

// LoadSeedFile reads a seed from path, falling back to the embedded one when
// path is empty.
func LoadSeedFile(path string) (*Seed, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	return ParseSeed(data)
}
