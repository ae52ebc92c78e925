package config

import (
	"fmt"
	"os"

	"github.com/billfold/billfold/internal/models"

	"gopkg.in/yaml.v3"
)

type templateSeed struct {
	Name           string  `yaml:"name"`
	Body           string  `yaml:"body"`
	DefaultNotes   string  `yaml:"default_notes"`
	DefaultTaxRate float64 `yaml:"default_tax_rate"`
}

type templateSeedFile struct {
	Templates []templateSeed `yaml:"templates"`
}

// LoadTemplateSeeds reads the built-in template definitions shipped with
// the service.
func LoadTemplateSeeds(path string) ([]models.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template seeds: %w", err)
	}

	var file templateSeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse template seeds: %w", err)
	}

	templates := make([]models.Template, 0, len(file.Templates))
	for _, seed := range file.Templates {
		templates = append(templates, models.Template{
			Name:           seed.Name,
			Body:           seed.Body,
			DefaultNotes:   seed.DefaultNotes,
			DefaultTaxRate: seed.DefaultTaxRate,
			BuiltIn:        true,
		})
	}

	return templates, nil
}
