package analysis

import (
	"embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/regions.yaml
var regionsYAML embed.FS

type regionConfig struct {
	State  string   `yaml:"state"`
	Cities []string `yaml:"cities"`
}

type regionRegistry struct {
	Regions []regionConfig `yaml:"regions"`
}

// defaultCities returns the built-in candidate-city list for a state.
func defaultCities(state string) []string {
	data, err := regionsYAML.ReadFile("config/regions.yaml")
	if err != nil {
		return nil
	}
	var registry regionRegistry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil
	}
	for _, region := range registry.Regions {
		if strings.EqualFold(region.State, state) {
			return region.Cities
		}
	}
	return nil
}
