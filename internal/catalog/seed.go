package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// seedFile is the YAML shape of a catalog seed file for the memory driver.
type seedFile struct {
	Units []struct {
		Name         string `yaml:"name"`
		Abbreviation string `yaml:"abbreviation"`
		Kind         string `yaml:"kind"`
	} `yaml:"units"`
	Ingredients []string `yaml:"ingredients"`
	Dishes      []string `yaml:"dishes"`
}

// LoadSeed populates a MemoryStore from a YAML seed file. Used by the memory
// driver so single-node deployments and demos start with a working catalog.
func LoadSeed(store *MemoryStore, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("catalog seed: reading %s: %w", path, err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("catalog seed: parsing %s: %w", path, err)
	}

	for _, u := range seed.Units {
		if u.Name == "" {
			return fmt.Errorf("catalog seed: unit with empty name in %s", path)
		}
		store.AddUnit(model.Unit{
			Name:         u.Name,
			Abbreviation: u.Abbreviation,
			Kind:         model.MeasureKind(u.Kind),
		})
	}
	for _, name := range seed.Ingredients {
		if name == "" {
			return fmt.Errorf("catalog seed: empty ingredient name in %s", path)
		}
		store.AddIngredient(name)
	}
	for _, name := range seed.Dishes {
		if name == "" {
			return fmt.Errorf("catalog seed: empty dish name in %s", path)
		}
		store.AddDish(model.Dish{Name: name})
	}
	return nil
}
