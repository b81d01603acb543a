// Package fixtures embeds the directory's content seed data. The JSON files
// here are the canonical catalog shipped with the app; `creahunt seed` loads
// them into postgres.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed categories.json tools.json
var dataFS embed.FS

type CategoryFixture struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"`
}

type ToolFixture struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Tagline     string  `json:"tagline"`
	Description string  `json:"description"`
	Website     string  `json:"website"`
	Logo        string  `json:"logo"`
	Pricing     string  `json:"pricing"`
	Rating      float64 `json:"rating"`
	Category    string  `json:"category"`
	Featured    bool    `json:"featured"`
}

func Categories() ([]CategoryFixture, error) {
	var items []CategoryFixture
	if err := load("categories.json", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func Tools() ([]ToolFixture, error) {
	var items []ToolFixture
	if err := load("tools.json", &items); err != nil {
		return nil, err
	}
	return items, nil
}

func load(name string, dst interface{}) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode fixture %s: %w", name, err)
	}
	return nil
}
