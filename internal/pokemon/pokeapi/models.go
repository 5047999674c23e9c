package pokeapi

import (
	"fmt"
	"sort"
	"strings"
)

// Pokemon is the normalized attribute set of a single Pokemon.
type Pokemon struct {
	Name      string         `json:"name"`
	ID        int            `json:"id"`
	Types     []string       `json:"types"`
	Stats     map[string]int `json:"stats"`
	Height    int            `json:"height"`
	Weight    int            `json:"weight"`
	Abilities []string       `json:"abilities"`
}

// String renders a compact human readable summary.
func (p *Pokemon) String() string {
	statNames := make([]string, 0, len(p.Stats))
	for name := range p.Stats {
		statNames = append(statNames, name)
	}
	sort.Strings(statNames)

	stats := make([]string, 0, len(statNames))
	for _, name := range statNames {
		stats = append(stats, fmt.Sprintf("%s %d", name, p.Stats[name]))
	}

	parts := []string{
		fmt.Sprintf("%s (#%d)", p.Name, p.ID),
		fmt.Sprintf("Types: %s", strings.Join(p.Types, ", ")),
		fmt.Sprintf("Height: %d | Weight: %d", p.Height, p.Weight),
		fmt.Sprintf("Abilities: %s", strings.Join(p.Abilities, ", ")),
		fmt.Sprintf("Stats: %s", strings.Join(stats, ", ")),
	}
	return strings.Join(parts, "\n")
}

// LookupResult is one entry of a multi-name comparison. Exactly one of
// Pokemon and Error is set.
type LookupResult struct {
	Query   string   `json:"query"`
	Pokemon *Pokemon `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// apiPokemon mirrors the subset of the PokeAPI /pokemon payload we read.
type apiPokemon struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Height int    `json:"height"`
	Weight int    `json:"weight"`
	Types  []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
		} `json:"ability"`
	} `json:"abilities"`
}
