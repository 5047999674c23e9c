package battle

import (
	"pokemon-assistant/internal/pokemon/pokeapi"
	"pokemon-assistant/internal/pokemon/stats"
	"pokemon-assistant/internal/pokemon/typechart"
)

// Undetermined is the Verdict winner when the reasoning names no clear side.
const Undetermined = "undetermined"

// Verdict is the outcome of a predicted battle.
type Verdict struct {
	Winner    string `json:"winner"`
	Reasoning string `json:"reasoning"`
}

// IsDetermined reports whether a side was picked.
func (v *Verdict) IsDetermined() bool {
	return v != nil && v.Winner != Undetermined
}

// Analysis is the structured comparison handed to the Reasoner.
type Analysis struct {
	NameA string
	NameB string
	A     *pokeapi.Pokemon
	B     *pokeapi.Pokemon

	// AttacksOnB holds every type of A attacking B's type set; AttacksOnA the reverse.
	AttacksOnB []typechart.Result
	AttacksOnA []typechart.Result

	Stats stats.Comparison
}

// BestMultiplierA is the strongest multiplier A's types reach against B.
func (a *Analysis) BestMultiplierA() float64 {
	return best(a.AttacksOnB)
}

// BestMultiplierB is the strongest multiplier B's types reach against A.
func (a *Analysis) BestMultiplierB() float64 {
	return best(a.AttacksOnA)
}

func best(results []typechart.Result) float64 {
	if len(results) == 0 {
		return 1
	}
	m := results[0].Multiplier
	for _, r := range results[1:] {
		if r.Multiplier > m {
			m = r.Multiplier
		}
	}
	return m
}
