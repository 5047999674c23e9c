// Package typechart holds the mainline type-effectiveness chart (Gen VI onward).
package typechart

import "strings"

// Label values for Result.Label.
const (
	LabelSuperEffective   = "super effective"
	LabelNotVeryEffective = "not very effective"
	LabelNoEffect         = "no effect"
	LabelNeutral          = "neutral"
)

// Result is the outcome of one attacking type against a defending type set.
type Result struct {
	AttackingType  string   `json:"attacking_type"`
	DefendingTypes []string `json:"defending_types"`
	Multiplier     float64  `json:"multiplier"`
	Label          string   `json:"effectiveness"`
}

var allTypes = []string{
	"normal", "fire", "water", "electric", "grass", "ice",
	"fighting", "poison", "ground", "flying", "psychic", "bug",
	"rock", "ghost", "dragon", "dark", "steel", "fairy",
}

// chart lists only non-neutral matchups; anything missing is 1.0.
var chart = map[string]map[string]float64{
	"normal": {"rock": 0.5, "ghost": 0, "steel": 0.5},
	"fire": {
		"fire": 0.5, "water": 0.5, "grass": 2, "ice": 2,
		"bug": 2, "rock": 0.5, "dragon": 0.5, "steel": 2,
	},
	"water": {
		"fire": 2, "water": 0.5, "grass": 0.5, "ground": 2,
		"rock": 2, "dragon": 0.5,
	},
	"electric": {
		"water": 2, "electric": 0.5, "grass": 0.5, "ground": 0,
		"flying": 2, "dragon": 0.5,
	},
	"grass": {
		"fire": 0.5, "water": 2, "grass": 0.5, "poison": 0.5,
		"ground": 2, "flying": 0.5, "bug": 0.5, "rock": 2,
		"dragon": 0.5, "steel": 0.5,
	},
	"ice": {
		"fire": 0.5, "water": 0.5, "grass": 2, "ice": 0.5,
		"ground": 2, "flying": 2, "dragon": 2, "steel": 0.5,
	},
	"fighting": {
		"normal": 2, "ice": 2, "poison": 0.5, "flying": 0.5,
		"psychic": 0.5, "bug": 0.5, "rock": 2, "ghost": 0,
		"dark": 2, "steel": 2, "fairy": 0.5,
	},
	"poison": {
		"grass": 2, "poison": 0.5, "ground": 0.5, "rock": 0.5,
		"ghost": 0.5, "steel": 0, "fairy": 2,
	},
	"ground": {
		"fire": 2, "electric": 2, "grass": 0.5, "poison": 2,
		"flying": 0, "bug": 0.5, "rock": 2, "steel": 2,
	},
	"flying": {
		"electric": 0.5, "grass": 2, "fighting": 2, "bug": 2,
		"rock": 0.5, "steel": 0.5,
	},
	"psychic": {
		"fighting": 2, "poison": 2, "psychic": 0.5, "dark": 0,
		"steel": 0.5,
	},
	"bug": {
		"fire": 0.5, "grass": 2, "fighting": 0.5, "poison": 0.5,
		"flying": 0.5, "psychic": 2, "ghost": 0.5, "dark": 2,
		"steel": 0.5, "fairy": 0.5,
	},
	"rock": {
		"fire": 2, "ice": 2, "fighting": 0.5, "ground": 0.5,
		"flying": 2, "bug": 2, "steel": 0.5,
	},
	"ghost":  {"normal": 0, "psychic": 2, "ghost": 2, "dark": 0.5},
	"dragon": {"dragon": 2, "steel": 0.5, "fairy": 0},
	"dark": {
		"fighting": 0.5, "psychic": 2, "ghost": 2, "dark": 0.5,
		"fairy": 0.5,
	},
	"steel": {
		"fire": 0.5, "water": 0.5, "electric": 0.5, "ice": 2,
		"rock": 2, "steel": 0.5, "fairy": 2,
	},
	"fairy": {
		"fire": 0.5, "fighting": 2, "poison": 0.5, "dragon": 2,
		"dark": 2, "steel": 0.5,
	},
}

// Types returns the 18 type names, capitalized, in chart order.
func Types() []string {
	out := make([]string, len(allTypes))
	for i, t := range allTypes {
		out[i] = Capitalize(t)
	}
	return out
}

// IsKnown reports whether name is one of the 18 chart types.
func IsKnown(name string) bool {
	_, ok := chart[normalize(name)]
	return ok
}

// Multiplier returns the single-type multiplier for attacking against defending.
func Multiplier(attacking, defending string) float64 {
	row, ok := chart[normalize(attacking)]
	if !ok {
		return 1
	}
	if m, ok := row[normalize(defending)]; ok {
		return m
	}
	return 1
}

// Effectiveness compounds the multiplier of attacking over every defending
// type. Unknown types on either side count as neutral.
func Effectiveness(attacking string, defending []string) Result {
	multiplier := 1.0
	defendingOut := make([]string, 0, len(defending))
	for _, d := range defending {
		multiplier *= Multiplier(attacking, d)
		defendingOut = append(defendingOut, Capitalize(normalize(d)))
	}

	return Result{
		AttackingType:  Capitalize(normalize(attacking)),
		DefendingTypes: defendingOut,
		Multiplier:     multiplier,
		Label:          Label(multiplier),
	}
}

// Label classifies a multiplier.
func Label(multiplier float64) string {
	switch {
	case multiplier == 0:
		return LabelNoEffect
	case multiplier < 1:
		return LabelNotVeryEffective
	case multiplier > 1:
		return LabelSuperEffective
	default:
		return LabelNeutral
	}
}

// Matchup evaluates every attacking type against the full defending set.
func Matchup(attacking, defending []string) []Result {
	out := make([]Result, 0, len(attacking))
	for _, a := range attacking {
		out = append(out, Effectiveness(a, defending))
	}
	return out
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
