// internal/pokemon/typechart/chart_test.go
package typechart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveness_KnownMatchups(t *testing.T) {
	tests := []struct {
		name       string
		attacking  string
		defending  []string
		multiplier float64
		label      string
	}{
		{"electric vs ground is immune", "Electric", []string{"Ground"}, 0, LabelNoEffect},
		{"water vs fire/rock double weakness", "Water", []string{"Fire", "Rock"}, 4, LabelSuperEffective},
		{"grass vs fire/flying double resist", "grass", []string{"fire", "flying"}, 0.25, LabelNotVeryEffective},
		{"normal vs rock", "NORMAL", []string{"rock"}, 0.5, LabelNotVeryEffective},
		{"normal vs ghost", "normal", []string{"ghost"}, 0, LabelNoEffect},
		{"normal vs fighting is neutral", "normal", []string{"fighting"}, 1, LabelNeutral},
		{"dragon vs fairy", "dragon", []string{"fairy"}, 0, LabelNoEffect},
		{"fairy vs dragon/dark", "fairy", []string{"dragon", "dark"}, 4, LabelSuperEffective},
		{"fire vs steel/water cancels to neutral", "fire", []string{"steel", "water"}, 1, LabelNeutral},
		{"ground vs flying immunity dominates", "ground", []string{"flying", "fire"}, 0, LabelNoEffect},
		{"unknown attacking type is neutral", "shadow", []string{"fire"}, 1, LabelNeutral},
		{"unknown defending type is neutral", "fire", []string{"stellar"}, 1, LabelNeutral},
		{"empty defending set is neutral", "fire", nil, 1, LabelNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Effectiveness(tt.attacking, tt.defending)
			assert.Equal(t, tt.multiplier, result.Multiplier)
			assert.Equal(t, tt.label, result.Label)
		})
	}
}

func TestEffectiveness_NormalizesNames(t *testing.T) {
	result := Effectiveness("  wATer ", []string{"FIRE", "rock"})

	assert.Equal(t, "Water", result.AttackingType)
	assert.Equal(t, []string{"Fire", "Rock"}, result.DefendingTypes)
}

func TestEffectiveness_AllPairsInCanonicalRange(t *testing.T) {
	allowed := map[float64]bool{0: true, 0.25: true, 0.5: true, 1: true, 2: true, 4: true}
	types := Types()
	require.Len(t, types, 18)

	for _, attacking := range types {
		for _, d1 := range types {
			single := Effectiveness(attacking, []string{d1})
			assert.True(t, allowed[single.Multiplier], "%s vs %s = %v", attacking, d1, single.Multiplier)
			assert.Equal(t, Label(single.Multiplier), single.Label)

			for _, d2 := range types {
				if d1 == d2 {
					continue
				}
				dual := Effectiveness(attacking, []string{d1, d2})
				assert.True(t, allowed[dual.Multiplier], "%s vs %s/%s = %v", attacking, d1, d2, dual.Multiplier)
				assert.Equal(t, Label(dual.Multiplier), dual.Label)
			}
		}
	}
}

func TestChart_RowsOnlyReferenceKnownTypes(t *testing.T) {
	for attacking, row := range chart {
		assert.True(t, IsKnown(attacking))
		for defending, m := range row {
			assert.True(t, IsKnown(defending), "%s row references %s", attacking, defending)
			assert.Contains(t, []float64{0, 0.5, 2}, m)
		}
	}
}

func TestChart_CanonicalCounts(t *testing.T) {
	var superEffective, resisted, immune int
	for _, row := range chart {
		for _, m := range row {
			switch m {
			case 2:
				superEffective++
			case 0.5:
				resisted++
			case 0:
				immune++
			}
		}
	}

	assert.Equal(t, 51, superEffective)
	assert.Equal(t, 61, resisted)
	assert.Equal(t, 8, immune)
}

func TestEffectiveness_Idempotent(t *testing.T) {
	first := Effectiveness("Ice", []string{"Dragon", "Flying"})
	second := Effectiveness("Ice", []string{"Dragon", "Flying"})

	assert.Equal(t, first, second)
	assert.Equal(t, 4.0, first.Multiplier)
}

func TestMatchup(t *testing.T) {
	results := Matchup([]string{"Fire", "Flying"}, []string{"Grass"})

	require.Len(t, results, 2)
	assert.Equal(t, 2.0, results[0].Multiplier)
	assert.Equal(t, 2.0, results[1].Multiplier)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, LabelNoEffect, Label(0))
	assert.Equal(t, LabelNotVeryEffective, Label(0.25))
	assert.Equal(t, LabelNeutral, Label(1))
	assert.Equal(t, LabelSuperEffective, Label(4))
}
