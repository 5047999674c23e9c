// Package stats compares base stat blocks of two Pokemon.
package stats

import "sort"

// Side identifies which Pokemon holds an advantage.
type Side string

const (
	SideA    Side = "a"
	SideB    Side = "b"
	SideNone Side = ""
)

// SpeedKey is the stat that decides move order.
const SpeedKey = "speed"

type Comparison struct {
	TotalA         int      `json:"total_a"`
	TotalB         int      `json:"total_b"`
	AdvantagesA    []string `json:"advantages_a"`
	AdvantagesB    []string `json:"advantages_b"`
	SpeedAdvantage Side     `json:"speed_advantage,omitempty"`
}

// HigherTotal reports which side has the larger stat total.
func (c Comparison) HigherTotal() Side {
	switch {
	case c.TotalA > c.TotalB:
		return SideA
	case c.TotalB > c.TotalA:
		return SideB
	default:
		return SideNone
	}
}

// Compare sums each stat block and assigns every shared stat to the side
// holding the strictly greater value. Ties and one-sided stats are ignored.
func Compare(a, b map[string]int) Comparison {
	c := Comparison{
		TotalA:      total(a),
		TotalB:      total(b),
		AdvantagesA: []string{},
		AdvantagesB: []string{},
	}

	for name, va := range a {
		vb, ok := b[name]
		if !ok {
			continue
		}
		switch {
		case va > vb:
			c.AdvantagesA = append(c.AdvantagesA, name)
		case vb > va:
			c.AdvantagesB = append(c.AdvantagesB, name)
		}
	}
	sort.Strings(c.AdvantagesA)
	sort.Strings(c.AdvantagesB)

	c.SpeedAdvantage = speedAdvantage(a, b)
	return c
}

func speedAdvantage(a, b map[string]int) Side {
	sa, okA := a[SpeedKey]
	sb, okB := b[SpeedKey]
	if !okA || !okB {
		return SideNone
	}
	switch {
	case sa > sb:
		return SideA
	case sb > sa:
		return SideB
	default:
		return SideNone
	}
}

func total(m map[string]int) int {
	sum := 0
	for _, v := range m {
		sum += v
	}
	return sum
}
