package battle

import (
	"fmt"
	"sort"
	"strings"

	"pokemon-assistant/internal/pokemon/pokeapi"
	"pokemon-assistant/internal/pokemon/stats"
	"pokemon-assistant/internal/pokemon/typechart"
)

// SystemPrompt frames the reasoning call.
const SystemPrompt = `You are a Pokemon battle expert. Analyze matchups using type advantages, base stats, speed and abilities.
Be specific about why one Pokemon has the edge and keep the analysis concise.
Finish with a single final line in the form "Winner: <name>" using exactly one of the two names given.`

// BuildPrompt renders the analysis as the user prompt for the reasoner.
func BuildPrompt(a *Analysis) string {
	var parts []string

	parts = append(parts, fmt.Sprintf(
		"Who would win in a battle between %s and %s? Analyze their types, stats, and abilities to determine the likely winner.",
		a.NameA, a.NameB))

	parts = append(parts, "\n"+describe(a.A))
	parts = append(parts, "\n"+describe(a.B))

	parts = append(parts, fmt.Sprintf("\nType matchups (%s attacking %s):", a.A.Name, a.B.Name))
	parts = append(parts, matchupLines(a.AttacksOnB)...)
	parts = append(parts, fmt.Sprintf("\nType matchups (%s attacking %s):", a.B.Name, a.A.Name))
	parts = append(parts, matchupLines(a.AttacksOnA)...)

	parts = append(parts, "\nStat comparison:")
	parts = append(parts, fmt.Sprintf("- Base stat total: %s %d, %s %d", a.A.Name, a.Stats.TotalA, a.B.Name, a.Stats.TotalB))
	parts = append(parts, fmt.Sprintf("- %s higher in: %s", a.A.Name, listOrNone(a.Stats.AdvantagesA)))
	parts = append(parts, fmt.Sprintf("- %s higher in: %s", a.B.Name, listOrNone(a.Stats.AdvantagesB)))
	parts = append(parts, fmt.Sprintf("- Moves first: %s", speedLine(a)))

	parts = append(parts, "\nInstructions:")
	parts = append(parts, "- Weigh type effectiveness, stat totals, speed and abilities")
	parts = append(parts, "- Explain the reasoning in a few short paragraphs")
	parts = append(parts, fmt.Sprintf("- End with \"Winner: %s\" or \"Winner: %s\"", a.NameA, a.NameB))

	return strings.Join(parts, "\n")
}

func describe(p *pokeapi.Pokemon) string {
	keys := make([]string, 0, len(p.Stats))
	for k := range p.Stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	statParts := make([]string, 0, len(keys))
	for _, k := range keys {
		statParts = append(statParts, fmt.Sprintf("%s=%d", k, p.Stats[k]))
	}

	return strings.Join([]string{
		fmt.Sprintf("%s (#%d)", p.Name, p.ID),
		fmt.Sprintf("- Types: %s", strings.Join(p.Types, "/")),
		fmt.Sprintf("- Stats: %s", strings.Join(statParts, ", ")),
		fmt.Sprintf("- Abilities: %s", listOrNone(p.Abilities)),
		fmt.Sprintf("- Height: %d, Weight: %d", p.Height, p.Weight),
	}, "\n")
}

func matchupLines(results []typechart.Result) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("- %s vs %s: x%g (%s)",
			r.AttackingType, strings.Join(r.DefendingTypes, "/"), r.Multiplier, r.Label))
	}
	if len(lines) == 0 {
		lines = append(lines, "- none")
	}
	return lines
}

func speedLine(a *Analysis) string {
	switch a.Stats.SpeedAdvantage {
	case stats.SideA:
		return a.A.Name
	case stats.SideB:
		return a.B.Name
	default:
		return "speed tie or unknown"
	}
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
