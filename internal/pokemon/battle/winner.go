package battle

import (
	"regexp"
	"strings"
)

var (
	winnerLine = regexp.MustCompile(`(?im)^[\s*#>_-]*(?:final\s+)?(?:winner|verdict)\s*[:\-]\s*(.+)$`)
	winTerm    = regexp.MustCompile(`(?i)\b(?:win|wins|winner|winning|victor|victorious|victory|prevail|prevails|beat|beats|defeat|defeats|triumph|triumphs|outclass|outclasses)\b`)
	negation   = regexp.MustCompile(`(?i)\b(?:not|never|cannot|can't|won't|wouldn't|unlikely)\b`)
	clauses    = regexp.MustCompile(`[.!?;,\n]+`)
)

// negationWindow is how many words before a winning term a negation may
// sit when the credited name follows the term.
const negationWindow = 3

// ResolveWinner picks which of a and b the reasoning text declares the
// winner. An explicit "Winner: X" line decides first. Otherwise every
// clause with a winning term votes for the name it credits, unless a
// negation sits between that name and the term or just before the term.
// The side with more votes wins; anything else is Undetermined.
// The returned name is a or b exactly as passed.
func ResolveWinner(text, a, b string) string {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" || strings.EqualFold(a, b) {
		return Undetermined
	}
	reA, reB := nameRegexp(a), nameRegexp(b)

	if m := winnerLine.FindAllStringSubmatch(text, -1); len(m) > 0 {
		line := m[len(m)-1][1]
		inA, inB := reA.MatchString(line), reB.MatchString(line)
		switch {
		case inA && !inB:
			return a
		case inB && !inA:
			return b
		}
	}

	var votesA, votesB int
	for _, s := range clauses.Split(text, -1) {
		term := winTerm.FindStringIndex(s)
		if term == nil {
			continue
		}
		side, at := credited(s, term[0], reA, reB)
		if side == 0 || negated(s, at, term[0]) {
			continue
		}
		switch side {
		case 1:
			votesA++
		case 2:
			votesB++
		}
	}

	switch {
	case votesA > votesB:
		return a
	case votesB > votesA:
		return b
	default:
		return Undetermined
	}
}

// credited returns 1 or 2 for the name a clause credits with the win and
// the offset of that mention, or 0 when it mentions neither. With both
// present, the name closest before the winning term is the subject
// ("X would beat Y"); failing that, the first one after it ("the winner
// is X over Y").
func credited(clause string, termAt int, reA, reB *regexp.Regexp) (int, int) {
	locA := reA.FindAllStringIndex(clause, -1)
	locB := reB.FindAllStringIndex(clause, -1)

	lastBefore := func(locs [][]int) int {
		pos := -1
		for _, l := range locs {
			if l[0] < termAt {
				pos = l[0]
			}
		}
		return pos
	}
	firstAfter := func(locs [][]int) int {
		for _, l := range locs {
			if l[0] > termAt {
				return l[0]
			}
		}
		return len(clause) + 1
	}

	switch {
	case len(locA) == 0 && len(locB) == 0:
		return 0, 0
	case len(locB) == 0:
		if pos := lastBefore(locA); pos >= 0 {
			return 1, pos
		}
		return 1, firstAfter(locA)
	case len(locA) == 0:
		if pos := lastBefore(locB); pos >= 0 {
			return 2, pos
		}
		return 2, firstAfter(locB)
	}

	beforeA, beforeB := lastBefore(locA), lastBefore(locB)
	switch {
	case beforeA > beforeB:
		return 1, beforeA
	case beforeB > beforeA:
		return 2, beforeB
	}

	afterA, afterB := firstAfter(locA), firstAfter(locB)
	if afterA < afterB {
		return 1, afterA
	}
	return 2, afterB
}

// negated reports a negation between the credited mention and the term,
// or within the few words right before the term.
func negated(clause string, nameAt, termAt int) bool {
	if nameAt < termAt {
		return negation.MatchString(clause[nameAt:termAt])
	}
	words := strings.Fields(clause[:termAt])
	if len(words) > negationWindow {
		words = words[len(words)-negationWindow:]
	}
	return negation.MatchString(strings.Join(words, " "))
}

func nameRegexp(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
}
