// Package names pulls candidate Pokemon names out of free-form questions.
//
// Relational patterns always win over the capitalization heuristic, even when
// the heuristic would have picked different words.
package names

import (
	"regexp"
	"strings"
)

var pairPatterns = []*regexp.Regexp{
	// between X and Y, of X vs Y
	regexp.MustCompile(`(?i)(?:between|of)\s+(\w+)\s+(?:and|vs\.?|versus)\s+(\w+)`),
	// X vs Y
	regexp.MustCompile(`(?i)(\w+)\s+(?:vs\.?|versus)\s+(\w+)`),
	// would X beat Y
	regexp.MustCompile(`(?i)(?:would|will|could)\s+(\w+)\s+(?:beat|defeat|win against)\s+(\w+)`),
	// would X or Y win
	regexp.MustCompile(`(?i)(?:would|will|could)\s+(\w+)\s+(?:or)\s+(\w+)\s+(?:win)`),
}

var singlePatterns = []*regexp.Regexp{
	// about Pikachu, of Charizard
	regexp.MustCompile(`(?i)(?:about|of)\s+(\w+)(?:[\s'?!.,]|$)`),
	// is Pikachu's, are Charizard
	regexp.MustCompile(`(?i)(?:is|are)\s+(\w+)(?:'s|\s)`),
}

var capitalized = regexp.MustCompile(`\b([A-Z][a-z]+)\b`)

// commonWords are capitalized tokens that open questions or commands and are
// never names.
var commonWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "can": true,
	"compare": true, "could": true, "describe": true, "do": true, "does": true,
	"explain": true, "give": true, "hello": true, "hi": true, "how": true,
	"i": true, "if": true, "in": true, "is": true, "list": true,
	"please": true, "pokemon": true, "show": true, "stats": true, "tell": true, "the": true,
	"this": true, "that": true, "type": true,
	"what": true, "when": true, "where": true, "which": true, "who": true,
	"whom": true, "whose": true, "why": true, "will": true, "would": true,
}

// ExtractPair returns exactly two lowercase names, or nil when two could not
// be found.
func ExtractPair(text string) []string {
	for _, p := range pairPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return []string{strings.ToLower(m[1]), strings.ToLower(m[2])}
		}
	}

	words := capitalizedWords(text)
	if len(words) >= 2 {
		return words[:2]
	}
	return nil
}

// ExtractSingle returns one lowercase name, or "" when none was found.
// Pattern captures that are common words ("are the stats") are skipped.
func ExtractSingle(text string) string {
	for _, p := range singlePatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			if w := strings.ToLower(m[1]); !commonWords[w] {
				return w
			}
		}
	}

	if words := capitalizedWords(text); len(words) > 0 {
		return words[0]
	}
	return ""
}

// ExtractAll returns the pair when one is present, otherwise the single name,
// otherwise nil.
func ExtractAll(text string) []string {
	if pair := ExtractPair(text); len(pair) == 2 {
		return pair
	}
	if single := ExtractSingle(text); single != "" {
		return []string{single}
	}
	return nil
}

func capitalizedWords(text string) []string {
	var out []string
	for _, m := range capitalized.FindAllStringSubmatch(text, -1) {
		w := strings.ToLower(m[1])
		if commonWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}
