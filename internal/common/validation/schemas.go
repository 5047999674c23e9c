package validation

// ChatRequestSchema validates POST /api/chat bodies.
var ChatRequestSchema = MustCompile("chat-request", `{
	"type": "object",
	"required": ["question"],
	"properties": {
		"question": {"type": "string", "minLength": 1}
	}
}`)

// ClassificationSchema validates the JSON object returned by the classifier model.
var ClassificationSchema = MustCompile("classification", `{
	"type": "object",
	"required": ["category", "confidence"],
	"properties": {
		"category": {
			"type": "string",
			"enum": [
				"direct_answer", "pokemon_research", "pokemon_data", "battle_analysis",
				"direct", "research", "data_lookup", "battle"
			]
		},
		"pokemon_names": {
			"type": "array",
			"items": {"type": "string"}
		},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1}
	}
}`)

// BattleJobSchema validates workflow variables for battle prediction jobs.
var BattleJobSchema = MustCompile("battle-job", `{
	"type": "object",
	"required": ["pokemon1", "pokemon2"],
	"properties": {
		"pokemon1": {"type": "string", "minLength": 1},
		"pokemon2": {"type": "string", "minLength": 1}
	}
}`)
