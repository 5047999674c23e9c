// internal/workers/pokemon/answer-question/models.go
package answerquestion

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	Answer    string  `json:"answer"`
	Reasoning *string `json:"reasoning"`
	Category  string  `json:"category"`
}
