// internal/workers/pokemon/predict-battle/models.go
package predictbattle

import "pokemon-assistant/internal/pokemon/battle"

type Input struct {
	Pokemon1 string `json:"pokemon1"`
	Pokemon2 string `json:"pokemon2"`
}

type Output struct {
	Result *battle.Verdict `json:"result"`
}
