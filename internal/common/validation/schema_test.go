// internal/common/validation/schema_test.go
package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRequestSchema(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		valid bool
		field string
	}{
		{"valid", `{"question":"Who would win?"}`, true, ""},
		{"long question", `{"question":"` + strings.Repeat("Tell me about Pikachu. ", 200) + `"}`, true, ""},
		{"missing question", `{}`, false, "question"},
		{"empty question", `{"question":""}`, false, "question"},
		{"wrong type", `{"question":42}`, false, "question"},
		{"not json", `{"question":`, false, "(root)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ChatRequestSchema.ValidateBytes([]byte(tt.doc))
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.True(t, result.HasErrors(tt.field), "errors: %v", result.Errors)
				assert.NotEmpty(t, result.Error())
			} else {
				assert.Empty(t, result.Error())
			}
		})
	}
}

func TestClassificationSchema(t *testing.T) {
	valid := ClassificationSchema.ValidateGo(map[string]interface{}{
		"category":      "battle",
		"pokemon_names": []interface{}{"pikachu", "charizard"},
		"confidence":    0.9,
	})
	assert.True(t, valid.Valid, valid.Error())

	threeNames := ClassificationSchema.ValidateGo(map[string]interface{}{
		"category":      "battle_analysis",
		"pokemon_names": []interface{}{"a", "b", "c"},
		"confidence":    0.9,
	})
	assert.True(t, threeNames.Valid, threeNames.Error())

	outOfRange := ClassificationSchema.ValidateBytes([]byte(`{"category":"direct","confidence":1.5}`))
	assert.False(t, outOfRange.Valid)
	assert.True(t, outOfRange.HasErrors("confidence"))

	unknown := ClassificationSchema.ValidateBytes([]byte(`{"category":"weather","confidence":0.9}`))
	assert.False(t, unknown.Valid)
	assert.True(t, unknown.HasErrors("category"))
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", `{"type": 12}`)
	require.Error(t, err)
}
