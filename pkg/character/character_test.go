package character

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJSONWithSurroundingProse(t *testing.T) {
	got := Parse(`Sure! {"name": "Ava Stone", "personality": "Fearless and witty."}`)
	assert.Equal(t, Suggestion{Name: "Ava Stone", Personality: "Fearless and witty."}, got)
}

func TestParseJSONKeyOrderDoesNotMatter(t *testing.T) {
	got := Parse(`{"personality": "Quiet and sharp.", "name": "Juno"}`)
	assert.Equal(t, Suggestion{Name: "Juno", Personality: "Quiet and sharp."}, got)
}

func TestParseJSONInsideMarkdownFence(t *testing.T) {
	raw := "```json\n{\"name\": \"Kai\", \"personality\": \"Calm under pressure.\"}\n```"
	got := Parse(raw)
	assert.Equal(t, Suggestion{Name: "Kai", Personality: "Calm under pressure."}, got)
}

func TestParseJSONMissingFieldsDefaultIndependently(t *testing.T) {
	got := Parse(`{"name": 42, "personality": "Witty."}`)
	assert.Equal(t, Suggestion{Name: DefaultName, Personality: "Witty."}, got)
}

func TestParseLineFallback(t *testing.T) {
	got := Parse("Name: Kael\nPersonality: Stoic but kind")
	assert.Equal(t, Suggestion{Name: "Kael", Personality: "Stoic but kind"}, got)
}

func TestParseLineFallbackStripsQuotes(t *testing.T) {
	got := Parse("Name: \"Mira Vale\"\nPersonality: \"Restless.\"")
	assert.Equal(t, Suggestion{Name: "Mira Vale", Personality: "Restless."}, got)
}

func TestParseLaterLinesWin(t *testing.T) {
	got := Parse("Name: First\nPersonality: Early\nName: Second\nPersonality: Late")
	assert.Equal(t, Suggestion{Name: "Second", Personality: "Late"}, got)
}

func TestParseTotalFallback(t *testing.T) {
	got := Parse("Just a moody drifter.")
	assert.Equal(t, Suggestion{Name: DefaultName, Personality: "Just a moody drifter."}, got)
}

func TestParseEmptyInput(t *testing.T) {
	got := Parse("   \n ")
	assert.Equal(t, Suggestion{Name: DefaultName, Personality: DefaultPersonality}, got)
}

// Malformed JSON-looking output must still degrade, never fail.
func TestParseMalformedJSONDegrades(t *testing.T) {
	got := Parse("{\"name\": \"Ava\", \"personality\": }")
	assert.NotEmpty(t, got.Name)
	assert.NotEmpty(t, got.Personality)
}
