package presentation

import (
	"testing"

	"cocktail-web/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interactive(segments []Segment) []string {
	var words []string
	for _, s := range segments {
		if s.Interactive() {
			words = append(words, s.Text)
		}
	}
	return words
}

func TestDecorateMarksKeywords(t *testing.T) {
	tips := DefaultTips()
	text := "Shake well, then strain and garnish."

	segments := tips.Decorate(text)

	assert.Equal(t, []string{"Shake", "strain", "garnish"}, interactive(segments))
	assert.Equal(t, text, Plain(segments))
	require.NotNil(t, segments[0].Tip)
	assert.Equal(t, "shake", segments[0].Tip.Keyword)
	assert.NotEmpty(t, segments[0].Tip.VideoURL)
}

func TestDecorateWholeWordsOnly(t *testing.T) {
	tips := DefaultTips()

	cases := map[string][]string{
		"Pour the gin.":                        {"Pour"},
		"Pouring is not a keyword":             nil,
		"A milkshake with a refill":            nil,
		"Top off with soda, then SERVE":        {"Top off", "SERVE"},
		"Fill a glass; muddle mint":            {"Fill", "muddle"},
		"Strain-and-garnish":                   {"Strain", "garnish"},
		"Top the drink with foam":              nil,
		"topoff is not two words":              nil,
		"Serve. Serve again.":                  {"Serve", "Serve"},
		"Nothing to see here, just a cocktail": nil,
	}

	for text, want := range cases {
		segments := tips.Decorate(text)
		assert.Equal(t, want, interactive(segments), text)
		assert.Equal(t, text, Plain(segments), text)
	}
}

func TestDecorateIsIdempotent(t *testing.T) {
	tips := DefaultTips()

	for _, text := range []string{
		"Shake well, then strain and garnish.",
		"Top off with soda, then SERVE",
		"Nothing to see here",
	} {
		first := tips.Decorate(text)
		assert.Equal(t, first, tips.Decorate(text), text)
		assert.Equal(t, first, tips.Decorate(Plain(first)), text)
	}
}

func TestDecorateEmpty(t *testing.T) {
	assert.Nil(t, DefaultTips().Decorate(""))

	var none *TipTable
	segments := none.Decorate("pour")
	assert.Equal(t, []Segment{{Text: "pour"}}, segments)
}

func TestLookup(t *testing.T) {
	tips := DefaultTips()

	tip, ok := tips.Lookup("Top Off")
	require.True(t, ok)
	assert.Contains(t, tip.Text, "ice")

	_, ok = tips.Lookup("stir")
	assert.False(t, ok)

	assert.Equal(t,
		[]string{"fill", "garnish", "muddle", "pour", "serve", "shake", "strain", "top off"},
		tips.Keywords())
}

func TestRender(t *testing.T) {
	recipe := common.Recipe{
		ID:                  "r-1",
		Name:                "Sunset",
		Steps:               []common.Step{{Index: 1, Description: "Pour juice."}, {Index: 2, Description: "Serve cold."}},
		RequiredIngredients: []string{"orange juice", "grenadine"},
		RequiredTools:       []string{},
		Cost:                4,
	}

	view := DefaultTips().Render(recipe)

	assert.Equal(t, "orange juice, grenadine", view.Ingredients)
	assert.Equal(t, "", view.Tools)
	require.Len(t, view.Steps, 2)
	assert.Equal(t, 2, view.Steps[1].Index)
	assert.Equal(t, []string{"Serve"}, interactive(view.Steps[1].Segments))
	assert.Equal(t, "Pour juice.", recipe.Steps[0].Description, "input not modified")

	assert.Len(t, DefaultTips().RenderAll([]common.Recipe{recipe, recipe}), 2)
}
