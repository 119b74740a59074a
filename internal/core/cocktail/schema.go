package cocktail

import (
	"cocktail-web/internal/pkg/common"
)

// recipeWire 回應的宣告結構，指標欄位用來區分「缺少」與「零值」
type recipeWire struct {
	ID                  *string    `json:"id" validate:"required"`
	Name                *string    `json:"name" validate:"required"`
	Description         *string    `json:"description" validate:"required"`
	Steps               []stepWire `json:"steps" validate:"required,min=1,dive"`
	IsAlcoholic         *bool      `json:"is_alcoholic" validate:"required"`
	Mixers              []string   `json:"mixers"`
	Size                *string    `json:"size" validate:"required"`
	Cost                *float64   `json:"cost" validate:"required"`
	Complexity          *string    `json:"complexity" validate:"required"`
	RequiredIngredients []string   `json:"required_ingredients" validate:"required"`
	RequiredTools       []string   `json:"required_tools" validate:"required"`
	BaseIngredients     []string   `json:"base_ingredients"`
}

type stepWire struct {
	Index       *int    `json:"index" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

func (w *recipeWire) toRecipe() *common.Recipe {
	steps := make([]common.Step, 0, len(w.Steps))
	for _, s := range w.Steps {
		steps = append(steps, common.Step{Index: *s.Index, Description: *s.Description})
	}

	return &common.Recipe{
		ID:                  *w.ID,
		Name:                *w.Name,
		Description:         *w.Description,
		Steps:               steps,
		IsAlcoholic:         *w.IsAlcoholic,
		Mixers:              w.Mixers,
		Size:                *w.Size,
		Cost:                *w.Cost,
		Complexity:          *w.Complexity,
		RequiredIngredients: w.RequiredIngredients,
		RequiredTools:       w.RequiredTools,
		BaseIngredients:     w.BaseIngredients,
	}
}
