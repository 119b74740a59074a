package common

// Step 調製步驟
type Step struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
}

// Recipe 遠端服務回傳的雞尾酒食譜，寫入本地後不可修改
type Recipe struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Steps               []Step   `json:"steps"`
	IsAlcoholic         bool     `json:"is_alcoholic"`
	Mixers              []string `json:"mixers,omitempty"`
	Size                string   `json:"size"`
	Cost                float64  `json:"cost"`
	Complexity          string   `json:"complexity"`
	RequiredIngredients []string `json:"required_ingredients"`
	RequiredTools       []string `json:"required_tools"`
	BaseIngredients     []string `json:"base_ingredients,omitempty"`
}

// RecipeIDs 回傳食譜 id 清單
func RecipeIDs(recipes []Recipe) []string {
	ids := make([]string, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	return ids
}
