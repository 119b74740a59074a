// Package presentation 把食譜轉成可顯示的結構，步驟中的動作關鍵字會附上說明
package presentation

import (
	"strings"

	"cocktail-web/internal/pkg/common"
)

// Segment 一段文字；Tip 不為 nil 時為可點擊的關鍵字
type Segment struct {
	Text string `json:"text"`
	Tip  *Tip   `json:"tip,omitempty"`
}

// Interactive 是否為關鍵字片段
func (s Segment) Interactive() bool {
	return s.Tip != nil
}

// Decorate 切分文字，原文順序與內容不變
func (t *TipTable) Decorate(text string) []Segment {
	if text == "" {
		return nil
	}
	if t == nil || t.pattern == nil {
		return []Segment{{Text: text}}
	}

	var segments []Segment
	last := 0
	for _, loc := range t.pattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		match := text[loc[0]:loc[1]]
		tip, ok := t.tips[strings.ToLower(match)]
		if !ok {
			segments = append(segments, Segment{Text: match})
		} else {
			segments = append(segments, Segment{Text: match, Tip: &tip})
		}
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// Plain 還原成原始文字
func Plain(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// StepView 一個顯示用的步驟
type StepView struct {
	Index    int       `json:"index"`
	Segments []Segment `json:"segments"`
}

// RecipeView 顯示用的食譜
type RecipeView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsAlcoholic bool       `json:"is_alcoholic"`
	Size        string     `json:"size"`
	Ingredients string     `json:"ingredients"`
	Mixers      string     `json:"mixers,omitempty"`
	Base        string     `json:"base_ingredients,omitempty"`
	Tools       string     `json:"tools,omitempty"`
	Cost        float64    `json:"cost"`
	Complexity  string     `json:"complexity"`
	Steps       []StepView `json:"steps"`
}

// Render 純轉換，不修改輸入
func (t *TipTable) Render(r common.Recipe) RecipeView {
	steps := make([]StepView, 0, len(r.Steps))
	for _, s := range r.Steps {
		steps = append(steps, StepView{Index: s.Index, Segments: t.Decorate(s.Description)})
	}

	return RecipeView{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsAlcoholic: r.IsAlcoholic,
		Size:        r.Size,
		Ingredients: common.JoinList(r.RequiredIngredients),
		Mixers:      common.JoinList(r.Mixers),
		Base:        common.JoinList(r.BaseIngredients),
		Tools:       common.JoinList(r.RequiredTools),
		Cost:        r.Cost,
		Complexity:  r.Complexity,
		Steps:       steps,
	}
}

// RenderAll 依序轉換多筆
func (t *TipTable) RenderAll(recipes []common.Recipe) []RecipeView {
	views := make([]RecipeView, 0, len(recipes))
	for _, r := range recipes {
		views = append(views, t.Render(r))
	}
	return views
}
