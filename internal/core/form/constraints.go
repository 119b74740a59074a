package form

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"cocktail-web/internal/core/cocktail"
	"cocktail-web/internal/pkg/common"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Constraints 使用者在表單上選的條件
type Constraints struct {
	Mixers        []string `form:"mixers" json:"mixers" validate:"required,min=1,max=3,dive,required"`
	SuggestMixers bool     `form:"suggest_mixers" json:"suggest_mixers"`
	Spirits       []string `form:"spirits" json:"spirits,omitempty" validate:"max=3,dive,required"`
	Moment        string   `form:"moment" json:"moment,omitempty"`
	Cost          float64  `form:"cost" json:"cost,omitempty" validate:"gte=0"`
	Complexity    string   `form:"complexity" json:"complexity,omitempty" validate:"omitempty,oneof=easy medium hard"`
	Tools         []string `form:"tools" json:"tools,omitempty" validate:"max=5,dive,required"`
	HasShaker     bool     `form:"has_shaker" json:"has_shaker"`
}

// DefaultConstraints 空白表單的預設值
func DefaultConstraints() Constraints {
	return Constraints{
		SuggestMixers: true,
		Complexity:    "medium",
		HasShaker:     true,
	}
}

// Equal 逐欄位比較；清單順序不同視為不同
func (c Constraints) Equal(o Constraints) bool {
	return slices.Equal(c.Mixers, o.Mixers) &&
		c.SuggestMixers == o.SuggestMixers &&
		slices.Equal(c.Spirits, o.Spirits) &&
		c.Moment == o.Moment &&
		c.Cost == o.Cost &&
		c.Complexity == o.Complexity &&
		slices.Equal(c.Tools, o.Tools) &&
		c.HasShaker == o.HasShaker
}

// Validate 檢查表單值，錯誤訊息可直接顯示給使用者
func (c Constraints) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return common.NewValidationError(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return common.NewValidationError(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.StructField())
	switch fe.Tag() {
	case "required":
		if field == "mixers" {
			return "select at least one mixer"
		}
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("select at least %s %s", fe.Param(), field)
	case "max":
		return fmt.Sprintf("select up to %s %s", fe.Param(), field)
	case "gte":
		return fmt.Sprintf("%s must not be negative", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Normalize 去掉空白項目
func (c Constraints) Normalize() Constraints {
	c.Mixers = compact(c.Mixers)
	c.Spirits = compact(c.Spirits)
	c.Tools = compact(c.Tools)
	c.Moment = strings.TrimSpace(c.Moment)
	c.Complexity = strings.TrimSpace(c.Complexity)
	return c
}

func compact(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ToRequest 轉成遠端請求，exclude 為空時不帶 previous_recipes
func (c Constraints) ToRequest(exclude []string) cocktail.CreateRequest {
	req := cocktail.CreateRequest{
		Mixers:          slices.Clone(c.Mixers),
		SuggestMixers:   c.SuggestMixers,
		Cost:            c.Cost,
		Complexity:      c.Complexity,
		RequiredTools:   slices.Clone(c.Tools),
		Moment:          c.Moment,
		HasShaker:       c.HasShaker,
		BaseIngredients: slices.Clone(c.Spirits),
	}
	if len(exclude) > 0 {
		req.PreviousRecipes = slices.Clone(exclude)
	}
	return req
}

func (c Constraints) clone() Constraints {
	c.Mixers = slices.Clone(c.Mixers)
	c.Spirits = slices.Clone(c.Spirits)
	c.Tools = slices.Clone(c.Tools)
	return c
}
