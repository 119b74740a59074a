package cocktail

import (
	"net/http"

	"cocktail-web/internal/api/middleware"
	"cocktail-web/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ListJSON GET /api/v1/cocktails，目前 session 的食譜，依寫入順序
func (h *Handler) ListJSON(c *gin.Context) {
	recipes, err := h.store.List(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		common.LogError("讀取食譜失敗", common.ErrorFields(err)...)
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cocktails": recipes,
		"count":     len(recipes),
	})
}

// DeleteJSON DELETE /api/v1/cocktails/:id，不存在的 id 也回傳成功
func (h *Handler) DeleteJSON(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), middleware.SessionID(c), c.Param("id")); err != nil {
		common.LogError("刪除食譜失敗", common.ErrorFields(err)...)
		c.JSON(http.StatusInternalServerError, common.ErrInternalError.Response())
		return
	}
	c.Status(http.StatusNoContent)
}

// Tip GET /api/v1/tips/:keyword
func (h *Handler) Tip(c *gin.Context) {
	tip, ok := h.tips.Lookup(c.Param("keyword"))
	if !ok {
		c.JSON(http.StatusNotFound, common.ErrNotFound.Response())
		return
	}
	c.JSON(http.StatusOK, tip)
}

// Options GET /api/v1/options
func (h *Handler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.options)
}

// FormState GET /api/v1/form，目前 session 的表單狀態
func (h *Handler) FormState(c *gin.Context) {
	view := h.flow(c).View()
	c.JSON(http.StatusOK, gin.H{
		"state":      view.State.String(),
		"values":     view.Values,
		"recipe":     view.Recipe,
		"notice":     view.Notice,
		"exclusions": view.Exclusions,
	})
}
