package cocktail

import (
	"net/http"

	"cocktail-web/internal/api/middleware"
	"cocktail-web/internal/core/form"
	"cocktail-web/internal/core/presentation"
	"cocktail-web/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// indexPage 首頁資料
type indexPage struct {
	AppName string
	Refresh bool
	View    form.View
	Recipe  *presentation.RecipeView
	Values  form.Constraints
	Options form.Options
	Notice  string
	Error   string
}

// historyPage 歷史紀錄頁資料
type historyPage struct {
	AppName   string
	Refresh   bool
	Cocktails []presentation.RecipeView
	Notice    string
}

func (h *Handler) renderIndex(c *gin.Context, status int, flow *form.Flow, values *form.Constraints, errMsg string) {
	view := flow.View()
	page := indexPage{
		AppName: h.appName,
		View:    view,
		Values:  view.Values,
		Options: h.options,
		Notice:  flow.TakeNotice(),
		Error:   errMsg,
		// 請求進行中時自動重新整理
		Refresh: view.State == form.Submitting,
	}
	if values != nil {
		page.Values = *values
	}
	if view.Recipe != nil {
		rv := h.tips.Render(*view.Recipe)
		page.Recipe = &rv
	}
	c.HTML(status, "index.html", page)
}

// Index GET /
func (h *Handler) Index(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, h.flow(c), nil, "")
}

// Create POST /cocktails
func (h *Handler) Create(c *gin.Context) {
	flow := h.flow(c)

	var values form.Constraints
	if err := c.ShouldBind(&values); err != nil {
		common.LogWarn("表單格式無效",
			zap.String("request_id", middleware.RequestID(c)),
			zap.Error(err),
		)
		h.renderIndex(c, http.StatusBadRequest, flow, &values, "The form could not be read. Please check your values.")
		return
	}

	state, err := flow.Submit(c.Request.Context(), values)
	if common.IsValidationError(err) {
		h.renderIndex(c, http.StatusUnprocessableEntity, flow, &values, err.Error())
		return
	}
	h.afterSubmit(c, state, err)

	c.Redirect(http.StatusSeeOther, "/")
}

// Retry POST /cocktails/retry
func (h *Handler) Retry(c *gin.Context) {
	state, err := h.flow(c).ConfirmRetry(c.Request.Context())
	h.afterSubmit(c, state, err)
	c.Redirect(http.StatusSeeOther, "/")
}

// Cancel POST /cocktails/cancel
func (h *Handler) Cancel(c *gin.Context) {
	h.flow(c).CancelRetry()
	c.Redirect(http.StatusSeeOther, "/")
}

// Reset POST /cocktails/reset
func (h *Handler) Reset(c *gin.Context) {
	h.flow(c).Reset()
	c.Redirect(http.StatusSeeOther, "/")
}

// History GET /account/cocktails
func (h *Handler) History(c *gin.Context) {
	page := historyPage{AppName: h.appName}

	recipes, err := h.store.List(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		common.LogError("讀取食譜失敗", common.ErrorFields(err)...)
		page.Notice = common.GenericFailureMessage
		c.HTML(http.StatusInternalServerError, "history.html", page)
		return
	}

	page.Cocktails = h.tips.RenderAll(recipes)
	c.HTML(http.StatusOK, "history.html", page)
}

// DeleteFromHistory POST /account/cocktails/:id/delete
func (h *Handler) DeleteFromHistory(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), middleware.SessionID(c), c.Param("id")); err != nil {
		common.LogError("刪除食譜失敗", common.ErrorFields(err)...)
		c.HTML(http.StatusInternalServerError, "history.html", historyPage{
			AppName: h.appName,
			Notice:  common.GenericFailureMessage,
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/account/cocktails")
}
