// Package cocktail 雞尾酒頁面與 JSON API 的處理器
package cocktail

import (
	"context"
	"errors"

	"cocktail-web/internal/api/middleware"
	"cocktail-web/internal/core/form"
	"cocktail-web/internal/core/presentation"
	"cocktail-web/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecipeStore 本地食譜資料庫
type RecipeStore interface {
	List(ctx context.Context, owner string) ([]common.Recipe, error)
	Delete(ctx context.Context, owner, id string) error
}

// Sessions 取得使用者的表單流程
type Sessions interface {
	Get(ctx context.Context, id string) *form.Flow
	Save(ctx context.Context, id string) error
}

// Handler 雞尾酒處理器
type Handler struct {
	store    RecipeStore
	sessions Sessions
	tips     *presentation.TipTable
	options  form.Options
	appName  string
}

// NewHandler 創建雞尾酒處理器
func NewHandler(store RecipeStore, sessions Sessions, tips *presentation.TipTable, appName string) *Handler {
	return &Handler{
		store:    store,
		sessions: sessions,
		tips:     tips,
		options:  form.Catalog(),
		appName:  appName,
	}
}

func (h *Handler) flow(c *gin.Context) *form.Flow {
	return h.sessions.Get(c.Request.Context(), middleware.SessionID(c))
}

// afterSubmit 成功時寫入快照，其他錯誤已經轉成提示訊息
func (h *Handler) afterSubmit(c *gin.Context, state form.State, err error) {
	requestID := middleware.RequestID(c)

	switch {
	case err == nil:
		if state != form.Result {
			return
		}
		// 快照失敗不影響已顯示的結果
		if serr := h.sessions.Save(c.Request.Context(), middleware.SessionID(c)); serr != nil {
			common.LogWarn("Session 快照寫入失敗",
				zap.String("request_id", requestID),
				zap.Error(serr),
			)
		}
	case isStateError(err), errors.Is(err, form.ErrResultDiscarded):
		common.LogInfo("表單狀態不允許此操作",
			zap.String("request_id", requestID),
			zap.String("state", state.String()),
			zap.Error(err),
		)
	default:
		common.LogDebug("送出失敗，已顯示通用訊息",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
	}
}

// isStateError 表單狀態不允許的操作
func isStateError(err error) bool {
	return errors.Is(err, form.ErrSubmissionInFlight) ||
		errors.Is(err, form.ErrResultShown) ||
		errors.Is(err, form.ErrNoPendingRetry)
}
