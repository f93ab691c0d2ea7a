package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/bookworm/internal/auth"
)

// render はテンプレートを描画します。
// ナビゲーション切り替え用に、ログイン中のユーザーIDを常にデータへ加えます。
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if userID, ok := auth.UserIDFromContext(c); ok {
		data["CurrentUser"] = userID
	}
	c.HTML(status, name, data)
}

// renderError はエラーページを描画します。
// 5xx 系のみ原因をログに残します（4xx は利用者の操作起因のため残しません）。
func (h *Handler) renderError(c *gin.Context, status int, message string, cause error) {
	if status >= http.StatusInternalServerError && cause != nil {
		h.log.Error().Err(cause).Str("path", c.FullPath()).Msg("request failed")
	}
	h.render(c, status, "error.html", gin.H{
		"Title":   "Error",
		"Status":  status,
		"Message": message,
	})
}
