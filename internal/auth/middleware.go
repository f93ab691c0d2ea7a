package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/bookworm/internal/session"
)

// ContextUserKey は、ハンドラー間でログイン済みユーザーIDを共有するためのキーです。
const ContextUserKey = "auth.user_id"

// MessageLoginRequired は未ログインで保護ページにアクセスした場合のメッセージです。
const MessageLoginRequired = "You must be logged in to view this page."

// ProfilePath はログイン済みユーザーの着地先です。
const ProfilePath = "/profile"

// CurrentUser はセッションのユーザーIDをコンテキストに載せるミドルウェアを返します。
// ログイン状態に関係なく全ルートに適用し、テンプレートのナビゲーション切り替えに使います。
func CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := session.CurrentUserID(c); ok {
			c.Set(ContextUserKey, userID)
		}
		c.Next()
	}
}

// RequireLogin はログイン済みユーザーのみを通すミドルウェアを返します。
// セッションがユーザーIDに解決できない場合は 401 のエラーページを表示します。
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := session.CurrentUserID(c)
		if !ok {
			c.HTML(http.StatusUnauthorized, "error.html", gin.H{
				"Title":   "Error",
				"Status":  http.StatusUnauthorized,
				"Message": MessageLoginRequired,
			})
			c.Abort()
			return
		}

		c.Set(ContextUserKey, userID)
		c.Next()
	}
}

// RequireAnonymous は未ログインの訪問者のみを通すミドルウェアを返します。
// ログイン済みユーザーはエラーではなくプロフィールへリダイレクトします。
func RequireAnonymous() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := session.CurrentUserID(c); ok {
			c.Redirect(http.StatusFound, ProfilePath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserIDFromContext は CurrentUser / RequireLogin が載せたユーザーIDを取り出します。
func UserIDFromContext(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextUserKey)
	return userID, userID != ""
}
