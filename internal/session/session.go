// Package session はセッションクッキーとログイン状態の対応を管理します。
//
// クッキーが運ぶのは不透明なセッショントークンだけで、ユーザーIDは
// サーバー側のレコード（cookie ストアの場合は署名済みクッキー本体、
// redis ストアの場合は token → {userId} のレコード）に保持されます。
package session

import (
	"fmt"
	"time"

	ginsessions "github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/yourusername/bookworm/internal/config"
)

// CookieName はセッションクッキーの名前です。
const CookieName = "bw_session"

const sessionKeyUserID = "user_id"

// NewStore は設定に応じたセッションストアを作成します。
func NewStore(cfg *config.Config) (ginsessions.Store, error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		opt, err := redis.ParseURL(cfg.SessionRedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
		return NewRedisStore(redis.NewClient(opt), ttl), nil
	default:
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil
	}
}

// LogIn は現在のセッションにユーザーIDを保存します。
// ログイン成功時と登録完了時に呼ばれます。
func LogIn(c *gin.Context, userID string) error {
	s := ginsessions.Default(c)
	s.Set(sessionKeyUserID, userID)
	if err := s.Save(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LogOut は現在のセッションを破棄します。
func LogOut(c *gin.Context) error {
	s := ginsessions.Default(c)
	s.Clear()
	// MaxAge を負にするとストア側のレコード削除とクッキーの失効が行われる
	s.Options(ginsessions.Options{Path: "/", MaxAge: -1})
	if err := s.Save(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// CurrentUserID は現在のリクエストのセッションからユーザーIDを取り出します。
// 未ログインの場合は false を返します。
func CurrentUserID(c *gin.Context) (string, bool) {
	userID, ok := ginsessions.Default(c).Get(sessionKeyUserID).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
