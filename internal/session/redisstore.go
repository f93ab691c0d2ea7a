package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	ginsessions "github.com/gin-contrib/sessions"
	gorilla "github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "sess:"

// RedisStore はセッションレコードを Redis に保存する sessions.Store 実装です。
// クッキーには乱数トークンのみを載せ、本体は sess:<token> キーの JSON として
// TTL 付きで保持します。
type RedisStore struct {
	rdb  *redis.Client
	ttl  time.Duration
	opts *gorilla.Options
}

var _ ginsessions.Store = (*RedisStore)(nil)

// NewRedisStore は RedisStore を作成します。
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		ttl: ttl,
		opts: &gorilla.Options{
			Path:   "/",
			MaxAge: int(ttl.Seconds()),
		},
	}
}

// Options はセッションクッキーの属性を設定します。
func (s *RedisStore) Options(options ginsessions.Options) {
	s.opts = &gorilla.Options{
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	}
}

// Get はリクエストのレジストリ経由でセッションを取得します。
func (s *RedisStore) Get(r *http.Request, name string) (*gorilla.Session, error) {
	return gorilla.GetRegistry(r).Get(s, name)
}

// New はクッキーのトークンから既存セッションを復元します。
// クッキーが無い場合やレコードが失効している場合は新規セッションを返します。
func (s *RedisStore) New(r *http.Request, name string) (*gorilla.Session, error) {
	sess := gorilla.NewSession(s, name)
	opts := *s.opts
	sess.Options = &opts
	sess.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return sess, nil
	}

	values, err := s.load(r.Context(), c.Value)
	if err != nil {
		return sess, err
	}
	if values != nil {
		sess.ID = c.Value
		sess.Values = values
		sess.IsNew = false
	}
	return sess, nil
}

// Save はセッションレコードを書き込み、トークンをクッキーへ載せます。
// MaxAge が 0 以下の場合はレコードを削除してクッキーを失効させます。
func (s *RedisStore) Save(r *http.Request, w http.ResponseWriter, sess *gorilla.Session) error {
	if sess.Options.MaxAge <= 0 {
		if sess.ID != "" {
			if err := s.rdb.Del(r.Context(), sessionKey(sess.ID)).Err(); err != nil {
				return fmt.Errorf("delete session record: %w", err)
			}
		}
		http.SetCookie(w, gorilla.NewCookie(sess.Name(), "", sess.Options))
		return nil
	}

	if sess.ID == "" {
		token, err := generateToken()
		if err != nil {
			return fmt.Errorf("generate session token: %w", err)
		}
		sess.ID = token
	}

	payload := make(map[string]any, len(sess.Values))
	for k, v := range sess.Values {
		key, ok := k.(string)
		if !ok {
			return fmt.Errorf("session key must be a string, got %T", k)
		}
		payload[key] = v
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}

	ttl := s.ttl
	if maxAge := sess.Options.MaxAge; maxAge > 0 {
		ttl = time.Duration(maxAge) * time.Second
	}
	if err := s.rdb.Set(r.Context(), sessionKey(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("store session record: %w", err)
	}

	http.SetCookie(w, gorilla.NewCookie(sess.Name(), sess.ID, sess.Options))
	return nil
}

func (s *RedisStore) load(ctx context.Context, token string) (map[any]any, error) {
	data, err := s.rdb.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load session record: %w", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}

	values := make(map[any]any, len(payload))
	for k, v := range payload {
		values[k] = v
	}
	return values, nil
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
