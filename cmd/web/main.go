// Package main はWebサーバーのエントリーポイントです。
package main

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	ginsessions "github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yourusername/bookworm/internal/auth"
	"github.com/yourusername/bookworm/internal/config"
	"github.com/yourusername/bookworm/internal/session"
	"github.com/yourusername/bookworm/internal/user"
	"github.com/yourusername/bookworm/internal/web"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// ユーザーストアの初期化
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal().Err(err).Msg("failed to create database directory")
		}
	}
	hasher := auth.NewHasher(cfg.BcryptCost)
	users, err := user.NewStore(cfg.DatabasePath, hasher)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open user store")
	}
	defer users.Close()

	// セッションストアの設定
	store, err := session.NewStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create session store")
	}
	store.Options(ginsessions.Options{
		Path:     "/",
		MaxAge:   int((time.Duration(cfg.SessionTTLHours) * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteStrictMode,
	})

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.Use(ginsessions.Sessions(session.CookieName, store))

	// テンプレートと静的ファイルの設定
	router.LoadHTMLGlob(cfg.TemplateGlob)
	router.Static("/static", cfg.StaticDir)

	// ルーティングの設定
	authenticator := auth.NewAuthenticator(users, hasher)
	handler := web.NewHandler(users, authenticator, logger)
	handler.Register(router)

	// サーバーの起動
	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Str("mode", cfg.GinMode).Msg("starting web server")
	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
