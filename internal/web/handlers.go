// Package web はサイトの画面とフォーム処理のハンドラーを提供します。
package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yourusername/bookworm/internal/auth"
	"github.com/yourusername/bookworm/internal/session"
	"github.com/yourusername/bookworm/internal/user"
)

// 利用者向けメッセージ。認証失敗はメールとパスワードのどちらが
// 間違っていたかを明かさないよう単一のメッセージにまとめます。
const (
	messageWrongCredentials  = "Wrong email or password."
	messageCredentialsNeeded = "Email and password are required."
	messageAllFieldsRequired = "All fields are required."
	messagePasswordMismatch  = "Passwords do not match."
	messageEmailTaken        = "An account with that email already exists."
	messageNotFound          = "File Not Found."
	messageServerError       = "Something went wrong. Please try again later."
)

// UserStore はハンドラーが必要とするユーザーストアの操作です。
type UserStore interface {
	Create(ctx context.Context, input user.RegistrationInput) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// Authenticator は資格情報の検証を行います。
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}

// Handler は画面系ルートのハンドラーをまとめた構造体です。
type Handler struct {
	users UserStore
	auth  Authenticator
	log   zerolog.Logger
}

// NewHandler は Handler を作成します。
func NewHandler(users UserStore, authenticator Authenticator, logger zerolog.Logger) *Handler {
	return &Handler{
		users: users,
		auth:  authenticator,
		log:   logger,
	}
}

// Register はルーティングを設定します。
func (h *Handler) Register(router *gin.Engine) {
	router.Use(auth.CurrentUser())

	router.GET("/", h.home)
	router.GET("/about", h.about)
	router.GET("/contact", h.contact)

	// ログイン済みユーザーには登録・ログインフォームを見せない
	router.GET("/register", auth.RequireAnonymous(), h.showRegister)
	router.POST("/register", h.register)
	router.GET("/login", auth.RequireAnonymous(), h.showLogin)
	router.POST("/login", h.login)

	router.GET("/profile", auth.RequireLogin(), h.profile)
	router.GET("/logout", h.logout)

	router.NoRoute(h.notFound)
}

func (h *Handler) home(c *gin.Context) {
	h.render(c, http.StatusOK, "index.html", gin.H{"Title": "Home"})
}

func (h *Handler) about(c *gin.Context) {
	h.render(c, http.StatusOK, "about.html", gin.H{"Title": "About"})
}

func (h *Handler) contact(c *gin.Context) {
	h.render(c, http.StatusOK, "contact.html", gin.H{"Title": "Contact"})
}

func (h *Handler) showRegister(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Sign Up"})
}

// register は登録フォームの送信を処理します。
// 成功した場合はそのままログインさせ、プロフィールへリダイレクトします。
func (h *Handler) register(c *gin.Context) {
	email := c.PostForm("email")
	name := c.PostForm("name")
	favoriteBook := c.PostForm("favoriteBook")
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirmPassword")

	if email == "" || name == "" || favoriteBook == "" || password == "" || confirmPassword == "" {
		h.renderError(c, http.StatusBadRequest, messageAllFieldsRequired, nil)
		return
	}

	if password != confirmPassword {
		h.renderError(c, http.StatusBadRequest, messagePasswordMismatch, nil)
		return
	}

	created, err := h.users.Create(c.Request.Context(), user.RegistrationInput{
		Email:        email,
		Name:         name,
		FavoriteBook: favoriteBook,
		Password:     password,
	})
	if err != nil {
		var validationErr *user.ValidationError
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			h.renderError(c, http.StatusConflict, messageEmailTaken, nil)
		case errors.As(err, &validationErr):
			h.renderError(c, http.StatusBadRequest, messageAllFieldsRequired, nil)
		default:
			h.renderError(c, http.StatusInternalServerError, messageServerError, err)
		}
		return
	}

	if err := session.LogIn(c, created.ID); err != nil {
		h.renderError(c, http.StatusInternalServerError, messageServerError, err)
		return
	}
	c.Redirect(http.StatusFound, auth.ProfilePath)
}

func (h *Handler) showLogin(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Log In"})
}

// login はログインフォームの送信を処理します。
func (h *Handler) login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if email == "" || password == "" {
		h.renderError(c, http.StatusUnauthorized, messageCredentialsNeeded, nil)
		return
	}

	authenticated, err := h.auth.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownEmail) || errors.Is(err, auth.ErrWrongPassword) {
			h.renderError(c, http.StatusUnauthorized, messageWrongCredentials, nil)
			return
		}
		h.renderError(c, http.StatusInternalServerError, messageServerError, err)
		return
	}

	if err := session.LogIn(c, authenticated.ID); err != nil {
		h.renderError(c, http.StatusInternalServerError, messageServerError, err)
		return
	}
	c.Redirect(http.StatusFound, auth.ProfilePath)
}

// profile はログイン済みユーザーのプロフィールを表示します。
func (h *Handler) profile(c *gin.Context) {
	userID, _ := auth.UserIDFromContext(c)

	found, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		// セッションが指すユーザーを解決できないのはストア側の異常として扱う
		h.renderError(c, http.StatusInternalServerError, messageServerError, err)
		return
	}

	h.render(c, http.StatusOK, "profile.html", gin.H{
		"Title":    "Profile",
		"Name":     found.Name,
		"Favorite": found.FavoriteBook,
	})
}

// logout はセッションを破棄してホームへ戻します。
func (h *Handler) logout(c *gin.Context) {
	if err := session.LogOut(c); err != nil {
		h.renderError(c, http.StatusInternalServerError, messageServerError, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) notFound(c *gin.Context) {
	h.renderError(c, http.StatusNotFound, messageNotFound, nil)
}
