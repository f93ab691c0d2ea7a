// Package user はユーザーの登録情報を永続化するストアを提供します。
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound は指定した条件に一致するユーザーが存在しない場合に返されます。
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail は同じメールアドレスのユーザーが既に存在する場合に返されます。
	ErrDuplicateEmail = errors.New("email already registered")
)

// User は登録済みユーザーを表します。
// PasswordHash には bcrypt ハッシュのみが入り、平文パスワードは保持しません。
type User struct {
	ID           string
	Email        string
	Name         string
	FavoriteBook string
	PasswordHash string
	CreatedAt    time.Time
}

// RegistrationInput はユーザー登録時の入力値です。
// Password は平文で受け取り、ストアが保存前にハッシュ化します。
type RegistrationInput struct {
	Email        string
	Name         string
	FavoriteBook string
	Password     string
}

// ValidationError は必須項目が空の場合に返されます。
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// normalize は入力値の前後の空白を取り除きます。
// パスワードは空白も文字として扱うため対象外です。
func (in *RegistrationInput) normalize() {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.FavoriteBook = strings.TrimSpace(in.FavoriteBook)
}

// validate は必須項目が埋まっていることを確認します。
func (in *RegistrationInput) validate() error {
	if in.Email == "" {
		return &ValidationError{Field: "email"}
	}
	if in.Name == "" {
		return &ValidationError{Field: "name"}
	}
	if in.FavoriteBook == "" {
		return &ValidationError{Field: "favoriteBook"}
	}
	if strings.TrimSpace(in.Password) == "" {
		return &ValidationError{Field: "password"}
	}
	return nil
}
