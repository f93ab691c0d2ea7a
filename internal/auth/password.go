// Package auth は資格情報の検証とルート保護を提供します。
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost はパスワードハッシュの既定のコストファクターです。
const DefaultBcryptCost = 10

// ErrHashFailure はハッシュ化の基盤処理が失敗した場合に返されます。
var ErrHashFailure = errors.New("password hashing failed")

// Hasher は bcrypt によるパスワードのハッシュ化と照合を行います。
// コストを注入できるのはテストで最小コストに下げるためです。
type Hasher struct {
	cost int
}

// NewHasher は指定コストの Hasher を作成します。
// コストが 0 の場合は DefaultBcryptCost を使用します。
func NewHasher(cost int) *Hasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Hash は平文パスワードをソルト付きでハッシュ化します。
// 失敗した場合でも平文をそのまま返すことはありません。
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashFailure, err)
	}
	return string(hashed), nil
}

// Verify は平文パスワードが保存済みハッシュと一致するかを返します。
// 比較は bcrypt 内部の定数時間比較で行われ、不一致はエラーではなく false です。
func (h *Hasher) Verify(plaintext, hashedValue string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedValue), []byte(plaintext)) == nil
}
