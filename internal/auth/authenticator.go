package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/bookworm/internal/user"
)

var (
	// ErrUnknownEmail は該当するメールアドレスのユーザーが存在しない場合に返されます。
	ErrUnknownEmail = errors.New("unknown email")
	// ErrWrongPassword はユーザーは存在するがパスワードが一致しない場合に返されます。
	ErrWrongPassword = errors.New("wrong password")
)

// CredentialStore は認証に必要なユーザー検索を提供します。
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// Authenticator はメールアドレスとパスワードでユーザーを認証します。
type Authenticator struct {
	store  CredentialStore
	hasher *Hasher
}

// NewAuthenticator は Authenticator を作成します。
func NewAuthenticator(store CredentialStore, hasher *Hasher) *Authenticator {
	return &Authenticator{
		store:  store,
		hasher: hasher,
	}
}

// Authenticate はメールアドレスでユーザーを検索し、パスワードを照合します。
// 失敗は ErrUnknownEmail / ErrWrongPassword として区別して返しますが、
// 利用者向けの表示では両者を同じメッセージにまとめるのが呼び出し側の責務です。
// ストア障害はそのまま伝播し、リトライは行いません。
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	found, err := a.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// ユーザー不在時はハッシュ照合を省略する
			return nil, ErrUnknownEmail
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !a.hasher.Verify(password, found.PasswordHash) {
		return nil, ErrWrongPassword
	}

	return found, nil
}
