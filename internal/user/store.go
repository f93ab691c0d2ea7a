package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PasswordHasher は平文パスワードを保存用のハッシュに変換します。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

// Store はユーザー情報を SQLite に保存します。
type Store struct {
	db        *sql.DB
	hasher    PasswordHasher
	writeLock *sync.Mutex // sqlite は同時書き込みをサポートしない
}

// NewStore は Store を作成し、スキーマを初期化します。
func NewStore(databasePath string, hasher PasswordHasher) (*Store, error) {
	if hasher == nil {
		return nil, errors.New("hasher is nil")
	}

	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := initializeDB(db); err != nil {
		return nil, fmt.Errorf("initialize db: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &Store{
		db:        db,
		hasher:    hasher,
		writeLock: new(sync.Mutex),
	}, nil
}

func initializeDB(db *sql.DB) error {
	// email の UNIQUE 制約が重複登録の最終防衛線になる
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT    PRIMARY KEY,
			email         TEXT    UNIQUE NOT NULL,
			name          TEXT    NOT NULL,
			favorite_book TEXT    NOT NULL,
			password_hash TEXT    NOT NULL,
			created_at    INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Create は入力を検証し、パスワードをハッシュ化してからユーザーを保存します。
// password_hash への書き込み経路はここだけで、平文がデータベースへ届くことはありません。
// メールアドレスが既に使われている場合は ErrDuplicateEmail を返します。
func (s *Store) Create(ctx context.Context, input RegistrationInput) (*User, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		FavoriteBook: input.FavoriteBook,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, name, favorite_book, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID,
		user.Email,
		user.Name,
		user.FavoriteBook,
		user.PasswordHash,
		user.CreatedAt.Unix(),
	)
	if err != nil {
		var liteErr *sqlite.Error
		if errors.As(err, &liteErr) {
			switch liteErr.Code() {
			case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
				err = errors.Join(ErrDuplicateEmail, err)
			}
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// FindByEmail はメールアドレスでユーザーを検索します。
// 見つからない場合は ErrNotFound を返します。
func (s *Store) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx,
		"SELECT id, email, name, favorite_book, password_hash, created_at FROM users WHERE email = ?",
		email,
	)
}

// FindByID はIDでユーザーを検索します。
// 見つからない場合は ErrNotFound を返します。
func (s *Store) FindByID(ctx context.Context, id string) (*User, error) {
	return s.findOne(ctx,
		"SELECT id, email, name, favorite_book, password_hash, created_at FROM users WHERE id = ?",
		id,
	)
}

func (s *Store) findOne(ctx context.Context, query string, arg string) (*User, error) {
	var (
		user      User
		createdAt int64
	)

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.FavoriteBook,
		&user.PasswordHash,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = errors.Join(ErrNotFound, err)
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	user.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &user, nil
}

// Close はデータベース接続を閉じます。
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}
