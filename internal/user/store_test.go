package user_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/bookworm/internal/auth"
	"github.com/yourusername/bookworm/internal/user"
)

func newTestStore(t *testing.T) *user.Store {
	t.Helper()
	store, err := user.NewStore(filepath.Join(t.TempDir(), "test.db"), auth.NewHasher(bcrypt.MinCost))
	if err != nil {
		t.Fatalf("NewStore returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close returned error: %v", err)
		}
	})
	return store
}

func validInput() user.RegistrationInput {
	return user.RegistrationInput{
		Email:        "a@example.com",
		Name:         "Ada",
		FavoriteBook: "Frankenstein",
		Password:     "opensesame",
	}
}

func TestCreatePersistsHashedPassword(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected store-assigned ID")
	}
	if created.PasswordHash == "opensesame" {
		t.Fatal("plaintext password reached the persisted record")
	}

	stored, err := store.FindByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("FindByEmail returned error: %v", err)
	}
	if stored.PasswordHash == "opensesame" {
		t.Fatal("plaintext password reached the database")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("opensesame")) != nil {
		t.Fatal("stored hash does not verify against the original plaintext")
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}

	second := validInput()
	second.Name = "Imposter"
	if _, err := store.Create(context.Background(), second); !errors.Is(err, user.ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}

	// 最初のレコードが影響を受けていないこと
	stored, err := store.FindByID(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if stored.Name != "Ada" {
		t.Fatalf("first record changed: name = %q", stored.Name)
	}
}

func TestCreateRejectsBlankFields(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name   string
		mutate func(*user.RegistrationInput)
	}{
		{"empty email", func(in *user.RegistrationInput) { in.Email = "" }},
		{"whitespace email", func(in *user.RegistrationInput) { in.Email = "   " }},
		{"empty name", func(in *user.RegistrationInput) { in.Name = "" }},
		{"whitespace favorite book", func(in *user.RegistrationInput) { in.FavoriteBook = "\t " }},
		{"empty password", func(in *user.RegistrationInput) { in.Password = "" }},
		{"whitespace password", func(in *user.RegistrationInput) { in.Password = "   " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)

			_, err := store.Create(context.Background(), input)
			var validationErr *user.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}

func TestCreateTrimsFields(t *testing.T) {
	store := newTestStore(t)

	input := validInput()
	input.Email = "  a@example.com  "
	input.Name = " Ada "
	input.FavoriteBook = " Frankenstein\n"

	created, err := store.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Email != "a@example.com" || created.Name != "Ada" || created.FavoriteBook != "Frankenstein" {
		t.Fatalf("fields not trimmed: %#v", created)
	}

	// トリム後の値で一意性が判定される
	if _, err := store.Create(context.Background(), validInput()); !errors.Is(err, user.ErrDuplicateEmail) {
		t.Fatalf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestFindByID(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored, err := store.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("FindByID returned error: %v", err)
	}
	if stored.Email != "a@example.com" || stored.FavoriteBook != "Frankenstein" {
		t.Fatalf("unexpected record: %#v", stored)
	}
}

func TestFindNotFound(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.FindByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("FindByEmail err = %v, want ErrNotFound", err)
	}
	if _, err := store.FindByID(context.Background(), "missing-id"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("FindByID err = %v, want ErrNotFound", err)
	}
}

func TestFindByEmailIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	first, err := store.FindByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("first FindByEmail returned error: %v", err)
	}
	second, err := store.FindByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("second FindByEmail returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reads differ: %#v vs %#v", first, second)
	}
}

func TestEmailIsCaseSensitive(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// 正規化は行わないため、大文字小文字違いは別ユーザーとして扱われる
	upper := validInput()
	upper.Email = "A@EXAMPLE.COM"
	if _, err := store.Create(context.Background(), upper); err != nil {
		t.Fatalf("Create with different case returned error: %v", err)
	}

	if _, err := store.FindByEmail(context.Background(), "a@Example.com"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("lookup with different case err = %v, want ErrNotFound", err)
	}
}
