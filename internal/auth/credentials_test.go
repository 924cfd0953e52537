package auth

import (
	"context"
	"errors"
	"testing"
)

// seedUser registers an account with a real argon2id hash.
func seedUser(t *testing.T, repo UserRepository, name, password string) *User {
	t.Helper()

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	user := &User{Name: name, PasswordHash: hash}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return user
}

func TestAuthenticate_Success(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	seeded := seedUser(t, repo, "alice", "password1")

	user, err := Authenticate(context.Background(), repo, "alice", "password1")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user.ID != seeded.ID {
		t.Errorf("ID = %q, want %q", user.ID, seeded.ID)
	}
	if user.Name != "alice" {
		t.Errorf("Name = %q, want alice", user.Name)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	seedUser(t, repo, "alice", "password1")

	_, err := Authenticate(context.Background(), repo, "alice", "wrongpass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticate_UnknownName(t *testing.T) {
	repo := NewUserRepository(testDB(t))

	// Same sentinel as a wrong password: callers cannot distinguish the two
	_, err := Authenticate(context.Background(), repo, "nobody", "password1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticate_MalformedStoredHash(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	user := &User{Name: "alice", PasswordHash: "not-a-phc-hash"}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A corrupt stored hash fails as invalid credentials, never a panic
	_, err := Authenticate(context.Background(), repo, "alice", "password1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
	}
}
