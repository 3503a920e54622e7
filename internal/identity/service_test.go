package identity

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	user, err := svc.Register(ctx, Registration{
		Email:    "Amal@Example.com",
		Password: "correct-horse",
		FullName: "Amal Haddad",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "amal@example.com" {
		t.Fatalf("expected lowercased email, got %s", user.Email)
	}
	if !user.Active {
		t.Fatalf("expected new user to be active")
	}

	authed, err := svc.Authenticate(ctx, Credentials{Email: "amal@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	reg := Registration{Email: "dup@example.com", Password: "password123", FullName: "First"}
	if _, err := svc.Register(ctx, reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, reg); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Registration{Email: "u@example.com", Password: "password123", FullName: "U"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Authenticate(ctx, Credentials{Email: "u@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, Credentials{Email: "nobody@example.com", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, Registration{Email: "gone@example.com", Password: "password123", FullName: "Gone"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Deactivate(ctx, user.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Authenticate(ctx, Credentials{Email: "gone@example.com", Password: "password123"}); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestSearchByEmailPrefix(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	for _, email := range []string{"sara@example.com", "samir@example.com", "omar@example.com"} {
		if _, err := svc.Register(ctx, Registration{Email: email, Password: "password123", FullName: email}); err != nil {
			t.Fatalf("register %s: %v", email, err)
		}
	}

	found, err := svc.Search(ctx, "sa", 10)
	if err == nil {
		t.Fatalf("expected short-query error, got %d users", len(found))
	}

	found, err = svc.Search(ctx, "sam", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].Email != "samir@example.com" {
		t.Fatalf("unexpected search result: %+v", found)
	}
}
