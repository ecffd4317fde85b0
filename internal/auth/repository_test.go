package auth

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)

	account := &Account{
		Email:        "alice@example.com",
		DisplayName:  "Alice",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=1$c2FsdA$aGFzaA",
		Role:         RoleUser,
	}

	if err := repo.Create(t.Context(), account); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if account.ID == "" {
		t.Fatal("Create() should generate an ID")
	}
	if account.CreatedAt.IsZero() {
		t.Error("Create() should set CreatedAt")
	}

	got, err := repo.GetByID(t.Context(), account.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "alice@example.com")
	}
	if got.DisplayName != "Alice" {
		t.Errorf("DisplayName = %q, want %q", got.DisplayName, "Alice")
	}
	if got.Role != RoleUser {
		t.Errorf("Role = %q, want %q", got.Role, RoleUser)
	}
}

func TestRepository_GetByEmail_Normalizes(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)

	seedTestAccount(t, db, "bob@example.com", RoleUser)

	// Lookup with different case and whitespace should find the same account
	got, err := repo.GetByEmail(t.Context(), "  Bob@Example.COM ")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.Email != "bob@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "bob@example.com")
	}
}

func TestRepository_Create_NormalizesEmail(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)

	account := &Account{
		Email:        " Carol@Example.Com ",
		DisplayName:  "Carol",
		PasswordHash: "hash",
		Role:         RoleUser,
	}
	if err := repo.Create(t.Context(), account); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if account.Email != "carol@example.com" {
		t.Errorf("stored email = %q, want %q", account.Email, "carol@example.com")
	}
}

func TestRepository_Create_DuplicateIdentity(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)

	seedTestAccount(t, db, "dave@example.com", RoleUser)

	// Same identity in different case collides after normalization
	dup := &Account{
		Email:        "Dave@Example.com",
		DisplayName:  "Dave Again",
		PasswordHash: "hash",
		Role:         RoleUser,
	}
	err := repo.Create(t.Context(), dup)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Create() duplicate error = %v, want ErrEmailExists", err)
	}
}

// TestRepository_Create_ConcurrentDuplicateIdentity races several creates
// for the same identity through the single-writer pool: exactly one must
// win and every loser must see ErrEmailExists.
func TestRepository_Create_ConcurrentDuplicateIdentity(t *testing.T) {
	db := testDB(t)
	// Mirror the production single-connection pool
	db.SetMaxOpenConns(1)
	repo := NewRepository(db)

	const workers = 8
	errs := make([]error, workers)
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = repo.Create(t.Context(), &Account{
				Email:        "race@example.com",
				DisplayName:  fmt.Sprintf("Racer %d", i),
				PasswordHash: "hash",
				Role:         RoleUser,
			})
		}(i)
	}
	close(start)
	wg.Wait()

	var created, duplicates int
	for i, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrEmailExists):
			duplicates++
		default:
			t.Fatalf("Create() worker %d error = %v, want nil or ErrEmailExists", i, err)
		}
	}
	if created != 1 {
		t.Errorf("created = %d, want exactly 1", created)
	}
	if duplicates != workers-1 {
		t.Errorf("duplicates = %d, want %d", duplicates, workers-1)
	}

	count, err := repo.Count(t.Context())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)

	_, err := repo.GetByID(t.Context(), "acc-missing")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetByID() error = %v, want ErrAccountNotFound", err)
	}
}

func TestRepository_GetByEmail_NotFound(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)

	_, err := repo.GetByEmail(t.Context(), "nobody@example.com")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrAccountNotFound", err)
	}
}

func TestRepository_ListAndCount(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)

	count, err := repo.Count(t.Context())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() on empty store = %d, want 0", count)
	}

	seedTestAccount(t, db, "one@example.com", RoleUser)
	seedTestAccount(t, db, "two@example.com", RoleAdmin)

	accounts, err := repo.List(t.Context())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("List() returned %d accounts, want 2", len(accounts))
	}

	count, err = repo.Count(t.Context())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}
