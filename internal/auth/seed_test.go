package auth

import (
	"context"
	"log/slog"
	"testing"
)

func TestSeedAdmin_CreatesOnEmptyDB(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	logger := slog.Default()
	ctx := context.Background()

	password, err := SeedAdmin(ctx, repo, logger)
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}

	if password == "" {
		t.Fatal("SeedAdmin() should return generated password")
	}

	// Verify admin was created
	admin, err := repo.GetByEmail(ctx, seedAdminEmail)
	if err != nil {
		t.Fatalf("GetByEmail(%s) error = %v", seedAdminEmail, err)
	}

	if admin.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", admin.Role, RoleAdmin)
	}

	// Verify password works
	ok, err := VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		t.Fatalf("VerifyPassword() error = %v", err)
	}
	if !ok {
		t.Error("generated password should verify against stored hash")
	}
}

func TestSeedAdmin_SkipsWhenAccountsExist(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	logger := slog.Default()
	ctx := context.Background()

	seedTestAccount(t, db, "existing@example.com", RoleUser)

	password, err := SeedAdmin(ctx, repo, logger)
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}

	if password != "" {
		t.Error("SeedAdmin() should return empty password when accounts exist")
	}

	// Should still only have the one account
	count, _ := repo.Count(ctx)
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestSeedAdmin_UniquePasswords(t *testing.T) {
	db1 := testDB(t)
	db2 := testDB(t)
	logger := slog.Default()
	ctx := context.Background()

	pw1, _ := SeedAdmin(ctx, NewRepository(db1), logger)
	pw2, _ := SeedAdmin(ctx, NewRepository(db2), logger)

	if pw1 == pw2 {
		t.Error("seed passwords should be unique across instances")
	}
}
