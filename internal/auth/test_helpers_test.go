package auth

import (
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the account schema applied.
// The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Use a temp file so WAL mode works (in-memory doesn't support it)
	f, err := os.CreateTemp("", "auth-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrationSQL := `
		CREATE TABLE accounts (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE UNIQUE INDEX idx_accounts_email ON accounts(email);
		CREATE INDEX idx_accounts_role ON accounts(role);

		CREATE TABLE audit_logs (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			account_id TEXT,
			identity TEXT NOT NULL,
			details TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE SET NULL
		) STRICT;

		CREATE INDEX idx_audit_logs_action ON audit_logs(action);
		CREATE INDEX idx_audit_logs_account ON audit_logs(account_id);
		CREATE INDEX idx_audit_logs_created ON audit_logs(created_at);
	`
	if _, err := db.Exec(migrationSQL); err != nil {
		t.Fatalf("applying account migration: %v", err)
	}

	return db
}

// seedTestAccount inserts an account with the given identity and role and
// returns it. The password is always "test-password".
func seedTestAccount(t *testing.T, db *sql.DB, email string, role Role) *Account {
	t.Helper()

	hash, err := HashPassword("test-password")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	repo := NewRepository(db)
	account := &Account{
		Email:        email,
		DisplayName:  email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := repo.Create(t.Context(), account); err != nil {
		t.Fatalf("creating test account %s: %v", email, err)
	}
	return account
}
