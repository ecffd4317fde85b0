package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nerrad567/authflow/internal/audit"
	"github.com/nerrad567/authflow/internal/auth"
	"github.com/nerrad567/authflow/internal/infrastructure/config"
	"github.com/nerrad567/authflow/internal/infrastructure/logging"
)

const testSecret = "api-test-secret-key-for-jwt-signing-xx"

// dbHealth adapts a raw *sql.DB to the HealthChecker interface.
type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) HealthCheck(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

// testDB creates a temporary SQLite database with the full schema applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "api-test-*.db")
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

	schema := `
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

		CREATE TABLE audit_logs (
			id TEXT PRIMARY KEY,
			action TEXT NOT NULL,
			account_id TEXT,
			identity TEXT NOT NULL,
			details TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE SET NULL
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("applying test schema: %v", err)
	}

	return db
}

// testServer creates a Server over a fresh test database.
func testServer(t *testing.T) (*Server, *sql.DB) {
	t.Helper()

	db := testDB(t)

	logger := &logging.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	tokens := auth.NewTokenService(testSecret, time.Hour)
	accounts := auth.NewService(
		auth.NewRepository(db),
		tokens,
		audit.NewSQLiteRepository(db),
		logger.Logger,
		auth.ServiceConfig{PasswordMinLength: 8, StoreTimeout: 5 * time.Second},
	)

	srv, err := New(Deps{
		Config:   config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Logger:   logger,
		Accounts: accounts,
		Tokens:   tokens,
		Audit:    audit.NewSQLiteRepository(db),
		Health:   dbHealth{db: db},
		Version:  "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return srv, db
}

// createTestAccount inserts an account with the given role and returns it
// alongside a valid bearer token. The password is always "test-password".
func createTestAccount(t *testing.T, srv *Server, db *sql.DB, email string, role auth.Role) (*auth.Account, string) {
	t.Helper()

	hash, err := auth.HashPassword("test-password")
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	account := &auth.Account{
		Email:        email,
		DisplayName:  email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := auth.NewRepository(db).Create(t.Context(), account); err != nil {
		t.Fatalf("creating test account %s: %v", email, err)
	}

	token, err := srv.tokens.Issue(account)
	if err != nil {
		t.Fatalf("issuing token for %s: %v", email, err)
	}

	return account, token
}

// doRequest serves a request through the full router and returns the recorder.
func doRequest(t *testing.T, srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(w, req)
	return w
}

// decodeResponse unmarshals the response envelope.
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling response %q: %v", w.Body.String(), err)
	}
	return resp
}

// responseData extracts the data object from a decoded envelope.
func responseData(t *testing.T, resp Response) map[string]any {
	t.Helper()

	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("response data is %T, want object", resp.Data)
	}
	return data
}
