package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nerrad567/authflow/internal/audit"
)

// defaultStoreTimeout bounds store calls when no timeout is configured.
const defaultStoreTimeout = 5 * time.Second

// ServiceConfig contains account service policy settings.
type ServiceConfig struct {
	// PasswordMinLength is the minimum accepted password length.
	PasswordMinLength int

	// StoreTimeout bounds every credential store call. On expiry the
	// operation fails with ErrStoreUnavailable instead of hanging.
	StoreTimeout time.Duration
}

// Service orchestrates registration and login: it combines the credential
// store, the password hasher, and the token service, and records auth
// events to the audit trail.
type Service struct {
	accounts     Repository
	tokens       *TokenService
	recorder     audit.Recorder
	logger       *slog.Logger
	minPassword  int
	storeTimeout time.Duration
}

// NewService creates an account service. The audit recorder may be nil, in
// which case events are not recorded.
func NewService(accounts Repository, tokens *TokenService, recorder audit.Recorder, logger *slog.Logger, cfg ServiceConfig) *Service {
	if cfg.PasswordMinLength <= 0 {
		cfg.PasswordMinLength = 8
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}
	return &Service{
		accounts:     accounts,
		tokens:       tokens,
		recorder:     recorder,
		logger:       logger,
		minPassword:  cfg.PasswordMinLength,
		storeTimeout: cfg.StoreTimeout,
	}
}

// Register creates an account with role user and issues its first token.
//
// Returns ErrValidation for malformed input, ErrEmailExists if the identity
// is taken, and ErrStoreUnavailable if the store times out.
func (s *Service) Register(ctx context.Context, email, displayName, password string) (*Account, string, error) {
	email = NormalizeEmail(email)
	if !IsValidEmail(email) {
		return nil, "", fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, "", fmt.Errorf("%w: display name is required", ErrValidation)
	}

	if len(password) < s.minPassword {
		return nil, "", fmt.Errorf("%w: password must be at least %d characters", ErrValidation, s.minPassword)
	}

	hash, err := HashPassword(password)
	if err != nil {
		if errors.Is(err, ErrPasswordInput) {
			return nil, "", fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	account := &Account{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         RoleUser,
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.accounts.Create(storeCtx, account); err != nil {
		return nil, "", mapStoreErr(err)
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	s.record(ctx, audit.ActionRegister, account.ID, email, nil)

	return account, token, nil
}

// Login verifies credentials and issues a fresh token reflecting the
// account's current role.
//
// Unknown identity and wrong password both return ErrInvalidCredentials
// with no distinguishing signal; the unknown-identity path burns a hash so
// response timing doesn't leak which case occurred.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	account, err := s.accounts.GetByEmail(storeCtx, email)
	cancel()
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			HashPassword(password) //nolint:errcheck // timing-levelling only, result unused
			s.record(ctx, audit.ActionLoginFailed, "", email, map[string]any{"reason": "unknown identity"})
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", mapStoreErr(err)
	}

	ok, err := VerifyPassword(password, account.PasswordHash)
	if err != nil {
		// A stored hash this hasher can't parse is corruption, not a
		// credential failure; log loudly but stay opaque to the caller.
		s.log().Error("stored password hash is malformed", "account_id", account.ID, "error", err)
		return nil, "", ErrInvalidCredentials
	}
	if !ok {
		s.record(ctx, audit.ActionLoginFailed, account.ID, email, map[string]any{"reason": "wrong password"})
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	s.record(ctx, audit.ActionLogin, account.ID, email, nil)

	return account, token, nil
}

// GetAccount retrieves an account by ID, for profile endpoints.
func (s *Service) GetAccount(ctx context.Context, id string) (*Account, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	account, err := s.accounts.GetByID(storeCtx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return account, nil
}

// ListAccounts returns all accounts with a total count, for admin endpoints.
func (s *Service) ListAccounts(ctx context.Context) ([]Account, int, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	accounts, err := s.accounts.List(storeCtx)
	if err != nil {
		return nil, 0, mapStoreErr(err)
	}
	return accounts, len(accounts), nil
}

// record writes an audit entry, best effort. Audit failures are logged and
// never fail the audited operation.
func (s *Service) record(ctx context.Context, action audit.Action, accountID, identity string, details map[string]any) {
	if s.recorder == nil {
		return
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	entry := &audit.Entry{
		Action:    action,
		AccountID: accountID,
		Identity:  identity,
		Details:   details,
	}
	if err := s.recorder.Record(storeCtx, entry); err != nil {
		s.log().Warn("recording audit entry failed", "action", string(action), "error", err)
	}
}

func (s *Service) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// mapStoreErr converts a store timeout into ErrStoreUnavailable and passes
// everything else through.
func mapStoreErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
