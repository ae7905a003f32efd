package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/data/pgxutil"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
)

// AccountRepo is the local account directory backed by the federated_users
// table. It also verifies directory credentials, so it satisfies both the
// AccountStore and Authenticator ports.
type AccountRepo struct {
	DB *sql.DB
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db}
}

// Exists reports whether an account with the given uid is provisioned.
func (r *AccountRepo) Exists(ctx context.Context, uid string) (bool, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return false, errors.New("uid is required")
	}

	var exists bool
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM federated_users WHERE uid = $1)`, uid,
		).Scan(&exists)
	}); err != nil {
		return false, fmt.Errorf("check account existence: %w", err)
	}
	return exists, nil
}

// Create inserts a new directory row for the account. The placeholder
// password is hashed before storage. A uid collision returns
// ErrAccountExists; the row is never overwritten.
func (r *AccountRepo) Create(ctx context.Context, account federation.Account, placeholderPassword string) error {
	uid := strings.TrimSpace(account.UID)
	if uid == "" {
		return errors.New("uid is required")
	}
	if placeholderPassword == "" {
		return errors.New("placeholder password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(placeholderPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash placeholder password: %w", err)
	}

	createdAt := account.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO federated_users (uid, displayname, provisioned_by, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			uid,
			account.DisplayName,
			account.ProvisionedBy,
			string(hash),
			createdAt,
		)
		return execErr
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAccountExists
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// GetByUID retrieves a directory row by uid.
func (r *AccountRepo) GetByUID(ctx context.Context, uid string) (*federation.Account, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, errors.New("uid is required")
	}

	var out federation.Account
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT uid, displayname, provisioned_by, created_at
			FROM federated_users WHERE uid = $1`, uid,
		).Scan(&out.UID, &out.DisplayName, &out.ProvisionedBy, &out.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &out, nil
}

// Login verifies a uid/password pair against the stored hash. An unknown
// uid or a mismatched password is a plain false, not an error.
func (r *AccountRepo) Login(ctx context.Context, uid, password string) (bool, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" || password == "" {
		return false, nil
	}

	var hash string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx,
			`SELECT password_hash FROM federated_users WHERE uid = $1`, uid,
		).Scan(&hash)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("load credentials: %w", err)
	}

	if compareErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); compareErr != nil {
		if errors.Is(compareErr, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("compare credentials: %w", compareErr)
	}
	return true, nil
}
