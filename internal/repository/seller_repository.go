package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/boat-trip-sales/internal/model"
)

// SellerRepo persists staff accounts (sellers, dispatchers, owners).
type SellerRepo struct {
	db *sql.DB
}

// NewSellerRepo returns a SellerRepo bound to the given database.
func NewSellerRepo(db *sql.DB) *SellerRepo { return &SellerRepo{db: db} }

// DB exposes the pool for callers that pair pool reads with the typed
// methods.
func (r *SellerRepo) DB() *sql.DB { return r.db }

const sellerColumns = `id, username, display_name, password_hash, role, is_active, created_at`

func scanSeller(row interface{ Scan(...any) error }) (*model.Seller, error) {
	var s model.Seller
	err := row.Scan(&s.ID, &s.Username, &s.DisplayName, &s.PasswordHash, &s.Role, &s.IsActive, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a staff account and populates its generated id.  A
// username collision is reported as ErrDuplicateUsername.
func (r *SellerRepo) Create(ctx context.Context, s *model.Seller) error {
	const ins = `INSERT INTO sellers (username, display_name, password_hash, role, is_active)
	             VALUES (?, ?, ?, ?, 1)`
	res, err := r.db.ExecContext(ctx, ins, s.Username, s.DisplayName, s.PasswordHash, s.Role)
	if err != nil {
		// 1062 is MySQL's duplicate-key error; matching the message keeps
		// the repository free of driver-specific error types.
		if strings.Contains(err.Error(), "Duplicate entry") {
			return ErrDuplicateUsername
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	s.IsActive = true
	return nil
}

// GetByID loads an active staff account by id; ErrSellerNotFound when
// absent or deactivated.
func (r *SellerRepo) GetByID(ctx context.Context, q DBTX, id uint64) (*model.Seller, error) {
	const sel = `SELECT ` + sellerColumns + ` FROM sellers WHERE id = ? AND is_active = 1`
	s, err := scanSeller(q.QueryRowContext(ctx, sel, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSellerNotFound
	}
	return s, err
}

// GetByUsername loads an active staff account by username for login.
func (r *SellerRepo) GetByUsername(ctx context.Context, username string) (*model.Seller, error) {
	const sel = `SELECT ` + sellerColumns + ` FROM sellers WHERE username = ? AND is_active = 1`
	s, err := scanSeller(r.db.QueryRowContext(ctx, sel, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSellerNotFound
	}
	return s, err
}
