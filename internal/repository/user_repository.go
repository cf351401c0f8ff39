package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// UserRepo reads provisioned user accounts.  The API never creates or
// edits accounts, so there is no write path.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByLogin resolves a user by login name; sql.ErrNoRows when unknown.
func (r *UserRepo) GetByLogin(ctx context.Context, loginName string) (*model.User, error) {
	const q = `SELECT id, login_name, pass_hash, nickname FROM users WHERE login_name = ?`
	var u model.User
	if err := r.db.QueryRowContext(ctx, q, loginName).Scan(&u.ID, &u.LoginName, &u.PassHash, &u.Nickname); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID resolves a user by ID; sql.ErrNoRows when unknown.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `SELECT id, login_name, pass_hash, nickname FROM users WHERE id = ?`
	var u model.User
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.LoginName, &u.PassHash, &u.Nickname); err != nil {
		return nil, err
	}
	return &u, nil
}

// AdministratorRepo reads provisioned admin accounts.
type AdministratorRepo struct {
	db *sql.DB
}

func NewAdministratorRepo(db *sql.DB) *AdministratorRepo { return &AdministratorRepo{db: db} }

// GetByLogin resolves an administrator by login name.
func (r *AdministratorRepo) GetByLogin(ctx context.Context, loginName string) (*model.Administrator, error) {
	const q = `SELECT id, login_name, pass_hash, nickname FROM administrators WHERE login_name = ?`
	var a model.Administrator
	if err := r.db.QueryRowContext(ctx, q, loginName).Scan(&a.ID, &a.LoginName, &a.PassHash, &a.Nickname); err != nil {
		return nil, err
	}
	return &a, nil
}
