package ports

import (
	"context"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// UserStore reads provisioned user accounts.  Absence is sql.ErrNoRows.
type UserStore interface {
	GetByLogin(ctx context.Context, loginName string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// AdministratorStore reads provisioned admin accounts.
type AdministratorStore interface {
	GetByLogin(ctx context.Context, loginName string) (*model.Administrator, error)
}
