package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

var userColumns = []string{
	"id::text AS id", "username", "email", "password_hash", "is_admin", "created_at", "updated_at",
}

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	stmt := psql.Insert("users").
		Columns("id", "username", "email", "password_hash", "is_admin", "created_at", "updated_at").
		Values(u.ID, u.Username, u.Email, u.PasswordHash, u.IsAdmin, u.CreatedAt, u.UpdatedAt)
	if _, err := exec(ctx, r.q, "insert user", stmt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: usuario o email ya registrado", domain.ErrConstraint)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	q := psql.Select(userColumns...).From("users").Where(sq.Eq{"id": id})
	return getOne[entity.User](ctx, r.q, "get user by id", q)
}

// GetByUsername obtiene un usuario por nombre de usuario, sin distinguir mayúsculas.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	q := psql.Select(userColumns...).From("users").Where("lower(username) = lower(?)", username)
	return getOne[entity.User](ctx, r.q, "get user by username", q)
}

// List lista usuarios por nombre de usuario.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	q := psql.Select(userColumns...).From("users").OrderBy("username ASC")
	return selectAll[entity.User](ctx, r.q, "list users", q)
}
