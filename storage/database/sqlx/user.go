package sqlxrepos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/guicardoso0404/sigeas/core"
	"github.com/guicardoso0404/sigeas/core/user"
)

const userColumns = "id, name, email, password_hash, role, age, created_at, updated_at"

var errUserConflict = core.NewConflictError(user.ErrEmailExists.Error())

type userRepository struct {
	repo
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{repo{exec: exec}}
}

func (r userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers []user.User, exec ...core.DBExecutor) error {
	q := "SELECT COUNT(*) FROM users WHERE email = ?"
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]int, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		inQ, inArgs, err := sqlx.In(" AND id NOT IN (?)", ids)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
		q += inQ
		args = append(args, inArgs...)
	}

	db := r.getExec(exec)
	var count int
	if err := sqlx.GetContext(ctx, db, &count, db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (r userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	res, err := r.getExec(exec).ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, age, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		usr.Name, usr.Email, usr.PasswordHash, usr.Role, usr.Age, usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		return user.User{}, trapDupErr(err, errUserConflict, "inserting user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return user.User{}, errors.Wrap(err, "reading user id")
	}
	usr.ID = int(id)
	return usr, nil
}

func (r userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]user.User, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter != nil {
		if filter.Search != "" {
			like := "%" + strings.ToLower(filter.Search) + "%"
			conds = append(conds, "(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)")
			args = append(args, like, like)
		}
		if filter.Role != "" {
			conds = append(conds, "role = ?")
			args = append(args, filter.Role)
		}
	}

	q := "SELECT " + userColumns + " FROM users" + where(conds) + orderBy(ordering, "id ASC")
	users := make([]user.User, 0)
	if err := sqlx.SelectContext(ctx, r.getExec(exec), &users, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return users, nil
}

func (r userRepository) GetUser(ctx context.Context, filter user.GetFilter, exec ...core.DBExecutor) (user.User, error) {
	var (
		q   = "SELECT " + userColumns + " FROM users WHERE "
		arg interface{}
	)
	switch {
	case filter.ID > 0:
		q += "id = ?"
		arg = filter.ID
	case filter.Email != "":
		q += "email = ?"
		arg = filter.Email
	default:
		return user.User{}, user.ErrNotFound
	}

	var usr user.User
	if err := sqlx.GetContext(ctx, r.getExec(exec), &usr, q, arg); err != nil {
		return user.User{}, trapNoRowsErr(err, user.ErrNotFound, "getting user")
	}
	return usr, nil
}

func (r userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	_, err := r.getExec(exec).ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, password_hash = ?, age = ?, updated_at = ? WHERE id = ?",
		usr.Name, usr.Email, usr.PasswordHash, usr.Age, usr.UpdatedAt, usr.ID,
	)
	if err != nil {
		return user.User{}, trapDupErr(err, errUserConflict, "updating user")
	}
	return usr, nil
}
