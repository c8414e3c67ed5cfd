// Package sqlxrepos implements the repositories on Postgres with sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-setup/core/user"
)

const userColumns = `id, tenant_id, school_name, name, username, email, is_active, roles, password_hash, created_at, updated_at, last_login`

type (
	userRepository struct {
		db *sqlx.DB
	}

	// userRow is a row of the "user" table.
	userRow struct {
		ID           string         `db:"id"`
		TenantID     string         `db:"tenant_id"`
		SchoolName   string         `db:"school_name"`
		Name         string         `db:"name"`
		Username     null.String    `db:"username"`
		Email        null.String    `db:"email"`
		IsActive     bool           `db:"is_active"`
		Roles        pq.StringArray `db:"roles"`
		PasswordHash null.Bytes     `db:"password_hash"`
		CreatedAt    time.Time      `db:"created_at"`
		UpdatedAt    time.Time      `db:"updated_at"`
		LastLogin    null.Time      `db:"last_login"`
	}
)

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: sqlx.NewDb(db, "postgres")}
}

func toUserRow(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		TenantID:     usr.TenantID,
		SchoolName:   usr.SchoolName,
		Name:         usr.Name,
		Username:     null.NewString(usr.Username, usr.Username != ""),
		Email:        null.NewString(usr.Email, usr.Email != ""),
		IsActive:     usr.IsActive,
		Roles:        usr.Roles,
		PasswordHash: null.NewBytes(usr.PasswordHash, usr.PasswordHash != nil),
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

func (r userRow) user() user.User {
	return user.User{
		ID:           r.ID,
		TenantID:     r.TenantID,
		SchoolName:   r.SchoolName,
		Name:         r.Name,
		Username:     r.Username.String,
		Email:        r.Email.String,
		IsActive:     r.IsActive,
		Roles:        r.Roles,
		PasswordHash: r.PasswordHash.Bytes,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		LastLogin:    r.LastLogin.Time.UTC(),
	}
}

func (repo userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	excluded := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded = append(excluded, usr.ID)
	}

	var found []userRow
	err := repo.db.SelectContext(ctx, &found, `
		SELECT `+userColumns+` FROM "user"
		WHERE (username = $1 OR email = $2) AND NOT (id::text = ANY($3))
		LIMIT 2`,
		null.NewString(username, username != ""), null.NewString(email, email != ""), pq.Array(excluded))
	if err != nil {
		return dbError(err, "checking username uniqueness")
	}
	for _, row := range found {
		if username != "" && row.Username.String == username {
			return user.ErrUsernameExists
		}
	}
	if len(found) > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	row := toUserRow(usr)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO "user" (`+userColumns+`)
		VALUES (:id, :tenant_id, :school_name, :name, :username, :email, :is_active, :roles, :password_hash, :created_at, :updated_at, :last_login)`,
		row)
	if err != nil {
		return user.User{}, dbError(err, "inserting user")
	}
	return row.user(), nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var (
		row   userRow
		query = `SELECT ` + userColumns + ` FROM "user" `
		args  []interface{}
	)

	switch {
	case filter.ID != "":
		query += `WHERE id::text = $1`
		args = append(args, filter.ID)
	case filter.Username != "":
		query += `WHERE username = $1`
		args = append(args, filter.Username)
	case filter.Email != "":
		query += `WHERE email = $1`
		args = append(args, filter.Email)
	case len(filter.UsernameOrEmail) > 0:
		uname := filter.UsernameOrEmail[0]
		email := uname
		if len(filter.UsernameOrEmail) == 2 && filter.UsernameOrEmail[1] != "" {
			email = filter.UsernameOrEmail[1]
			if uname == "" {
				uname = email
			}
		}
		query += `WHERE username = $1 OR email = $2`
		args = append(args, uname, email)
	default:
		return user.User{}, user.ErrNotFound
	}

	if err := repo.db.GetContext(ctx, &row, query+` LIMIT 1`, args...); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, dbError(err, "finding user")
	}
	return row.user(), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	row := toUserRow(usr)
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE "user" SET
			school_name = :school_name, name = :name, username = :username, email = :email,
			is_active = :is_active, roles = :roles, password_hash = :password_hash,
			updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`,
		row)
	if err != nil {
		return user.User{}, dbError(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return row.user(), nil
}
