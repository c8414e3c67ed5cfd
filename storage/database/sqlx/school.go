package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-setup/core/school"
)

const (
	campusColumns = `id, tenant_id, name, address, city, state, country, phone_number, capacity, description, email, created_at`
	classColumns  = `id, tenant_id, campus_id, name, description, created_at`

	uniqueViolation = "23505"
)

type (
	schoolRepository struct {
		db *sqlx.DB
	}

	campusRow struct {
		ID          string      `db:"id"`
		TenantID    string      `db:"tenant_id"`
		Name        string      `db:"name"`
		Address     string      `db:"address"`
		City        string      `db:"city"`
		State       string      `db:"state"`
		Country     string      `db:"country"`
		PhoneNumber string      `db:"phone_number"`
		Capacity    int         `db:"capacity"`
		Description null.String `db:"description"`
		Email       null.String `db:"email"`
		CreatedAt   time.Time   `db:"created_at"`
	}

	classRow struct {
		ID          string      `db:"id"`
		TenantID    string      `db:"tenant_id"`
		CampusID    string      `db:"campus_id"`
		Name        string      `db:"name"`
		Description null.String `db:"description"`
		CreatedAt   time.Time   `db:"created_at"`
	}
)

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sql.DB) *schoolRepository {
	return &schoolRepository{db: sqlx.NewDb(db, "postgres")}
}

func (r campusRow) campus() school.Campus {
	return school.Campus{
		ID:          r.ID,
		TenantID:    r.TenantID,
		Name:        r.Name,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		Country:     r.Country,
		PhoneNumber: r.PhoneNumber,
		Capacity:    r.Capacity,
		Description: r.Description.String,
		Email:       r.Email.String,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

func (r classRow) class() school.Class {
	return school.Class{
		ID:          r.ID,
		TenantID:    r.TenantID,
		CampusID:    r.CampusID,
		Name:        r.Name,
		Description: r.Description.String,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

func trapNoRows(err error, msg string) error {
	if err == sql.ErrNoRows {
		return school.ErrNotFound
	}
	return dbError(err, msg)
}

func (repo schoolRepository) CreateCampus(ctx context.Context, c school.Campus) (school.Campus, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO campus (`+campusColumns+`)
		VALUES (:id, :tenant_id, :name, :address, :city, :state, :country, :phone_number, :capacity, :description, :email, :created_at)`,
		campusRow{
			ID:          c.ID,
			TenantID:    c.TenantID,
			Name:        c.Name,
			Address:     c.Address,
			City:        c.City,
			State:       c.State,
			Country:     c.Country,
			PhoneNumber: c.PhoneNumber,
			Capacity:    c.Capacity,
			Description: null.NewString(c.Description, c.Description != ""),
			Email:       null.NewString(c.Email, c.Email != ""),
			CreatedAt:   c.CreatedAt.UTC(),
		})
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return school.Campus{}, school.ErrCampusExists
		}
		return school.Campus{}, dbError(err, "inserting campus")
	}
	return c, nil
}

func (repo schoolRepository) GetCampus(ctx context.Context, tenantID, id string) (school.Campus, error) {
	var row campusRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+campusColumns+` FROM campus WHERE tenant_id::text = $1 AND id::text = $2`, tenantID, id)
	if err != nil {
		return school.Campus{}, trapNoRows(err, "finding campus")
	}
	return row.campus(), nil
}

func (repo schoolRepository) LatestCampus(ctx context.Context, tenantID string) (school.Campus, error) {
	var row campusRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+campusColumns+` FROM campus WHERE tenant_id::text = $1 ORDER BY created_at DESC LIMIT 1`, tenantID)
	if err != nil {
		return school.Campus{}, trapNoRows(err, "finding latest campus")
	}
	return row.campus(), nil
}

func (repo schoolRepository) CreateClass(ctx context.Context, c school.Class) (school.Class, error) {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO class (`+classColumns+`)
		VALUES (:id, :tenant_id, :campus_id, :name, :description, :created_at)`,
		classRow{
			ID:          c.ID,
			TenantID:    c.TenantID,
			CampusID:    c.CampusID,
			Name:        c.Name,
			Description: null.NewString(c.Description, c.Description != ""),
			CreatedAt:   c.CreatedAt.UTC(),
		})
	if err != nil {
		return school.Class{}, dbError(err, "inserting class")
	}
	return c, nil
}

func (repo schoolRepository) GetClass(ctx context.Context, tenantID, id string) (school.Class, error) {
	var row classRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+classColumns+` FROM class WHERE tenant_id::text = $1 AND id::text = $2`, tenantID, id)
	if err != nil {
		return school.Class{}, trapNoRows(err, "finding class")
	}
	return row.class(), nil
}

func (repo schoolRepository) LatestClass(ctx context.Context, tenantID string) (school.Class, error) {
	var row classRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+classColumns+` FROM class WHERE tenant_id::text = $1 ORDER BY created_at DESC LIMIT 1`, tenantID)
	if err != nil {
		return school.Class{}, trapNoRows(err, "finding latest class")
	}
	return row.class(), nil
}

func (repo schoolRepository) CreateArm(ctx context.Context, a school.Arm) (school.Arm, error) {
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO arm (id, tenant_id, class_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.TenantID, a.ClassID, a.Name, null.NewString(a.Description, a.Description != ""), a.CreatedAt.UTC())
	if err != nil {
		return school.Arm{}, dbError(err, "inserting arm")
	}
	return a, nil
}

func (repo schoolRepository) CountArms(ctx context.Context, tenantID string) (int, error) {
	var n int
	if err := repo.db.GetContext(ctx, &n, `SELECT count(*) FROM arm WHERE tenant_id::text = $1`, tenantID); err != nil {
		return 0, dbError(err, "counting arms")
	}
	return n, nil
}
