// Package testutil holds helpers shared by the tests of several packages.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/masomo-setup/core/user"
	"github.com/trezcool/masomo-setup/storage/database"
)

// DatabaseURLEnv names the variable pointing the database tests to a disposable Postgres database.
const DatabaseURLEnv = "TEST_DATABASE_URL"

// PrepareDB opens and migrates the test database, then empties every table.
// The test is skipped when no test database is configured.
func PrepareDB(t *testing.T) *sql.DB {
	t.Helper()
	dbURL := os.Getenv(DatabaseURLEnv)
	if dbURL == "" {
		t.Skipf("%s is not set", DatabaseURLEnv)
	}

	db, err := database.OpenURL(dbURL)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if _, err = db.Exec(`TRUNCATE "user", campus, class, arm, setup_progress`); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// CreateUser stores a user of a new tenant named after the user.
func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:         uuid.NewString(),
		TenantID:   uuid.NewString(),
		SchoolName: name + "'s School",
		Name:       name,
		Username:   uname,
		Email:      email,
		Roles:      roles,
		IsActive:   isActive,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
