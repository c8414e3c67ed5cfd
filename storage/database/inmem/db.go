// Package inmemdb implements the repositories in memory, for tests and local runs without Postgres.
package inmemdb

import (
	"sync"

	"github.com/trezcool/masomo-setup/core/school"
	"github.com/trezcool/masomo-setup/core/user"
)

type (
	DB struct {
		user   *userTable
		school *schoolTables
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	schoolTables struct {
		sync.RWMutex
		campuses []school.Campus
		classes  []school.Class
		arms     []school.Arm
	}
)

func Open() *DB {
	return &DB{
		user:   &userTable{table: make(map[string]*user.User)},
		school: &schoolTables{},
	}
}
