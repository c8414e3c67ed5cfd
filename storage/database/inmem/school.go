package inmemdb

import (
	"context"
	"strings"

	"github.com/trezcool/masomo-setup/core/school"
)

type schoolRepository struct {
	db *schoolTables
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db.school}
}

func (repo *schoolRepository) CreateCampus(_ context.Context, c school.Campus) (school.Campus, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.campuses {
		if existing.TenantID == c.TenantID && strings.EqualFold(existing.Name, c.Name) {
			return school.Campus{}, school.ErrCampusExists
		}
	}
	repo.db.campuses = append(repo.db.campuses, c)
	return c, nil
}

func (repo *schoolRepository) GetCampus(_ context.Context, tenantID, id string) (school.Campus, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.campuses {
		if c.TenantID == tenantID && c.ID == id {
			return c, nil
		}
	}
	return school.Campus{}, school.ErrNotFound
}

// LatestCampus relies on insertion order: rows are appended as they are created.
func (repo *schoolRepository) LatestCampus(_ context.Context, tenantID string) (school.Campus, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for i := len(repo.db.campuses) - 1; i >= 0; i-- {
		if c := repo.db.campuses[i]; c.TenantID == tenantID {
			return c, nil
		}
	}
	return school.Campus{}, school.ErrNotFound
}

func (repo *schoolRepository) CreateClass(_ context.Context, c school.Class) (school.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.classes = append(repo.db.classes, c)
	return c, nil
}

func (repo *schoolRepository) GetClass(_ context.Context, tenantID, id string) (school.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.classes {
		if c.TenantID == tenantID && c.ID == id {
			return c, nil
		}
	}
	return school.Class{}, school.ErrNotFound
}

func (repo *schoolRepository) LatestClass(_ context.Context, tenantID string) (school.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for i := len(repo.db.classes) - 1; i >= 0; i-- {
		if c := repo.db.classes[i]; c.TenantID == tenantID {
			return c, nil
		}
	}
	return school.Class{}, school.ErrNotFound
}

func (repo *schoolRepository) CreateArm(_ context.Context, a school.Arm) (school.Arm, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.arms = append(repo.db.arms, a)
	return a, nil
}

func (repo *schoolRepository) CountArms(_ context.Context, tenantID string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var n int
	for _, a := range repo.db.arms {
		if a.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}
