package sqlxrepos

import (
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-setup/core"
)

func Test_dbError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		shutdown bool
	}{
		{name: "connection done", err: sql.ErrConnDone, shutdown: true},
		{name: "admin shutdown", err: &pq.Error{Code: "57P01", Message: "terminating connection due to administrator command"}, shutdown: true},
		{name: "cannot connect now", err: errors.Wrap(&pq.Error{Code: "57P03"}, "querying"), shutdown: true},
		{name: "unique violation", err: &pq.Error{Code: uniqueViolation}},
		{name: "no rows", err: sql.ErrNoRows},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dbError(tt.err, "counting arms")
			assert.Equal(t, tt.shutdown, core.IsShutdown(err))
			assert.Contains(t, err.Error(), "counting arms")
			if !tt.shutdown {
				assert.Equal(t, tt.err, errors.Cause(err))
			}
		})
	}
}
