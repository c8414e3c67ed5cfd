package sqlxrepos

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-setup/core"
)

// pq error class "57": operator intervention (admin/crash shutdown, cannot connect now)
const operatorIntervention pq.ErrorClass = "57"

// dbError wraps a failed query with msg.
// A database going down or a closed connection becomes a core shutdown error so that the API stops.
func dbError(err error, msg string) error {
	if errors.Is(err, sql.ErrConnDone) {
		return core.NewShutdownError(fmt.Sprintf("%s: %v", msg, err))
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == operatorIntervention {
		return core.NewShutdownError(fmt.Sprintf("%s: %v", msg, err))
	}
	return errors.Wrap(err, msg)
}
