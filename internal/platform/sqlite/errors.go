package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/taskhub/internal/store"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MapError maps a SQLite error to the matching store sentinel error,
// wrapping the original so that errors.Is works on both.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	code := sqliteErr.Code()
	switch {
	case code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
		code == sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return fmt.Errorf("%w: %v", store.ErrTaskExists, err)
	case code&0xff == sqlite3.SQLITE_CONSTRAINT:
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: %v", store.ErrTaskExists, err)
		}
		return fmt.Errorf("%w: constraint violation: %v", store.ErrInvalidEntity, err)
	case code&0xff == sqlite3.SQLITE_BUSY,
		code&0xff == sqlite3.SQLITE_CANTOPEN:
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	return err
}
