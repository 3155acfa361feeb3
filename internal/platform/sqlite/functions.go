package sqlite

import (
	"database/sql/driver"
	"fmt"
	"strings"

	moderncsqlite "modernc.org/sqlite"
)

// lowerFunc folds case with Unicode rules. SQLite's built-in lower() only
// folds ASCII letters.
const lowerFunc = "taskhub_lower"

func init() {
	moderncsqlite.MustRegisterDeterministicScalarFunction(lowerFunc, 1, foldCase)
}

func foldCase(_ *moderncsqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T", lowerFunc, v)
	}
}
