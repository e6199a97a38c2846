package repo

import "context"

// Queryer provides the common statement execution methods which are
// supported by connections and transactions alike.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (count int64, err error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows represents a result set, allowing its rows to be consumed
// one at a time. It must be closed before running another statement
// on the same connection or transaction.
type Rows interface {
	Close()
	Err() error
	Next() bool
	Scan(dest ...any) error
	Values() ([]any, error)
}
