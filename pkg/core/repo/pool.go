package repo

import "context"

// ConnHandler is a callback which runs its queries over the given
// connection. The connection is released when the handler returns.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connection pool, acquiring connections
// on demand for the ConnHandler callbacks.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
	Close() error
}
