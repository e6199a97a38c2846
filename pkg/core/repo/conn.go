package repo

import "context"

// TxHandler is a callback which runs its queries in the given
// transaction. Returning a non-nil error rolls the transaction back.
type TxHandler func(context.Context, Tx) error

// Conn represents a single database connection. In addition to the
// statement execution methods of the Queryer interface, it can start
// a transaction and run a TxHandler in it.
type Conn interface {
	Queryer
	Tx(ctx context.Context, handler TxHandler) error
	IsConn()
}
