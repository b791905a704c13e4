package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxRunner runs a unit of work inside one database transaction. The work is committed
// when fn returns nil and rolled back otherwise; fn's error is returned unchanged.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
