package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"project-registry/pkg/config"
)

type TxManagerInterface interface {
	RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type TxManager struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewTxManager - isolation берётся из конфига (read_committed | serializable).
func NewTxManager(pool *pgxpool.Pool, isolation string) TxManagerInterface {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	if isolation == config.IsolationSerializable {
		opts.IsoLevel = pgx.Serializable
	}
	return &TxManager{pool: pool, opts: opts}
}

// RunInTransaction выполняет функцию `fn` в рамках одной транзакции.
// Ошибки begin/commit классифицируются, так что ErrTransactionAborted
// доходит до сервиса, который решает, повторять ли операцию.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return WithTx(ctx, m.pool, m.opts, fn)
}
