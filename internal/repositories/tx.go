package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "project-registry/pkg/errors"
)

// WithTx открывает транзакцию, откатывает её при ошибке или панике и коммитит иначе.
// Либо закоммичено всё, либо ничего: частичного состояния не остаётся.
func WithTx(ctx context.Context, pool *pgxpool.Pool, opts pgx.TxOptions, fn func(tx pgx.Tx) error) (err error) {
	var tx pgx.Tx
	tx, err = pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", apperrors.Classify(err))
	}

	defer func() {
		if p := recover(); p != nil {
			// контекст может быть уже отменён, откат делаем на фоне
			_ = tx.Rollback(context.WithoutCancel(ctx))
			panic(p)
		} else if err != nil {
			// исходная ошибка важнее ошибки отката
			_ = tx.Rollback(context.WithoutCancel(ctx))
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = fmt.Errorf("ошибка при коммите транзакции: %w", apperrors.Classify(commitErr))
			}
		}
	}()

	err = fn(tx)
	return err
}
