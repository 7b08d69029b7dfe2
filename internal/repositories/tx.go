package repositories

import (
	"context"

	apperrors "inventory-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WithTx выполняет fn в рамках одной транзакции: либо все операции шага
// фиксируются, либо ни одна. Паника откатывает транзакцию и пробрасывается.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) (err error) {
	var tx pgx.Tx
	tx, err = pool.Begin(ctx)
	if err != nil {
		return apperrors.NewPersistenceError("begin", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			if commitErr := tx.Commit(ctx); commitErr != nil {
				err = apperrors.NewPersistenceError("commit", commitErr)
			}
		}
	}()

	err = fn(tx)
	return err
}
