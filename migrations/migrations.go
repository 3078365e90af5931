package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var FS embed.FS

func setup() error {
	goose.SetBaseFS(FS)
	return goose.SetDialect("postgres")
}

// Up применяет все миграции к базе, на которую указывает пул.
func Up(ctx context.Context, pool *pgxpool.Pool) error {
	return withDB(pool, func(db *sql.DB) error {
		return goose.UpContext(ctx, db, ".")
	})
}

// Down откатывает последнюю миграцию.
func Down(ctx context.Context, pool *pgxpool.Pool) error {
	return withDB(pool, func(db *sql.DB) error {
		return goose.DownContext(ctx, db, ".")
	})
}

func Status(ctx context.Context, pool *pgxpool.Pool) error {
	return withDB(pool, func(db *sql.DB) error {
		return goose.StatusContext(ctx, db, ".")
	})
}

func withDB(pool *pgxpool.Pool, fn func(db *sql.DB) error) error {
	if err := setup(); err != nil {
		return fmt.Errorf("не удалось настроить goose: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return fn(db)
}
