package db

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/ignatzorin/fairlance-backend/internal/logger"
)

//go:embed migrations/postgres/*.sql migrations/sqlite3/*.sql
var migrations embed.FS

// goose хранит диалект и FS в глобальном состоянии.
var gooseMu sync.Mutex

// Migrate применяет все миграции для драйвера подключения.
func Migrate(ctx context.Context, conn *sqlx.DB) error {
	return withGoose(conn, func(dir string) error {
		return goose.UpContext(ctx, conn.DB, dir)
	})
}

// Rollback откатывает последнюю применённую миграцию.
func Rollback(ctx context.Context, conn *sqlx.DB) error {
	return withGoose(conn, func(dir string) error {
		return goose.DownContext(ctx, conn.DB, dir)
	})
}

// Status выводит состояние миграций в лог.
func Status(ctx context.Context, conn *sqlx.DB) error {
	return withGoose(conn, func(dir string) error {
		return goose.StatusContext(ctx, conn.DB, dir)
	})
}

// Version возвращает номер последней применённой миграции.
func Version(ctx context.Context, conn *sqlx.DB) (int64, error) {
	var version int64
	err := withGoose(conn, func(string) error {
		v, err := goose.GetDBVersionContext(ctx, conn.DB)
		version = v
		return err
	})
	return version, err
}

func withGoose(conn *sqlx.DB, fn func(dir string) error) error {
	driver := conn.DriverName()
	switch driver {
	case "postgres", "sqlite3":
	default:
		return fmt.Errorf("migrate: драйвер %q не поддерживается", driver)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetLogger(logger.Log)
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("migrate: не удалось установить диалект: %w", err)
	}

	if err := fn("migrations/" + driver); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
