package cli

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/fairlance-backend/internal/app"
	"github.com/ignatzorin/fairlance-backend/internal/config"
	"github.com/ignatzorin/fairlance-backend/internal/db"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
)

type migrateReport struct {
	Action  string `json:"action"`
	Driver  string `json:"driver"`
	Version int64  `json:"version"`
}

func (r migrateReport) String() string {
	return fmt.Sprintf("migrate %s (%s): версия схемы %d", r.Action, r.Driver, r.Version)
}

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Управление миграциями схемы",
		Long: `Применяет и откатывает миграции goose для postgres или sqlite3.

Драйвер и адрес базы берутся из DB_DRIVER, DATABASE_URL и SQLITE_PATH.`,
	}

	actions := []struct {
		use   string
		short string
		run   func(ctx context.Context, conn *sqlx.DB) error
	}{
		{"up", "Применить все миграции", db.Migrate},
		{"down", "Откатить последнюю миграцию", db.Rollback},
		{"status", "Показать состояние миграций в логе", db.Status},
		{"version", "Показать текущую версию схемы", nil},
	}

	for _, a := range actions {
		a := a
		cmd.AddCommand(&cobra.Command{
			Use:   a.use,
			Short: a.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd, rootOpts, a.use, a.run)
			},
		})
	}

	return cmd
}

func runMigrate(cmd *cobra.Command, opts *RootOptions, action string, run func(context.Context, *sqlx.DB) error) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if cfg.DBDriver == config.DriverMemory {
		_ = formatter.Error("MEMORY_DRIVER", "хранилище в памяти не использует миграции")
		return NewExitError(ExitCommandError, "миграции недоступны для DB_DRIVER=memory")
	}

	ctx := cmd.Context()
	conn, err := app.OpenDB(ctx, cfg)
	if err != nil {
		_ = formatter.Error("DB_UNAVAILABLE", err.Error())
		return WrapExitError(ExitCommandError, "не удалось подключиться к базе", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("migrate: ошибка закрытия базы")
		}
	}()

	formatter.VerboseLog("migrate %s: драйвер %s", action, cfg.DBDriver)

	if run != nil {
		if err := run(ctx, conn); err != nil {
			_ = formatter.Error("MIGRATION_FAILED", err.Error())
			return WrapExitError(ExitFailure, "миграция не выполнена", err)
		}
	}

	version, err := db.Version(ctx, conn)
	if err != nil {
		return WrapExitError(ExitFailure, "не удалось получить версию схемы", err)
	}

	return formatter.Success(migrateReport{Action: action, Driver: cfg.DBDriver, Version: version})
}
