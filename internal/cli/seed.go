package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/fairlance-backend/internal/app"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
	"github.com/ignatzorin/fairlance-backend/internal/service"
)

type seedReport struct {
	*service.SeedResult
}

func (r seedReport) String() string {
	return fmt.Sprintf("seed: создано записей %d (пользователей %d, проектов %d, навыков %d)",
		r.Created, len(r.Users), len(r.Projects), len(r.Skills))
}

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Загрузить тестовые данные из YAML",
		Long: `Загружает категории, навыки, пользователей и проекты из YAML файла
в хранилище из конфигурации. Повторный запуск не создаёт дубликатов.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, rootOpts, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML файл с данными")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *RootOptions, file string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	fixtures, err := service.LoadFixtures(file)
	if err != nil {
		_ = formatter.Error("FIXTURES_INVALID", err.Error())
		return WrapExitError(ExitCommandError, "не удалось прочитать фикстуры", err)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, conn, err := app.OpenStore(ctx, cfg)
	if err != nil {
		_ = formatter.Error("DB_UNAVAILABLE", err.Error())
		return WrapExitError(ExitCommandError, "не удалось открыть хранилище", err)
	}
	if conn != nil {
		defer func() {
			if err := conn.Close(); err != nil {
				logger.Log.WithError(err).Warn("seed: ошибка закрытия базы")
			}
		}()
	}

	formatter.VerboseLog("seed: %s -> %s", file, cfg.DBDriver)

	res, err := service.NewSeedService(store).Seed(ctx, fixtures)
	if err != nil {
		_ = formatter.Error("SEED_FAILED", err.Error())
		return WrapExitError(ExitFailure, "загрузка данных не выполнена", err)
	}
	return formatter.Success(seedReport{res})
}
