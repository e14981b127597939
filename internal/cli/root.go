// Package cli команды fairlance: сервер, миграции, загрузка данных и офлайн подбор.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/fairlance-backend/internal/config"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
)

// RootOptions глобальные флаги всех команд.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fairlance",
		Short: "FairLance - честный фриланс",
		Long:  "Бэкенд FairLance: эскроу сделки, предложения и подбор фрилансеров по навыкам.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("некорректный формат %q: допустимо %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "подробный вывод")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "формат вывода (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewMatchCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// loadConfig читает конфигурацию и настраивает логгер под окружение.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "ошибка загрузки конфигурации", err)
	}

	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	logger.Init(level)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}
	return cfg, nil
}
