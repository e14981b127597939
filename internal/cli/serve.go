package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/fairlance-backend/internal/app"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		Long: `Запускает HTTP API и WebSocket уведомления.

Хранилище выбирается переменной DB_DRIVER (postgres, sqlite3, memory),
миграции применяются при старте.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.HTTPPort = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return app.Serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "порт HTTP (по умолчанию HTTP_PORT)")
	return cmd
}
