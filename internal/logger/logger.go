package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log глобальный логгер. До вызова Init пишет в stderr с уровнем info.
var Log = logrus.New()

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// Используем JSON формат для production, text для development
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// SetOutput перенаправляет логи, например в io.Discard для CLI и тестов.
func SetOutput(w io.Writer) {
	Log.SetOutput(w)
}

// Errorf нужен для goroutine.Logger.
func Errorf(format string, args ...interface{}) {
	Log.Errorf(format, args...)
}
