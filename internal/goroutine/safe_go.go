package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/ignatzorin/fairlance-backend/internal/logger"
)

// Logger интерфейс для логирования ошибок. *logrus.Logger подходит.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// LoggerFunc позволяет передать функцию как Logger.
type LoggerFunc func(format string, args ...interface{})

func (f LoggerFunc) Errorf(format string, args ...interface{}) {
	f(format, args...)
}

// RecoveryHandler обрабатывает panic в горутинах
type RecoveryHandler struct {
	logger Logger
}

func NewRecoveryHandler(logger Logger) *RecoveryHandler {
	return &RecoveryHandler{logger: logger}
}

// SafeGo запускает горутину с обработкой panic
func (rh *RecoveryHandler) SafeGo(fn func()) {
	go func() {
		defer rh.Recover("goroutine")
		fn()
	}()
}

// SafeGoWithContext запускает горутину с контекстом и обработкой panic
func (rh *RecoveryHandler) SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer rh.Recover("goroutine (with context)")
		fn(ctx)
	}()
}

// Recover используется через defer в уже запущенных горутинах.
func (rh *RecoveryHandler) Recover(where string) {
	if r := recover(); r != nil {
		rh.logger.Errorf("Panic in %s: %v\nStack trace:\n%s", where, r, debug.Stack())
	}
}

// DefaultRecoveryHandler пишет в глобальный логгер.
var DefaultRecoveryHandler = NewRecoveryHandler(LoggerFunc(logger.Errorf))

func SafeGo(fn func()) {
	DefaultRecoveryHandler.SafeGo(fn)
}

func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	DefaultRecoveryHandler.SafeGoWithContext(ctx, fn)
}
