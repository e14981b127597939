package goroutine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
	done  chan struct{}
}

func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	l.mu.Unlock()
	close(l.done)
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	log := &recordingLogger{done: make(chan struct{})}
	rh := NewRecoveryHandler(log)

	rh.SafeGo(func() { panic("boom") })

	select {
	case <-log.done:
	case <-time.After(time.Second):
		t.Fatal("panic не залогирован")
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	require.Len(t, log.lines, 1)
	assert.Contains(t, log.lines[0], "boom")
}

func TestSafeGoWithContext_PassesContext(t *testing.T) {
	rh := NewRecoveryHandler(LoggerFunc(func(string, ...interface{}) {}))
	ctx := context.WithValue(context.Background(), struct{}{}, "v")

	got := make(chan context.Context, 1)
	rh.SafeGoWithContext(ctx, func(c context.Context) { got <- c })

	select {
	case c := <-got:
		assert.Equal(t, "v", c.Value(struct{}{}))
	case <-time.After(time.Second):
		t.Fatal("функция не вызвана")
	}
}
