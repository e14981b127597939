package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

func record(t *testing.T, write func(c *gin.Context)) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	write(c)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"not found", apperror.ErrProjectNotFound, http.StatusNotFound, string(apperror.ErrCodeNotFound), apperror.ErrProjectNotFound.Message},
		{"invalid state", apperror.New(apperror.ErrCodeInvalidState, "сделка уже закрыта"), http.StatusConflict, string(apperror.ErrCodeInvalidState), "сделка уже закрыта"},
		{"plain error", errors.New("pq: connection refused"), http.StatusInternalServerError, string(apperror.ErrCodeInternal), "внутренняя ошибка сервера"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := record(t, func(c *gin.Context) { Error(c, tt.err) })
			assert.Equal(t, tt.status, status)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}

func TestPaginated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Paginated(c, []int{1, 2}, 5, 2, 2)

	var body PaginatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, Pagination{Total: 5, Limit: 2, Offset: 2, HasMore: true}, body.Pagination)
}

func TestTooManyRequests(t *testing.T) {
	status, body := record(t, func(c *gin.Context) { TooManyRequests(c, "слишком много запросов") })
	assert.Equal(t, http.StatusTooManyRequests, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "RATE_LIMITED", body.Error.Code)
}
