// Package response единый конверт JSON ответов API.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

// Response конверт ответа: data при успехе, error при отказе.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PaginatedResponse struct {
	Success    bool       `json:"success"`
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

const codeRateLimited = "RATE_LIMITED"

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

func fail(c *gin.Context, status int, code, message string) {
	c.JSON(status, Response{Error: &ErrorInfo{Code: code, Message: message}})
}

func Success(c *gin.Context, data any) { ok(c, http.StatusOK, data) }

func Created(c *gin.Context, data any) { ok(c, http.StatusCreated, data) }

// Paginated страница списка. has_more считается от offset+limit.
func Paginated(c *gin.Context, data any, total, limit, offset int) {
	c.JSON(http.StatusOK, PaginatedResponse{
		Success: true,
		Data:    data,
		Pagination: Pagination{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+limit < total,
		},
	})
}

// Error отдаёт AppError с его статусом и сообщением, остальное маскирует как 500.
// Ошибка попадает в c.Errors, логирует её ErrorHandler.
func Error(c *gin.Context, err error) {
	_ = c.Error(err)

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		fail(c, http.StatusInternalServerError, string(apperror.ErrCodeInternal), "внутренняя ошибка сервера")
		return
	}
	fail(c, appErr.HTTPStatus, string(appErr.Code), appErr.Message)
}

func BadRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, string(apperror.ErrCodeBadRequest), message)
}

func Unauthorized(c *gin.Context, message string) {
	fail(c, http.StatusUnauthorized, string(apperror.ErrCodeUnauthorized), message)
}

func Forbidden(c *gin.Context, message string) {
	fail(c, http.StatusForbidden, string(apperror.ErrCodeForbidden), message)
}

func TooManyRequests(c *gin.Context, message string) {
	fail(c, http.StatusTooManyRequests, codeRateLimited, message)
}
