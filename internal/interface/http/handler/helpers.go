package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/fairlance-backend/internal/domain/valueobject"
	"github.com/ignatzorin/fairlance-backend/internal/http/middleware"
	"github.com/ignatzorin/fairlance-backend/internal/interface/http/response"
)

func getUserID(c *gin.Context) (uuid.UUID, error) {
	userIDValue, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, errors.New("userID не найден в контексте")
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("некорректный формат userID")
	}

	return userID, nil
}

func getRole(c *gin.Context) valueobject.Role {
	value, _ := c.Get(middleware.ContextRoleKey)
	role, _ := value.(valueobject.Role)
	return role
}

// requireUser достаёт пользователя из контекста или отвечает 401.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "требуется авторизация")
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID разбирает параметр пути или отвечает 400.
func pathUUID(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, message)
		return uuid.Nil, false
	}
	return id, true
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func parseUUIDQuery(c *gin.Context, key string) (*uuid.UUID, error) {
	valueStr := c.Query(key)
	if valueStr == "" {
		return nil, nil
	}

	value, err := uuid.Parse(valueStr)
	if err != nil {
		return nil, err
	}

	return &value, nil
}
