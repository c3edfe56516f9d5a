package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fsdevblog/learn2code/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired. В случае, если значения в контексте нет или ошибка утверждения типа -
// вернется 0.
func getUserIDFromContext(c *gin.Context) int64 {
	userIDStr, exist := c.Get(middlewares.CurrentUserIDKey)
	if !exist {
		return 0
	}
	userID, ok := userIDStr.(int64)
	if !ok {
		return 0
	}
	return userID
}

// parseOptionalID разбирает необязательный числовой идентификатор. Пустая строка - nil без ошибки.
func parseOptionalID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil //nolint:nilnil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &id, nil
}

// abortWithBindError ошибки валидатора отдаются со статусом 422 и списком полей, остальные ошибки разбора - 400.
func abortWithBindError(c *gin.Context, bindErr error) {
	var valErrs validator.ValidationErrors
	if errors.As(bindErr, &valErrs) {
		fields := make(map[string]string, len(valErrs))
		for _, fieldErr := range valErrs {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
}
