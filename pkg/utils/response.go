package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	apperrors "inventory-system/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message}
	withPagination, _ := strconv.ParseBool(ctx.QueryParam("withPagination"))
	if withPagination && len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.Request().URL.Query())
		totalPages := 0
		if filter.Limit > 0 {
			totalPages = int((total[0] + uint64(filter.Limit) - 1) / uint64(filter.Limit))
		}
		pagination := map[string]interface{}{
			"total_count": total[0],
			"page":        filter.Page,
			"limit":       filter.Limit,
			"total_pages": totalPages,
		}
		response.Body = map[string]interface{}{"list": body, "pagination": pagination}
	} else {
		response.Body = body
	}
	return ctx.JSON(code, response)
}

// ErrorResponse переводит доменные ошибки в HTTP-ответ со структурированным телом:
// клиент получает допустимые переходы, требуемую роль или этап согласования.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		}
		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var transitionErr *apperrors.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"status":  false,
			"message": transitionErr.Error(),
			"body": map[string]interface{}{
				"from":                transitionErr.From,
				"requested":           transitionErr.Requested,
				"allowed_transitions": transitionErr.Allowed,
			},
		})
	}

	var unauthorizedErr *apperrors.UnauthorizedError
	if errors.As(err, &unauthorizedErr) {
		body := map[string]interface{}{}
		if unauthorizedErr.RequiredRole != "" {
			body["required_role"] = unauthorizedErr.RequiredRole
		}
		if unauthorizedErr.Stage != "" {
			body["stage"] = unauthorizedErr.Stage
		}
		response := map[string]interface{}{
			"status":  false,
			"message": unauthorizedErr.Reason,
		}
		if len(body) > 0 {
			response["body"] = body
		}
		return c.JSON(http.StatusForbidden, response)
	}

	var preconditionErr *apperrors.PreconditionError
	if errors.As(err, &preconditionErr) {
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"status":  false,
			"message": preconditionErr.Message,
		})
	}

	var inputErr *apperrors.InvalidInputError
	if errors.As(err, &inputErr) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": inputErr.Message,
		})
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"status":  false,
			"message": apperrors.ErrNotFound.Error(),
		})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": "Ошибка валидации: " + strings.Join(msgs, "; "),
		})
	}

	var persistenceErr *apperrors.PersistenceError
	if errors.As(err, &persistenceErr) {
		logger.Error("Persistence Error", zap.String("op", persistenceErr.Op), zap.Error(persistenceErr.Err))
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status":  false,
			"message": "Хранилище временно недоступно, повторите попытку",
		})
	}

	switch {
	case errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenIsNotAccess),
		errors.Is(err, apperrors.ErrTokenIsNotRefresh),
		errors.Is(err, apperrors.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  false,
			"message": err.Error(),
		})
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status":  false,
		"message": "Внутренняя ошибка сервера",
	})
}
