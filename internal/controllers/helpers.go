package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "inventory-system/pkg/errors"
)

// parseIDParam разбирает числовой path-параметр; ошибка уже в виде HttpError.
func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неверный формат ID в адресе запроса",
			err,
			map[string]interface{}{"param": ctx.Param(name)},
		)
	}
	return id, nil
}
