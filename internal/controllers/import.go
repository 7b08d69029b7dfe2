package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/services"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type ImportController struct {
	importService services.EquipmentImportServiceInterface
	logger        *zap.Logger
}

func NewImportController(importService services.EquipmentImportServiceInterface, logger *zap.Logger) *ImportController {
	return &ImportController{importService: importService, logger: logger}
}

// ImportEquipment — POST /equipments/import, XLSX в multipart-поле "file".
func (c *ImportController) ImportEquipment(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Не передан файл импорта", err, nil),
			c.logger)
	}
	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Не удалось прочитать файл импорта", err, nil),
			c.logger)
	}
	defer src.Close()

	res, err := c.importService.ImportFromXLSX(ctx.Request().Context(), src)
	if err != nil {
		c.logger.Error("ImportEquipment: импорт прерван", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Импорт завершён", http.StatusOK)
}
