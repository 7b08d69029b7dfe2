package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/services"
	"inventory-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// GetEquipmentReport — GET /reports/equipment: отдаёт XLSX-файл.
func (c *ReportController) GetEquipmentReport(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	file, err := c.reportService.BuildEquipmentReport(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetEquipmentReport: ошибка формирования отчёта", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileName := fmt.Sprintf("equipment-report-%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, fileName))
	ctx.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().WriteHeader(http.StatusOK)

	if err := file.Write(ctx.Response().Writer); err != nil {
		c.logger.Error("GetEquipmentReport: ошибка записи файла в ответ", zap.Error(err))
		return err
	}
	return nil
}
