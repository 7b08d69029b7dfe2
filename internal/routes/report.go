package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runReportRouter(secureGroup *echo.Group, reportCtrl *controllers.ReportController) {
	secureGroup.GET("/reports/equipment", reportCtrl.GetEquipmentReport)
}
