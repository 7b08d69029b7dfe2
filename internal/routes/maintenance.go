package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runMaintenanceRouter(secureGroup *echo.Group, maintenanceCtrl *controllers.MaintenanceController) {
	{
		secureGroup.GET("/maintenance", maintenanceCtrl.GetRecords)
		secureGroup.POST("/maintenance", maintenanceCtrl.ScheduleMaintenance)
		secureGroup.GET("/maintenance/:id", maintenanceCtrl.FindRecord)
		secureGroup.PUT("/maintenance/:id", maintenanceCtrl.UpdateMaintenance)
	}
}
