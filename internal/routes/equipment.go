package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runEquipmentRouter(secureGroup *echo.Group, equipmentCtrl *controllers.EquipmentController, importCtrl *controllers.ImportController) {
	{
		secureGroup.GET("/equipments", equipmentCtrl.GetEquipments)
		secureGroup.POST("/equipments", equipmentCtrl.CreateEquipment)
		secureGroup.POST("/equipments/import", importCtrl.ImportEquipment)
		secureGroup.GET("/equipments/:id", equipmentCtrl.FindEquipment)
		secureGroup.PUT("/equipments/:id", equipmentCtrl.UpdateEquipment)
		secureGroup.PATCH("/equipments/:id/status", equipmentCtrl.TransitionStatus)
		secureGroup.GET("/equipments/:id/transitions", equipmentCtrl.AvailableTransitions)
		secureGroup.GET("/equipments/:id/history", equipmentCtrl.GetHistory)
	}
}
