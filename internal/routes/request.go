package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runRequestRouter(secureGroup *echo.Group, requestCtrl *controllers.EquipmentRequestController) {
	{
		secureGroup.GET("/requests", requestCtrl.GetRequests)
		secureGroup.POST("/requests", requestCtrl.CreateRequest)
		secureGroup.GET("/requests/:id", requestCtrl.FindRequest)
		secureGroup.POST("/requests/:id/decision", requestCtrl.Decide)
		secureGroup.POST("/requests/:id/fulfill", requestCtrl.Fulfill)
	}
}
