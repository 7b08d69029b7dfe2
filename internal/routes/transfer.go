package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runTransferRouter(secureGroup *echo.Group, transferCtrl *controllers.TransferController) {
	{
		secureGroup.GET("/transfers", transferCtrl.GetTransfers)
		secureGroup.POST("/transfers", transferCtrl.InitiateTransfer)
		secureGroup.GET("/transfers/:id", transferCtrl.FindTransfer)
		secureGroup.POST("/transfers/:id/decision", transferCtrl.DecideTransfer)
	}
}
