package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runUserRouter(secureGroup *echo.Group, userCtrl *controllers.UserController) {
	secureGroup.GET("/users", userCtrl.GetUsers)
	secureGroup.GET("/users/:id", userCtrl.FindUser)
	secureGroup.POST("/users", userCtrl.CreateUser)
	secureGroup.PUT("/users/:id", userCtrl.UpdateUser)
	secureGroup.DELETE("/users/:id", userCtrl.DeleteUser)
}
