package routes

import (
	"github.com/labstack/echo/v4"

	"inventory-system/internal/controllers"
)

func runTeamRouter(secureGroup *echo.Group, teamCtrl *controllers.TeamController) {
	secureGroup.GET("/teams", teamCtrl.GetTeams)
	secureGroup.GET("/teams/:id", teamCtrl.FindTeam)
	secureGroup.POST("/teams", teamCtrl.CreateTeam)
	secureGroup.PUT("/teams/:id", teamCtrl.UpdateTeam)
	secureGroup.DELETE("/teams/:id", teamCtrl.DeleteTeam)
}
