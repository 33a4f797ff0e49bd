package handler

import (
	"levelup/usecase"
	"levelup/utils"

	"github.com/gin-gonic/gin"
)

func DashboardHandler(c *gin.Context, engine *usecase.Engine) {
	utils.Success(c, engine.Dashboard.View())
}

func RefreshDashboardHandler(c *gin.Context, engine *usecase.Engine) {
	if err := engine.Dashboard.Refresh(c.Request.Context()); err != nil {
		respondError(c, err, "Failed to load dashboard data")
		return
	}
	utils.Success(c, engine.Dashboard.View())
}
