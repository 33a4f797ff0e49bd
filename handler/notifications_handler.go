package handler

import (
	"strconv"

	"levelup/usecase"
	"levelup/utils"

	"github.com/gin-gonic/gin"
)

func GetNotificationsHandler(c *gin.Context, engine *usecase.Engine) {
	utils.Success(c, engine.Notifications.List())
}

// DismissNotificationHandler is idempotent: an id that already expired
// still answers 200.
func DismissNotificationHandler(c *gin.Context, engine *usecase.Engine) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequest(c, "Invalid notification id")
		return
	}

	removed := engine.Notifications.Remove(id)
	utils.Success(c, gin.H{"removed": removed})
}

func LevelUpHandler(c *gin.Context, engine *usecase.Engine) {
	utils.Success(c, engine.LevelUpState())
}

func DismissLevelUpHandler(c *gin.Context, engine *usecase.Engine) {
	dismissed := engine.LevelUp.Dismiss()
	utils.Success(c, gin.H{"dismissed": dismissed})
}
