package handler

import (
	"levelup/usecase"
	"levelup/utils"

	"github.com/gin-gonic/gin"
)

type generateQuestRequest struct {
	Goal string `json:"goal"`
}

type allocateRequest struct {
	Stat string `json:"stat"`
}

type completionPayload struct {
	LevelUp    bool    `json:"level_up"`
	XPGained   float64 `json:"xp_gained,omitempty"`
	Stat       string  `json:"stat,omitempty"`
	StatChange float64 `json:"stat_change,omitempty"`
	NewLevel   int     `json:"new_level,omitempty"`
	Points     float64 `json:"points_gained,omitempty"`
}

func CompleteQuestHandler(c *gin.Context, engine *usecase.Engine) {
	result, err := engine.Actions.CompleteQuest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to complete quest")
		return
	}

	var payload completionPayload
	switch r := result.(type) {
	case usecase.LeveledUp:
		payload = completionPayload{LevelUp: true, NewLevel: r.Details.NewLevel, Points: r.Details.PointsGained}
	case usecase.Applied:
		payload = completionPayload{XPGained: r.XPGained, Stat: r.Stat, StatChange: r.StatChange}
	}
	utils.SuccessMessage(c, "Quest Completed", payload)
}

func FailQuestHandler(c *gin.Context, engine *usecase.Engine) {
	result, err := engine.Actions.FailQuest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to mark quest as failed")
		return
	}
	utils.SuccessMessage(c, "Quest Failed", gin.H{
		"xp_lost":        result.XPLost,
		"stat_decreased": result.Stat,
		"stat_change":    result.StatChange,
	})
}

func GenerateQuestHandler(c *gin.Context, engine *usecase.Engine) {
	var req generateQuestRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid Request")
			return
		}
	}

	if err := engine.Actions.GenerateQuest(c.Request.Context(), req.Goal); err != nil {
		respondError(c, err, "Failed to generate quest")
		return
	}
	utils.SuccessMessage(c, "New Quest", engine.Dashboard.View())
}

func AllocatePointHandler(c *gin.Context, engine *usecase.Engine) {
	var req allocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := engine.Actions.AllocatePoint(c.Request.Context(), req.Stat); err != nil {
		respondError(c, err, "Failed to allocate point")
		return
	}
	utils.SuccessMessage(c, "Point Allocated", gin.H{
		"stats": engine.Dashboard.Stats(),
		"level": engine.Dashboard.Level(),
	})
}
