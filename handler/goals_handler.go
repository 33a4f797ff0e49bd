package handler

import (
	"levelup/model"
	"levelup/usecase"
	"levelup/utils"

	"github.com/gin-gonic/gin"
)

type createGoalRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

func GetGoalsHandler(c *gin.Context, engine *usecase.Engine) {
	utils.Success(c, gin.H{
		"goals": engine.Goals.Goals(),
		"draft": engine.Goals.Draft(),
	})
}

// CreateGoalHandler falls back to the stored draft when the body is empty,
// so a renderer can edit the draft field by field and submit it.
func CreateGoalHandler(c *gin.Context, engine *usecase.Engine) {
	req := createGoalRequest{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid Request")
			return
		}
	} else {
		draft := engine.Goals.Draft()
		req.Description, req.Category = draft.Description, draft.Category
	}

	goal, err := engine.Goals.Create(c.Request.Context(), req.Description, req.Category)
	if err != nil {
		respondError(c, err, "Failed to create goal")
		return
	}

	utils.SuccessMessage(c, "Goal Created", goal)
}

func DeleteGoalHandler(c *gin.Context, engine *usecase.Engine) {
	if err := engine.Goals.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete goal")
		return
	}
	utils.SuccessMessage(c, "Goal Deleted", engine.Goals.Goals())
}

func UpdateGoalDraftHandler(c *gin.Context, engine *usecase.Engine) {
	var draft model.GoalDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}
	engine.Goals.SetDraft(draft)
	utils.Success(c, engine.Goals.Draft())
}
