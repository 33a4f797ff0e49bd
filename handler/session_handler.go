package handler

import (
	"levelup/model"
	"levelup/usecase"
	"levelup/utils"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	Password         string   `json:"password"`
	ImprovementGoals []string `json:"improvement_goals"`
}

func StateHandler(c *gin.Context, engine *usecase.Engine) {
	utils.Success(c, engine.Snapshot())
}

// CheckSessionHandler resumes a stored session. A missing session is not an
// error for the caller; it just reads the unauthenticated state back.
func CheckSessionHandler(c *gin.Context, engine *usecase.Engine) {
	_ = engine.Auth.CheckExisting(c.Request.Context())
	utils.Success(c, engine.Auth.Session())
}

func LoginHandler(c *gin.Context, engine *usecase.Engine) {
	var creds model.LoginCredentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	if err := engine.Auth.Login(c.Request.Context(), creds); err != nil {
		respondError(c, err, "Invalid username or password")
		return
	}

	utils.SuccessMessage(c, "Logged in", engine.Auth.Session())
}

func RegisterHandler(c *gin.Context, engine *usecase.Engine) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid Request")
		return
	}

	profile := model.RegisterProfile{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := engine.Auth.Register(c.Request.Context(), profile, req.ImprovementGoals); err != nil {
		respondError(c, err, "Could not create account")
		return
	}

	utils.SuccessMessage(c, "Registered", engine.Auth.Session())
}

// LogoutHandler always reports success: the local session is gone even when
// the service did not hear about it.
func LogoutHandler(c *gin.Context, engine *usecase.Engine) {
	_ = engine.Auth.Logout(c.Request.Context())
	utils.SuccessMessage(c, "Logged out", engine.Auth.Session())
}
