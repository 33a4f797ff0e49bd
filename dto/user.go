package dto

import "levelup/model"

type UserRecord struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Title    string `json:"title"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	Password         string   `json:"password"`
	ImprovementGoals []string `json:"improvement_goals"`
}

// AuthResponse is returned by login, register and the identity check.
// Token is only set by deployments that issue bearer tokens.
type AuthResponse struct {
	Message string      `json:"message,omitempty"`
	User    *UserRecord `json:"user"`
	Token   string      `json:"token,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func ToUserIdentity(u *UserRecord) *model.UserIdentity {
	if u == nil {
		return nil
	}
	return &model.UserIdentity{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Title:    u.Title,
	}
}
