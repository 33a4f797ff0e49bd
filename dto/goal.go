package dto

import "levelup/model"

type GoalRecord struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type GoalsResponse struct {
	Goals []GoalRecord `json:"goals"`
}

type CreateGoalRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

type GoalResponse struct {
	Message string     `json:"message,omitempty"`
	Goal    GoalRecord `json:"goal"`
}

func ToGoal(g GoalRecord) model.Goal {
	return model.Goal{
		ID:          g.ID,
		Description: g.Description,
		Category:    g.Category,
		CreatedAt:   g.CreatedAt,
	}
}

func ToGoals(records []GoalRecord) []model.Goal {
	goals := make([]model.Goal, len(records))
	for i, g := range records {
		goals[i] = ToGoal(g)
	}
	return goals
}
