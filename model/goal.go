package model

type Goal struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// GoalDraft holds the goal form's input fields.
type GoalDraft struct {
	Description string `json:"description" validate:"notblank"`
	Category    string `json:"category"`
}
