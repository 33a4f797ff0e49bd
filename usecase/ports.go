package usecase

import (
	"context"

	"levelup/dto"
	"levelup/model"
)

// ProgressionAPI is the remote progression service as the engine sees it.
type ProgressionAPI interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*dto.AuthResponse, error)

	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	MarkNotificationsRead(ctx context.Context, ids []string) error

	Goals(ctx context.Context) ([]dto.GoalRecord, error)
	CreateGoal(ctx context.Context, req dto.CreateGoalRequest) (*dto.GoalRecord, error)
	DeleteGoal(ctx context.Context, goalID string) error

	CompleteQuest(ctx context.Context, questID string) (*dto.CompleteQuestResponse, error)
	FailQuest(ctx context.Context, questID string) (*dto.FailQuestResponse, error)
	GenerateSampleQuest(ctx context.Context, goal string) (*dto.GenerateQuestResponse, error)
	GenerateQuest(ctx context.Context, goal string) (*dto.GenerateQuestResponse, error)
	AllocatePoint(ctx context.Context, req dto.AllocateRequest) (*dto.AllocateResponse, error)

	SetToken(token string)
	Credential() model.Credential
	RestoreCredential(cred model.Credential)
	ClearCredential()
}

// Notifier surfaces transient feedback to the user.
type Notifier interface {
	Push(title, message string, kind model.NotificationKind) int64
}

// CredentialStore persists the session credential between runs.
type CredentialStore interface {
	Save(ctx context.Context, profile string, cred model.Credential) error
	Load(ctx context.Context, profile string) (*model.Credential, error)
	Delete(ctx context.Context, profile string) error
}

// Lifecycle is implemented by everything whose state is scoped to a
// session. Init runs after authentication, Teardown after logout.
type Lifecycle interface {
	Init(ctx context.Context) error
	Teardown()
}

type SessionReader interface {
	Session() model.Session
}

// Refresher re-fetches the dashboard.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Dashboard is what actions need from DashboardSync.
type Dashboard interface {
	Refresher
	Level() model.LevelInfo
	ApplyAllocation(stats map[string]float64, availablePoints int)
}
