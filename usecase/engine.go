package usecase

import (
	"time"

	"levelup/model"
	"levelup/services"
	"levelup/utils"

	"go.uber.org/zap"
)

type Options struct {
	Profile         string
	RefreshInterval time.Duration
	NotificationTTL time.Duration
	Logger          *zap.Logger
}

// Engine wires the session-scoped components together.
type Engine struct {
	Notifications *services.NotificationQueue
	Auth          *AuthSession
	Dashboard     *DashboardSync
	Goals         *GoalsStore
	Actions       *ActionDispatcher
	LevelUp       *LevelUpPresenter
}

func NewEngine(api ProgressionAPI, store CredentialStore, opts Options) *Engine {
	logger := utils.OrNop(opts.Logger)
	profile := opts.Profile
	if profile == "" {
		profile = "default"
	}

	queue := services.NewNotificationQueue(opts.NotificationTTL,
		services.WithQueueLogger(logger.Named("notifications")))
	auth := NewAuthSession(api, store, queue, logger.Named("auth"), profile)
	dashboard := NewDashboardSync(api, auth, queue, logger.Named("dashboard"), opts.RefreshInterval)
	dashboard.OnSessionExpired(auth.Expire)
	goals := NewGoalsStore(api, auth, queue, dashboard, logger.Named("goals"))
	presenter := NewLevelUpPresenter()
	actions := NewActionDispatcher(api, auth, dashboard, presenter, queue, logger.Named("actions"))

	auth.Attach(dashboard, goals, presenter, queue)

	return &Engine{
		Notifications: queue,
		Auth:          auth,
		Dashboard:     dashboard,
		Goals:         goals,
		Actions:       actions,
		LevelUp:       presenter,
	}
}

type LevelUpState struct {
	Shown   bool                  `json:"shown"`
	Details *model.LevelUpDetails `json:"details,omitempty"`
}

// State is everything a renderer needs for one frame.
type State struct {
	Session       model.Session        `json:"session"`
	Dashboard     model.DashboardView  `json:"dashboard"`
	Goals         []model.Goal         `json:"goals"`
	GoalDraft     model.GoalDraft      `json:"goal_draft"`
	Notifications []model.Notification `json:"notifications"`
	LevelUp       LevelUpState         `json:"level_up"`
}

func (e *Engine) LevelUpState() LevelUpState {
	shown, details := e.LevelUp.State()
	if !shown {
		return LevelUpState{}
	}
	return LevelUpState{Shown: true, Details: &details}
}

func (e *Engine) Snapshot() State {
	return State{
		Session:       e.Auth.Session(),
		Dashboard:     e.Dashboard.View(),
		Goals:         e.Goals.Goals(),
		GoalDraft:     e.Goals.Draft(),
		Notifications: e.Notifications.List(),
		LevelUp:       e.LevelUpState(),
	}
}

// Close tears down the session locally, stopping the refresh loop and every
// notification timer.
func (e *Engine) Close() {
	e.Auth.Close()
	e.Notifications.Clear()
}
