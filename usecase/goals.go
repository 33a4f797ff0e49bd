package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"levelup/dto"
	"levelup/middleware"
	"levelup/model"
	"levelup/utils"

	"go.uber.org/zap"
)

// GoalsStore owns the improvement-goal list and the goal form's draft.
type GoalsStore struct {
	api       ProgressionAPI
	session   SessionReader
	notifier  Notifier
	refresher Refresher
	logger    *zap.Logger

	mu    sync.RWMutex
	goals []model.Goal
	draft model.GoalDraft
}

func NewGoalsStore(api ProgressionAPI, session SessionReader, notifier Notifier, refresher Refresher, logger *zap.Logger) *GoalsStore {
	return &GoalsStore{
		api:       api,
		session:   session,
		notifier:  notifier,
		refresher: refresher,
		logger:    utils.OrNop(logger),
		goals:     []model.Goal{},
	}
}

func (g *GoalsStore) Goals() []model.Goal {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]model.Goal{}, g.goals...)
}

func (g *GoalsStore) Draft() model.GoalDraft {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.draft
}

func (g *GoalsStore) SetDraft(draft model.GoalDraft) {
	g.mu.Lock()
	g.draft = draft
	g.mu.Unlock()
}

func (g *GoalsStore) Load(ctx context.Context) error {
	sess := g.session.Session()
	if !sess.Authenticated {
		return ErrNotAuthenticated
	}

	records, err := g.api.Goals(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		g.logger.Warn("failed to load goals", zap.Error(err))
		g.notifier.Push("Error", UserMessage(err, "Failed to load goals"), model.KindError)
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if stale(g.session, sess) {
		return ErrStaleSession
	}
	g.goals = dto.ToGoals(records)
	return nil
}

// Create adds a goal once the service has assigned its identifier, then
// refreshes the dashboard since the new goal may come with new quests.
func (g *GoalsStore) Create(ctx context.Context, description, category string) (*model.Goal, error) {
	draft := model.GoalDraft{Description: description, Category: category}
	if err := utils.Validator().Struct(draft); err != nil {
		middleware.TrackAction("create_goal", "invalid")
		verr := &ValidationError{Field: "description", Message: "Goal description is required"}
		g.notifier.Push("Error", verr.Message, model.KindError)
		return nil, verr
	}

	sess := g.session.Session()
	if !sess.Authenticated {
		return nil, ErrNotAuthenticated
	}

	record, err := g.api.CreateGoal(ctx, dto.CreateGoalRequest{
		Description: strings.TrimSpace(description),
		Category:    category,
	})
	if err != nil {
		middleware.TrackAction("create_goal", "rejected")
		g.logger.Warn("goal creation failed", zap.Error(err))
		g.notifier.Push("Error", UserMessage(err, "Failed to create goal"), model.KindError)
		return nil, err
	}

	goal := dto.ToGoal(*record)
	g.mu.Lock()
	if stale(g.session, sess) {
		g.mu.Unlock()
		return nil, ErrStaleSession
	}
	g.goals = append(g.goals, goal)
	g.draft = model.GoalDraft{}
	g.mu.Unlock()

	_ = g.refresher.Refresh(ctx)

	middleware.TrackAction("create_goal", "applied")
	g.notifier.Push("Goal Created", "Your new improvement goal has been added!", model.KindSuccess)
	return &goal, nil
}

// Delete removes the goal locally only after the service confirms.
func (g *GoalsStore) Delete(ctx context.Context, goalID string) error {
	sess := g.session.Session()
	if !sess.Authenticated {
		return ErrNotAuthenticated
	}

	if err := g.api.DeleteGoal(ctx, goalID); err != nil {
		middleware.TrackAction("delete_goal", "rejected")
		g.logger.Warn("goal deletion failed", zap.String("goal_id", goalID), zap.Error(err))
		g.notifier.Push("Error", UserMessage(err, "Failed to delete goal"), model.KindError)
		return err
	}

	g.mu.Lock()
	if stale(g.session, sess) {
		g.mu.Unlock()
		return ErrStaleSession
	}
	for i, goal := range g.goals {
		if goal.ID == goalID {
			g.goals = append(g.goals[:i], g.goals[i+1:]...)
			break
		}
	}
	g.mu.Unlock()

	middleware.TrackAction("delete_goal", "applied")
	g.notifier.Push("Goal Deleted", "Your goal has been removed", model.KindInfo)
	return nil
}

func (g *GoalsStore) Reset() {
	g.mu.Lock()
	g.goals = []model.Goal{}
	g.draft = model.GoalDraft{}
	g.mu.Unlock()
}

func (g *GoalsStore) Init(ctx context.Context) error {
	return g.Load(ctx)
}

func (g *GoalsStore) Teardown() {
	g.Reset()
}

// stale reports whether the session has ended or been replaced since started.
func stale(session SessionReader, started model.Session) bool {
	cur := session.Session()
	return !cur.Authenticated || cur.Generation != started.Generation
}
