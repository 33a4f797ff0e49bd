package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"levelup/dto"
	"levelup/middleware"
	"levelup/model"
	"levelup/utils"

	"go.uber.org/zap"
)

// DefaultQuestGoal is sent when a quest is generated without a goal.
const DefaultQuestGoal = "Improve yourself"

// CompletionResult is the interpretation of a quest completion: either
// Applied or LeveledUp, never both.
type CompletionResult interface {
	completionResult()
}

// Applied is an ordinary completion.
type Applied struct {
	XPGained   float64
	Stat       string
	StatChange float64
}

// LeveledUp is a completion that crossed a level boundary.
type LeveledUp struct {
	Details model.LevelUpDetails
}

func (Applied) completionResult()   {}
func (LeveledUp) completionResult() {}

func InterpretCompletion(resp *dto.CompleteQuestResponse) CompletionResult {
	if resp.LevelUp {
		level := 0
		if resp.NewLevel != nil {
			level = *resp.NewLevel
		}
		return LeveledUp{Details: model.LevelUpDetails{NewLevel: level, PointsGained: resp.PointsGained}}
	}
	return Applied{
		XPGained:   resp.XPGained,
		Stat:       resp.StatIncreased,
		StatChange: resp.StatChange,
	}
}

type FailureResult struct {
	XPLost     float64
	Stat       string
	StatChange float64
}

func CompletionMessage(r Applied) string {
	return fmt.Sprintf("You gained %s XP and increased your %s by %.2f!", formatXP(r.XPGained), r.Stat, r.StatChange)
}

func FailureMessage(r FailureResult) string {
	return fmt.Sprintf("You lost %s XP and decreased your %s by %.2f", formatXP(r.XPLost), r.Stat, r.StatChange)
}

func formatXP(xp float64) string {
	return strconv.FormatFloat(xp, 'f', -1, 64)
}

// ActionDispatcher sends user actions to the service and turns the answers
// into dashboard refreshes, notifications and level-up presentations. It
// never writes the dashboard itself except through Dashboard.
type ActionDispatcher struct {
	api       ProgressionAPI
	session   SessionReader
	dashboard Dashboard
	presenter *LevelUpPresenter
	notifier  Notifier
	logger    *zap.Logger
}

func NewActionDispatcher(api ProgressionAPI, session SessionReader, dashboard Dashboard, presenter *LevelUpPresenter, notifier Notifier, logger *zap.Logger) *ActionDispatcher {
	return &ActionDispatcher{
		api:       api,
		session:   session,
		dashboard: dashboard,
		presenter: presenter,
		notifier:  notifier,
		logger:    utils.OrNop(logger),
	}
}

func (a *ActionDispatcher) begin() (model.Session, error) {
	sess := a.session.Session()
	if !sess.Authenticated {
		return sess, ErrNotAuthenticated
	}
	return sess, nil
}

func (a *ActionDispatcher) invalid(action, field, message string) error {
	middleware.TrackAction(action, "invalid")
	a.notifier.Push("Error", message, model.KindError)
	return &ValidationError{Field: field, Message: message}
}

func (a *ActionDispatcher) rejected(action string, err error, fallback string) error {
	middleware.TrackAction(action, "rejected")
	a.logger.Warn("action rejected", zap.String("action", action), zap.Error(err))
	a.notifier.Push("Error", UserMessage(err, fallback), model.KindError)
	return err
}

// CompleteQuest refreshes the dashboard before deciding between the
// level-up presentation and the ordinary completion notification.
func (a *ActionDispatcher) CompleteQuest(ctx context.Context, questID string) (CompletionResult, error) {
	sess, err := a.begin()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(questID) == "" {
		return nil, a.invalid("complete_quest", "quest_id", "Quest id is required")
	}

	resp, err := a.api.CompleteQuest(ctx, questID)
	if err != nil {
		return nil, a.rejected("complete_quest", err, "Failed to complete quest")
	}
	if stale(a.session, sess) {
		return nil, ErrStaleSession
	}

	_ = a.dashboard.Refresh(ctx)

	result := InterpretCompletion(resp)
	switch r := result.(type) {
	case LeveledUp:
		middleware.TrackLevelUp()
		a.presenter.show(r.Details)
		a.logger.Info("level up", zap.Int("new_level", r.Details.NewLevel))
	case Applied:
		a.notifier.Push("Quest Completed!", CompletionMessage(r), model.KindSuccess)
	}

	middleware.TrackAction("complete_quest", "applied")
	return result, nil
}

// FailQuest never leads to a level-up.
func (a *ActionDispatcher) FailQuest(ctx context.Context, questID string) (*FailureResult, error) {
	sess, err := a.begin()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(questID) == "" {
		return nil, a.invalid("fail_quest", "quest_id", "Quest id is required")
	}

	resp, err := a.api.FailQuest(ctx, questID)
	if err != nil {
		return nil, a.rejected("fail_quest", err, "Failed to mark quest as failed")
	}
	if stale(a.session, sess) {
		return nil, ErrStaleSession
	}

	_ = a.dashboard.Refresh(ctx)

	result := &FailureResult{
		XPLost:     resp.XPLost,
		Stat:       resp.StatDecreased,
		StatChange: resp.StatChange,
	}
	a.notifier.Push("Quest Failed", FailureMessage(*result), model.KindError)

	middleware.TrackAction("fail_quest", "applied")
	return result, nil
}

// AllocatePoint spends one attribute point. Stats and the remaining points
// are taken from the response, not computed locally.
func (a *ActionDispatcher) AllocatePoint(ctx context.Context, stat string) error {
	sess, err := a.begin()
	if err != nil {
		return err
	}
	if err := utils.Validator().Var(stat, "required,notblank"); err != nil {
		return a.invalid("allocate_point", "stat", "Stat name is required")
	}
	if a.dashboard.Level().AvailablePoints <= 0 {
		return a.invalid("allocate_point", "available_points", "No attribute points available")
	}

	resp, err := a.api.AllocatePoint(ctx, dto.AllocateRequest{Stat: stat, Points: 1})
	if err != nil {
		return a.rejected("allocate_point", err, "Failed to allocate point")
	}
	if stale(a.session, sess) {
		return ErrStaleSession
	}

	a.dashboard.ApplyAllocation(resp.Stats, resp.AvailablePoints)
	a.notifier.Push("Point Allocated", fmt.Sprintf("You increased your %s by 1 point!", stat), model.KindSuccess)

	middleware.TrackAction("allocate_point", "applied")
	return nil
}

// GenerateQuest asks for a quest for goal, or a sample quest when goal is
// blank.
func (a *ActionDispatcher) GenerateQuest(ctx context.Context, goal string) error {
	sess, err := a.begin()
	if err != nil {
		return err
	}

	goal = strings.TrimSpace(goal)
	message := "A new quest has been generated!"
	if goal == "" {
		_, err = a.api.GenerateSampleQuest(ctx, DefaultQuestGoal)
	} else {
		_, err = a.api.GenerateQuest(ctx, goal)
		message = fmt.Sprintf("A new quest has been generated for: %s", goal)
	}
	if err != nil {
		return a.rejected("generate_quest", err, "Failed to generate quest")
	}
	if stale(a.session, sess) {
		return ErrStaleSession
	}

	_ = a.dashboard.Refresh(ctx)
	a.notifier.Push("New Quest", message, model.KindInfo)

	middleware.TrackAction("generate_quest", "applied")
	return nil
}
