package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"levelup/dto"
	"levelup/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestInterpretCompletion(t *testing.T) {
	tests := []struct {
		name string
		resp dto.CompleteQuestResponse
		want CompletionResult
	}{
		{
			name: "Applied",
			resp: dto.CompleteQuestResponse{XPGained: 50, StatIncreased: "discipline", StatChange: 2.5},
			want: Applied{XPGained: 50, Stat: "discipline", StatChange: 2.5},
		},
		{
			name: "Leveled up",
			resp: dto.CompleteQuestResponse{XPGained: 50, LevelUp: true, NewLevel: intPtr(5), PointsGained: 3},
			want: LeveledUp{Details: model.LevelUpDetails{NewLevel: 5, PointsGained: 3}},
		},
		{
			name: "Leveled up without level",
			resp: dto.CompleteQuestResponse{LevelUp: true},
			want: LeveledUp{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.resp
			assert.Equal(t, tt.want, InterpretCompletion(&resp))
		})
	}
}

func TestFeedbackMessages(t *testing.T) {
	assert.Equal(t, "You gained 50 XP and increased your discipline by 2.50!",
		CompletionMessage(Applied{XPGained: 50, Stat: "discipline", StatChange: 2.5}))
	assert.Equal(t, "You gained 12.5 XP and increased your focus by 0.33!",
		CompletionMessage(Applied{XPGained: 12.5, Stat: "focus", StatChange: 1.0 / 3}))
	assert.Equal(t, "You lost 20 XP and decreased your focus by 1.00",
		FailureMessage(FailureResult{XPLost: 20, Stat: "focus", StatChange: 1}))
}

func TestCompleteQuest(t *testing.T) {
	t.Run("Applied", func(t *testing.T) {
		env := newTestEnv(t, time.Minute)
		env.login(t)
		env.fake.SetCompletion(dto.CompleteQuestResponse{XPGained: 50, StatIncreased: "discipline", StatChange: 2.5})
		refreshes := env.fake.Calls("GET /api/dashboard")

		result, err := env.engine.Actions.CompleteQuest(context.Background(), "q1")
		require.NoError(t, err)
		assert.IsType(t, Applied{}, result)
		assert.Equal(t, refreshes+1, env.fake.Calls("GET /api/dashboard"))

		n, ok := findNotification(env.engine.Notifications.List(), "Quest Completed!")
		require.True(t, ok)
		assert.Equal(t, "You gained 50 XP and increased your discipline by 2.50!", n.Message)
		assert.Equal(t, model.KindSuccess, n.Kind)
		assert.False(t, levelUpShown(env.engine))
	})

	t.Run("Leveled up", func(t *testing.T) {
		env := newTestEnv(t, time.Minute)
		env.login(t)
		env.fake.SetCompletion(dto.CompleteQuestResponse{XPGained: 200, LevelUp: true, NewLevel: intPtr(5), PointsGained: 3})

		result, err := env.engine.Actions.CompleteQuest(context.Background(), "q1")
		require.NoError(t, err)
		assert.Equal(t, LeveledUp{Details: model.LevelUpDetails{NewLevel: 5, PointsGained: 3}}, result)

		shown, details := env.engine.LevelUp.State()
		assert.True(t, shown)
		assert.Equal(t, 5, details.NewLevel)
		assert.Equal(t, 3.0, details.PointsGained)

		_, ok := findNotification(env.engine.Notifications.List(), "Quest Completed!")
		assert.False(t, ok, "a level-up replaces the completion notification")

		assert.True(t, env.engine.LevelUp.Dismiss())
		assert.False(t, env.engine.LevelUp.Dismiss())
		assert.Equal(t, LevelUpState{}, env.engine.LevelUpState())
	})

	t.Run("Rejected", func(t *testing.T) {
		env := newTestEnv(t, time.Minute)
		env.login(t)
		env.fake.FailWith("POST /api/quests/:id/complete", http.StatusBadRequest, "Quest already completed")

		_, err := env.engine.Actions.CompleteQuest(context.Background(), "q1")
		require.Error(t, err)

		n, ok := findNotification(env.engine.Notifications.List(), "Error")
		require.True(t, ok)
		assert.Equal(t, "Quest already completed", n.Message)
	})

	t.Run("Rejected without message", func(t *testing.T) {
		env := newTestEnv(t, time.Minute)
		env.login(t)
		env.fake.FailWith("POST /api/quests/:id/complete", http.StatusInternalServerError, "")

		_, err := env.engine.Actions.CompleteQuest(context.Background(), "q1")
		require.Error(t, err)

		n, ok := findNotification(env.engine.Notifications.List(), "Error")
		require.True(t, ok)
		assert.Equal(t, "Failed to complete quest", n.Message)
	})

	t.Run("Logged out", func(t *testing.T) {
		env := newTestEnv(t, time.Minute)

		_, err := env.engine.Actions.CompleteQuest(context.Background(), "q1")
		assert.ErrorIs(t, err, ErrNotAuthenticated)
		assert.Equal(t, 0, env.fake.Calls("POST /api/quests/:id/complete"))
	})
}

func TestFailQuest(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	env.login(t)
	env.fake.SetFailQuest(dto.FailQuestResponse{XPLost: 20, StatDecreased: "focus", StatChange: 1})
	refreshes := env.fake.Calls("GET /api/dashboard")

	result, err := env.engine.Actions.FailQuest(context.Background(), "q2")
	require.NoError(t, err)
	assert.Equal(t, &FailureResult{XPLost: 20, Stat: "focus", StatChange: 1}, result)
	assert.Equal(t, refreshes+1, env.fake.Calls("GET /api/dashboard"))

	n, ok := findNotification(env.engine.Notifications.List(), "Quest Failed")
	require.True(t, ok)
	assert.Equal(t, "You lost 20 XP and decreased your focus by 1.00", n.Message)
	assert.Equal(t, model.KindError, n.Kind)
	assert.False(t, levelUpShown(env.engine))
}

func TestAllocatePoint(t *testing.T) {
	t.Run("No points available", func(t *testing.T) {
		env := newTestEnv(t, time.Minute)
		env.login(t)

		err := env.engine.Actions.AllocatePoint(context.Background(), model.StatFocus)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Equal(t, 0, env.fake.Calls("POST /api/level/allocate"))

		n, ok := findNotification(env.engine.Notifications.List(), "Error")
		require.True(t, ok)
		assert.Equal(t, "No attribute points available", n.Message)
	})

	t.Run("Applies server result", func(t *testing.T) {
		env := newTestEnv(t, time.Minute)
		env.fake.SetDashboard(dto.DashboardResponse{
			Stats: map[string]float64{model.StatFocus: 3},
			Level: dto.LevelRecord{Level: 4, AvailablePoints: 3},
		})
		env.login(t)
		env.fake.SetAllocation(dto.AllocateResponse{
			Stats:           map[string]float64{model.StatFocus: 4},
			AvailablePoints: 2,
		})

		require.NoError(t, env.engine.Actions.AllocatePoint(context.Background(), model.StatFocus))

		var sent dto.AllocateRequest
		require.NoError(t, json.Unmarshal(env.fake.LastBody("POST /api/level/allocate"), &sent))
		assert.Equal(t, dto.AllocateRequest{Stat: model.StatFocus, Points: 1}, sent)

		assert.Equal(t, 4.0, env.engine.Dashboard.Stats()[model.StatFocus])
		assert.Len(t, env.engine.Dashboard.Stats(), len(model.StatNames))
		assert.Equal(t, 2, env.engine.Dashboard.Level().AvailablePoints)
		assert.Equal(t, 4, env.engine.Dashboard.Level().Level)

		n, ok := findNotification(env.engine.Notifications.List(), "Point Allocated")
		require.True(t, ok)
		assert.Equal(t, "You increased your focus by 1 point!", n.Message)
	})
}

func TestGenerateQuest(t *testing.T) {
	t.Run("Sample quest", func(t *testing.T) {
		env := newTestEnv(t, time.Minute)
		env.login(t)

		require.NoError(t, env.engine.Actions.GenerateQuest(context.Background(), "  "))

		var sent dto.GenerateQuestRequest
		require.NoError(t, json.Unmarshal(env.fake.LastBody("POST /api/generate-sample-quest"), &sent))
		assert.Equal(t, DefaultQuestGoal, sent.Goal)
		assert.Equal(t, 0, env.fake.Calls("POST /api/generate-quest"))

		n, ok := findNotification(env.engine.Notifications.List(), "New Quest")
		require.True(t, ok)
		assert.Equal(t, "A new quest has been generated!", n.Message)
		assert.Equal(t, model.KindInfo, n.Kind)
	})

	t.Run("For a goal", func(t *testing.T) {
		env := newTestEnv(t, time.Minute)
		env.login(t)

		require.NoError(t, env.engine.Actions.GenerateQuest(context.Background(), "Read more"))
		assert.Equal(t, 1, env.fake.Calls("POST /api/generate-quest"))

		n, ok := findNotification(env.engine.Notifications.List(), "New Quest")
		require.True(t, ok)
		assert.Equal(t, "A new quest has been generated for: Read more", n.Message)
	})

	t.Run("Rejected", func(t *testing.T) {
		env := newTestEnv(t, time.Minute)
		env.login(t)
		env.fake.FailWith("POST /api/generate-quest", http.StatusInternalServerError, "")

		require.Error(t, env.engine.Actions.GenerateQuest(context.Background(), "Read more"))
		n, ok := findNotification(env.engine.Notifications.List(), "Error")
		require.True(t, ok)
		assert.Equal(t, "Failed to generate quest", n.Message)
	})
}

func TestLogoutHidesLevelUp(t *testing.T) {
	env := newTestEnv(t, time.Minute)
	env.login(t)
	env.fake.SetCompletion(dto.CompleteQuestResponse{LevelUp: true, NewLevel: intPtr(2), PointsGained: 3})

	_, err := env.engine.Actions.CompleteQuest(context.Background(), "q1")
	require.NoError(t, err)
	require.True(t, levelUpShown(env.engine))

	require.NoError(t, env.engine.Auth.Logout(context.Background()))
	assert.False(t, levelUpShown(env.engine))
}

func TestSnapshot(t *testing.T) {
	env := newTestEnv(t, time.Minute)

	state := env.engine.Snapshot()
	assert.False(t, state.Session.Authenticated)
	assert.Equal(t, model.DefaultTitle, state.Dashboard.Title)
	assert.Empty(t, state.Goals)

	env.login(t)
	state = env.engine.Snapshot()
	assert.True(t, state.Session.Authenticated)
	assert.Equal(t, []string{"Welcome back!"}, titles(state.Notifications))
	assert.False(t, state.LevelUp.Shown)
}
