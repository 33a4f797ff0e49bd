package dto

import (
	"testing"
	"time"

	"levelup/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDashboardView(t *testing.T) {
	expires := "2026-10-18T00:00:00Z"
	resp := &DashboardResponse{
		Stats: map[string]float64{model.StatDiscipline: 4.5, "charisma": 2},
		Level: LevelRecord{Level: 2, TotalXP: 1200, AvailablePoints: 3, NextLevelXP: 2000, ProgressPercent: 20},
		DailyQuests: []QuestRecord{
			{ID: "q1", Text: "Meditate", ExpirationTime: &expires},
			{ID: "q2", Text: "Stretch"},
		},
		Notifications: []NotificationRecord{{ID: "n1", Title: "Hi", Type: "success"}},
		TotalXP:       1200,
	}
	now := time.Now()

	view := ToDashboardView(resp, now)

	assert.Equal(t, model.DefaultTitle, view.Title)
	assert.Equal(t, 4.5, view.Stats[model.StatDiscipline])
	assert.Equal(t, 2.0, view.Stats["charisma"], "unknown stats are kept")
	assert.Contains(t, view.Stats, model.StatAdaptability)
	assert.Equal(t, 3, view.Level.AvailablePoints)
	require.Len(t, view.DailyQuests, 2)
	assert.Equal(t, expires, view.DailyQuests[0].ExpirationTime)
	assert.Empty(t, view.DailyQuests[1].ExpirationTime)
	assert.Empty(t, view.OptionalQuests)
	require.Len(t, view.PendingNotifications, 1)
	assert.Equal(t, "n1", view.PendingNotifications[0].ID)
	assert.Equal(t, now, view.RefreshedAt)
}

func TestToUserIdentity(t *testing.T) {
	assert.Nil(t, ToUserIdentity(nil))

	user := ToUserIdentity(&UserRecord{ID: "1", Username: "hero", Title: "Hunter"})
	require.NotNil(t, user)
	assert.Equal(t, "hero", user.Username)
	assert.Equal(t, "Hunter", user.Title)
}
