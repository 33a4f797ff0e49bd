package dto

import (
	"time"

	"levelup/model"
)

type LevelRecord struct {
	Level           int     `json:"level"`
	TotalXP         float64 `json:"total_xp"`
	AvailablePoints int     `json:"available_points"`
	NextLevelXP     float64 `json:"next_level_xp"`
	ProgressPercent float64 `json:"progress_percent"`
}

type QuestRecord struct {
	ID             string  `json:"id"`
	Text           string  `json:"text"`
	Difficulty     int     `json:"difficulty"`
	RewardXP       float64 `json:"reward_xp"`
	PrimaryStat    string  `json:"primary_stat"`
	DueDate        string  `json:"due_date,omitempty"`
	ExpirationTime *string `json:"expiration_time,omitempty"`
}

type NotificationRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at,omitempty"`
}

type DashboardResponse struct {
	Title          string               `json:"title"`
	Stats          map[string]float64   `json:"stats"`
	Level          LevelRecord          `json:"level"`
	DailyQuests    []QuestRecord        `json:"daily_quests"`
	OptionalQuests []QuestRecord        `json:"optional_quests"`
	Notifications  []NotificationRecord `json:"notifications"`
	TotalXP        float64              `json:"total_xp"`
}

type MarkReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

func ToQuest(q QuestRecord) model.Quest {
	quest := model.Quest{
		ID:          q.ID,
		Text:        q.Text,
		Difficulty:  q.Difficulty,
		RewardXP:    q.RewardXP,
		PrimaryStat: q.PrimaryStat,
		DueDate:     q.DueDate,
	}
	if q.ExpirationTime != nil {
		quest.ExpirationTime = *q.ExpirationTime
	}
	return quest
}

func ToQuests(records []QuestRecord) []model.Quest {
	quests := make([]model.Quest, len(records))
	for i, q := range records {
		quests[i] = ToQuest(q)
	}
	return quests
}

// ToDashboardView converts a dashboard response into a complete view.
// Missing stats fall back to zero so every known stat is always present.
func ToDashboardView(resp *DashboardResponse, refreshedAt time.Time) model.DashboardView {
	stats := model.DefaultStats()
	for name, value := range resp.Stats {
		stats[name] = value
	}

	pending := make([]model.ServerNotification, len(resp.Notifications))
	for i, n := range resp.Notifications {
		pending[i] = model.ServerNotification{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			CreatedAt: n.CreatedAt,
		}
	}

	title := resp.Title
	if title == "" {
		title = model.DefaultTitle
	}

	return model.DashboardView{
		Title:          title,
		Stats:          stats,
		DailyQuests:    ToQuests(resp.DailyQuests),
		OptionalQuests: ToQuests(resp.OptionalQuests),
		Level: model.LevelInfo{
			Level:           resp.Level.Level,
			TotalXP:         resp.Level.TotalXP,
			AvailablePoints: resp.Level.AvailablePoints,
			NextLevelXP:     resp.Level.NextLevelXP,
			ProgressPercent: resp.Level.ProgressPercent,
		},
		PendingNotifications: pending,
		TotalXP:              resp.TotalXP,
		RefreshedAt:          refreshedAt,
	}
}
