package model

import "time"

const DefaultTitle = "Alone, I Level Up"

type LevelInfo struct {
	Level           int     `json:"level"`
	TotalXP         float64 `json:"total_xp"`
	AvailablePoints int     `json:"available_points"`
	NextLevelXP     float64 `json:"next_level_xp"`
	ProgressPercent float64 `json:"progress_percent"`
}

func DefaultLevel() LevelInfo {
	return LevelInfo{Level: 1, NextLevelXP: 1000}
}

type ServerNotification struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at,omitempty"`
}

// DashboardView is the aggregate the dashboard screen renders. It is
// replaced as a whole on every successful refresh.
type DashboardView struct {
	Title                string               `json:"title"`
	Stats                Stats                `json:"stats"`
	DailyQuests          []Quest              `json:"daily_quests"`
	OptionalQuests       []Quest              `json:"optional_quests"`
	Level                LevelInfo            `json:"level"`
	PendingNotifications []ServerNotification `json:"pending_notifications"`
	TotalXP              float64              `json:"total_xp"`
	RefreshedAt          time.Time            `json:"refreshed_at,omitempty"`
}

func DefaultDashboard() DashboardView {
	return DashboardView{
		Title:          DefaultTitle,
		Stats:          DefaultStats(),
		DailyQuests:    []Quest{},
		OptionalQuests: []Quest{},
		Level:          DefaultLevel(),
	}
}

// Clone returns a copy that shares no slices or maps with v.
func (v DashboardView) Clone() DashboardView {
	out := v
	out.Stats = v.Stats.Clone()
	out.DailyQuests = append([]Quest(nil), v.DailyQuests...)
	out.OptionalQuests = append([]Quest(nil), v.OptionalQuests...)
	out.PendingNotifications = append([]ServerNotification(nil), v.PendingNotifications...)
	return out
}
