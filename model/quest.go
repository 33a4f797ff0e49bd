package model

// Quest is owned by the progression service; the engine only needs the ID
// to dispatch actions against it.
type Quest struct {
	ID             string  `json:"id"`
	Text           string  `json:"text"`
	Difficulty     int     `json:"difficulty,omitempty"`
	RewardXP       float64 `json:"reward_xp,omitempty"`
	PrimaryStat    string  `json:"primary_stat,omitempty"`
	DueDate        string  `json:"due_date,omitempty"`
	ExpirationTime string  `json:"expiration_time,omitempty"`
}

// LevelUpDetails is shown by the level-up presentation.
type LevelUpDetails struct {
	NewLevel     int     `json:"new_level"`
	PointsGained float64 `json:"points_gained"`
}
