package dto

type CompleteQuestResponse struct {
	Message       string       `json:"message,omitempty"`
	XPGained      float64      `json:"xp_gained"`
	StatIncreased string       `json:"stat_increased"`
	StatChange    float64      `json:"stat_change"`
	LevelUp       bool         `json:"level_up"`
	NewLevel      *int         `json:"new_level"`
	PointsGained  float64      `json:"points_gained"`
	Quest         *QuestRecord `json:"quest,omitempty"`
}

type FailQuestResponse struct {
	Message       string       `json:"message,omitempty"`
	XPLost        float64      `json:"xp_lost"`
	StatDecreased string       `json:"stat_decreased"`
	StatChange    float64      `json:"stat_change"`
	Quest         *QuestRecord `json:"quest,omitempty"`
}

type GenerateQuestRequest struct {
	Goal string `json:"goal"`
}

type GenerateQuestResponse struct {
	Message string       `json:"message,omitempty"`
	Quest   *QuestRecord `json:"quest,omitempty"`
}
