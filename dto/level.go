package dto

type AllocateRequest struct {
	Stat   string `json:"stat"`
	Points int    `json:"points"`
}

type AllocateResponse struct {
	Message         string             `json:"message,omitempty"`
	Stats           map[string]float64 `json:"stats"`
	AvailablePoints int                `json:"available_points"`
}
