package response

import (
	"time"

	"sports-prediction/internal/data/entity"
)

type PredictionResponse struct {
	ID         string    `json:"id"`
	Match      string    `json:"match"`
	League     string    `json:"league"`
	Prediction string    `json:"prediction"`
	Multiplier string    `json:"multiplier"`
	Time       string    `json:"time"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type SeedResponse struct {
	Predictions int `json:"predictions"`
}

func PredictionToResponse(p *entity.Prediction) PredictionResponse {
	return PredictionResponse{
		ID:         p.ID.String(),
		Match:      p.Match,
		League:     p.League,
		Prediction: p.Prediction,
		Multiplier: p.Multiplier,
		Time:       p.Time,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
	}
}
