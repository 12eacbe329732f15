package response

import (
	"time"

	"sports-prediction/internal/data/entity"
)

type ActivationStatusResponse struct {
	IsActivated bool `json:"isActivated"`
}

type ActivationCodeResponse struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	IsUsed    bool       `json:"isUsed"`
	UsedByID  *string    `json:"usedById,omitempty"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

func ActivationCodeToResponse(code *entity.ActivationCode) ActivationCodeResponse {
	resp := ActivationCodeResponse{
		ID:        code.ID.String(),
		Code:      code.Code,
		IsUsed:    code.IsUsed,
		UsedAt:    code.UsedAt,
		CreatedAt: code.CreatedAt,
	}
	if code.UsedByID != nil {
		usedBy := code.UsedByID.String()
		resp.UsedByID = &usedBy
	}
	return resp
}
