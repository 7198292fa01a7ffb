package usecase

import (
	"github.com/bibbank/heartrisk/internal/application/dto"
	"github.com/bibbank/heartrisk/internal/domain/service"
)

// RecommendDiet returns diet guidance for a verdict.
type RecommendDiet struct {
	advisor *service.DietAdvisor
}

// NewRecommendDiet creates a new RecommendDiet use case.
func NewRecommendDiet(advisor *service.DietAdvisor) *RecommendDiet {
	return &RecommendDiet{advisor: advisor}
}

// Execute returns the guidance list matching hasHeartDisease.
func (uc *RecommendDiet) Execute(hasHeartDisease bool) dto.RecommendationsResponse {
	return dto.RecommendationsResponse{
		Prediction:      hasHeartDisease,
		Recommendations: uc.advisor.Recommend(hasHeartDisease),
	}
}
