package converter

import (
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
)

// HouseToResponse converts a House entity to HouseResponse DTO
func HouseToResponse(house *entity.House) *dto.HouseResponse {
	if house == nil {
		return nil
	}

	return &dto.HouseResponse{
		ID:        house.ID,
		Name:      house.Name,
		Color:     house.Color,
		Crest:     house.Crest,
		Active:    house.Active,
		CreatedAt: house.CreatedAt,
	}
}

func HousesToResponses(houses []entity.House) []dto.HouseResponse {
	responses := make([]dto.HouseResponse, len(houses))
	for i := range houses {
		responses[i] = *HouseToResponse(&houses[i])
	}
	return responses
}

// HouseRanking numbers houses in the order given, 1-based
func HouseRanking(totals []entity.HouseTotal) []dto.HouseRankingItem {
	items := make([]dto.HouseRankingItem, len(totals))
	for i, t := range totals {
		items[i] = dto.HouseRankingItem{
			Position:    i + 1,
			ID:          t.ID,
			Name:        t.Name,
			Color:       t.Color,
			Crest:       t.Crest,
			TotalPoints: t.TotalPoints,
		}
	}
	return items
}

// AthleteRanking numbers athletes in the order given, 1-based
func AthleteRanking(totals []entity.AthleteTotal) []dto.AthleteRankingItem {
	items := make([]dto.AthleteRankingItem, len(totals))
	for i, t := range totals {
		items[i] = dto.AthleteRankingItem{
			Position:    i + 1,
			ID:          t.ID,
			Name:        t.Name,
			TotalPoints: t.TotalPoints,
		}
	}
	return items
}

func CategoryToResponse(rule *entity.RuleTotal) *dto.CategoryResponse {
	if rule == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:          rule.ID,
		Name:        rule.Name,
		TotalPoints: rule.TotalPoints,
	}
}
