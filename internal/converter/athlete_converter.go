package converter

import (
	"marcha-api/internal/delivery/dto"
	"marcha-api/internal/domain/entity"
)

// AthleteToResponse converts an Athlete entity and its total to AthleteResponse DTO
func AthleteToResponse(athlete *entity.Athlete, totalPoints int64) *dto.AthleteResponse {
	if athlete == nil {
		return nil
	}

	response := &dto.AthleteResponse{
		ID:          athlete.ID,
		Name:        athlete.Name,
		HouseID:     athlete.HouseID,
		PatientID:   athlete.PatientID,
		TotalPoints: totalPoints,
		CreatedAt:   athlete.CreatedAt,
	}

	if athlete.House != nil {
		response.HouseName = athlete.House.Name
	}

	return response
}

func ScoreEntriesToResponses(entries []entity.ScoreEntry) []dto.ScoreEntryResponse {
	responses := make([]dto.ScoreEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = dto.ScoreEntryResponse{
			ID:            e.ID,
			RuleName:      e.RuleName,
			Value:         e.Value,
			AppointmentID: e.AppointmentID,
			CreatedAt:     e.CreatedAt,
		}
	}
	return responses
}

func RuleToResponse(rule *entity.ScoringRule) *dto.RuleResponse {
	if rule == nil {
		return nil
	}
	return &dto.RuleResponse{
		ID:          rule.ID,
		Name:        rule.Name,
		Value:       rule.Value,
		Description: rule.Description,
		Active:      rule.Active,
		CreatedAt:   rule.CreatedAt,
	}
}

func RulesToResponses(rules []entity.ScoringRule) []dto.RuleResponse {
	responses := make([]dto.RuleResponse, len(rules))
	for i := range rules {
		responses[i] = *RuleToResponse(&rules[i])
	}
	return responses
}
