package dto

type StudentPortalResponse struct {
	Patient PatientSummary       `json:"patient"`
	Athlete *AthleteResponse     `json:"athlete"`
	House   *HouseResponse       `json:"house"`
	Scores  []ScoreEntryResponse `json:"scores"`
	Ranking []HouseRankingItem   `json:"ranking"`
}

type PatientSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
